package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"factreel/internal/deps"
	"factreel/internal/handoff"
	"factreel/internal/pipeline"
	"factreel/internal/services/ffmpeg"
	"factreel/internal/services/whisper"
	"factreel/internal/stability"
)

func newHandoffCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Inspect or process the transcription hand-off list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newHandoffListCommand(ctx))
	cmd.AddCommand(newHandoffRunCommand(ctx))

	return cmd
}

func newHandoffListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the directories currently on the hand-off list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dirs, err := handoff.Load(cfg.Paths.HandoffPath)
			if err != nil {
				return err
			}
			if len(dirs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Hand-off list is empty")
				return nil
			}
			for _, dir := range dirs {
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}

func newHandoffRunCommand(ctx *commandContext) *cobra.Command {
	var maxWorkers int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every directory on the hand-off list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if err := deps.Preflight(deps.PipelineRequirements()); err != nil {
				return err
			}

			dirs, err := handoff.Load(cfg.Paths.HandoffPath)
			if err != nil {
				return err
			}
			if len(dirs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Hand-off list is empty; nothing to do")
				return nil
			}

			if maxWorkers <= 0 {
				maxWorkers = cfg.Pipeline.MaxParallel
			}
			runner := &pipeline.Runner{
				Logger:      logger,
				Extractor:   ffmpeg.NewCLI(),
				Transcriber: whisper.NewCLI(),
				Stability: stability.Detector{
					Logger: logger,
					Window: time.Duration(cfg.Pipeline.StableSeconds) * time.Second,
				},
				BaseDir:     cfg.Paths.DownloadDir,
				Model:       cfg.Pipeline.WhisperModel,
				Extensions:  cfg.Pipeline.VideoExtensions,
				MaxParallel: maxWorkers,
			}

			total, failed := 0, 0
			for _, dir := range dirs {
				results, err := runner.Run(cmd.Context(), dir)
				if err != nil {
					logger.Error("could not scan hand-off directory", "dir", dir, "error", err)
					continue
				}
				for _, result := range results {
					total++
					if result.Err != nil {
						failed++
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d item(s) across %d director(ies), %d failure(s)\n",
				total, len(dirs), failed)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Concurrent items in flight (default: pipeline.max_parallel)")

	return cmd
}
