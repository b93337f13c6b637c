package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"factreel/internal/deps"
	"factreel/internal/pipeline"
	"factreel/internal/services/ffmpeg"
	"factreel/internal/services/whisper"
	"factreel/internal/stability"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var downloadsDir string
	var maxWorkers int
	var stableSeconds int
	var model string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Scan the downloads tree and advance every item through the pipeline",
		Long: `Scan the downloads tree for primary media files and advance each one through
audio extraction, transcription, and packaging. Completed items are skipped;
unstable or partial files are deferred to a later scan. Individual item
failures are logged and do not affect the exit status.`,
		Args: cobra.NoArgs,
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

			if downloadsDir == "" {
				downloadsDir = cfg.Paths.DownloadDir
			}
			if maxWorkers <= 0 {
				maxWorkers = cfg.Pipeline.MaxParallel
			}
			if stableSeconds <= 0 {
				stableSeconds = cfg.Pipeline.StableSeconds
			}
			if model == "" {
				model = cfg.Pipeline.WhisperModel
			}

			runner := &pipeline.Runner{
				Logger:      logger,
				Extractor:   ffmpeg.NewCLI(),
				Transcriber: whisper.NewCLI(),
				Stability: stability.Detector{
					Logger: logger,
					Window: time.Duration(stableSeconds) * time.Second,
				},
				BaseDir:     downloadsDir,
				Model:       model,
				Extensions:  cfg.Pipeline.VideoExtensions,
				MaxParallel: maxWorkers,
			}

			started := time.Now()
			results, err := runner.Run(cmd.Context(), downloadsDir)
			if err != nil {
				return err
			}

			failed := 0
			for _, result := range results {
				if result.Err != nil {
					failed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d item(s), %d failure(s) in %s\n",
				len(results), failed, time.Since(started).Round(time.Second))
			return nil
		},
	}

	cmd.Flags().StringVar(&downloadsDir, "downloads-dir", "", "Directory to scan (default: paths.download_dir)")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Concurrent items in flight (default: pipeline.max_parallel)")
	cmd.Flags().IntVar(&stableSeconds, "stable-seconds", 0, "Write-stability window in seconds (default: pipeline.stable_seconds)")
	cmd.Flags().StringVar(&model, "model", "", "Whisper model size (default: pipeline.whisper_model)")

	return cmd
}
