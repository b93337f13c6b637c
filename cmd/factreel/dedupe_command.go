package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"factreel/internal/dedupe"
)

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Find byte-identical downloads that have not been processed yet",
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

			sweeper := dedupe.Sweeper{
				Logger:     logger,
				Extensions: cfg.Pipeline.VideoExtensions,
			}
			duplicates, err := sweeper.Scan(cfg.Paths.DownloadDir)
			if err != nil {
				return err
			}
			if len(duplicates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No duplicates found")
				return nil
			}

			for _, dup := range duplicates {
				fmt.Fprintf(cmd.OutOrStdout(), "keep   %s\n", dup.Keep)
				for _, path := range dup.Remove {
					fmt.Fprintf(cmd.OutOrStdout(), "  dup  %s\n", path)
				}
			}

			if remove {
				removed := sweeper.Remove(duplicates)
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d duplicate file(s)\n", removed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the duplicate copies")

	return cmd
}
