package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"factreel/internal/deps"
	"factreel/internal/handoff"
	"factreel/internal/ingest"
	"factreel/internal/ledger"
	"factreel/internal/retry"
	"factreel/internal/services/ytdlp"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Extract and download URLs from stored message files",
		Long: `Parse stored RFC 5322 message files, filter them by the configured sender
allow-list, and download every URL found in approved message bodies. Subjects
carrying the routing keyword flag their item directories for the hand-off
list.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if err := deps.Preflight(deps.FetchRequirements()); err != nil {
				return err
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := handoff.New(cfg.Paths.HandoffPath)
			if err != nil {
				return err
			}

			downloader := &ingest.Downloader{
				Logger:      logger,
				Ledger:      store,
				Fetcher:     ytdlp.NewCLI(ytdlp.WithCookiesFile(cfg.Fetch.CookiesFile)),
				Retry:       retry.Executor{Logger: logger, MaxAttempts: cfg.Fetch.Retries},
				Handoff:     list,
				DownloadDir: cfg.Paths.DownloadDir,
				URLLog:      cfg.Fetch.URLLog,
			}

			rules := ingest.Rules{
				ApprovedSenders: cfg.Ingest.ApprovedSenders,
				RouteKeyword:    cfg.Ingest.RouteKeyword,
				ResponsePrefix:  cfg.Ingest.ResponsePrefix,
			}

			downloaded := 0
			for _, path := range args {
				file, err := os.Open(path)
				if err != nil {
					logger.Error("could not open message file", "path", path, "error", err)
					continue
				}
				msg, err := ingest.ParseMessage(file)
				file.Close()
				if err != nil {
					logger.Error("could not parse message", "path", path, "error", err)
					continue
				}

				count, err := downloader.IngestMessage(cmd.Context(), msg, rules)
				if err != nil {
					return err
				}
				downloaded += count
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d item(s) from %d message(s)\n", downloaded, len(args))
			return nil
		},
	}

	return cmd
}
