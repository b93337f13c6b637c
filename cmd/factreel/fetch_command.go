package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"factreel/internal/deps"
	"factreel/internal/handoff"
	"factreel/internal/ingest"
	"factreel/internal/ledger"
	"factreel/internal/retry"
	"factreel/internal/services/ytdlp"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var destTitle string
	var factcheck bool

	cmd := &cobra.Command{
		Use:   "fetch URL...",
		Short: "Download one or more URLs through the ledger gate",
		Args:  cobra.MinimumNArgs(1),
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

			failed := 0
			for _, url := range args {
				title := destTitle
				if title == "" {
					title = url
				}
				if _, err := downloader.Download(cmd.Context(), url, title, factcheck); err != nil {
					logger.Error("fetch failed", "url", url, "error", err)
					failed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d of %d URL(s)\n", len(args)-failed, len(args))
			if failed == len(args) {
				return fmt.Errorf("all %d fetch(es) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&destTitle, "dest-title", "", "Item directory title (default: the URL itself)")
	cmd.Flags().BoolVar(&factcheck, "factcheck", false, "Route the item directory onto the hand-off list")

	return cmd
}
