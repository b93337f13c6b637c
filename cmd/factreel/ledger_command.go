package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"factreel/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the download ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newLedgerListCommand(ctx))
	cmd.AddCommand(newLedgerHasCommand(ctx))

	return cmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every recorded download",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Ledger is empty")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				downloaded := ""
				if !rec.DownloadedAt.IsZero() {
					downloaded = rec.DownloadedAt.Format(time.RFC3339)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", rec.ID),
					rec.Title,
					rec.URL,
					downloaded,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "URL", "Downloaded"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newLedgerHasCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "has URL",
		Short: "Check whether a URL has already been downloaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not downloaded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded as %q at %s\n",
				rec.Title, rec.DownloadedAt.Format(time.RFC3339))
			return nil
		},
	}
}
