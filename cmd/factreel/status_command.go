package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"factreel/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			requirements := append(deps.PipelineRequirements(), deps.FetchRequirements()...)
			rows := make([][]string, 0, len(requirements))
			healthy := true
			for _, status := range deps.CheckBinaries(requirements) {
				state := "ok"
				if !status.Available {
					state = "missing"
					if !status.Optional {
						healthy = false
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "State", "Detail"},
				rows,
				nil,
			))
			if !healthy {
				return fmt.Errorf("one or more required tools are missing")
			}
			return nil
		},
	}
}
