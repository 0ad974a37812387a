package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"rigroot/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check converter and output directory readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			outputDir := cfg.Paths.OutputDir
			if outputDir == "" {
				outputDir = "."
			}
			results := preflight.RunAll(cfg, outputDir)

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := colorize("ok", text.FgGreen)
				if !result.Passed {
					state = colorize("failed", text.FgRed)
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "State", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			if len(preflight.Failed(results)) > 0 {
				return fmt.Errorf("%d checks failed", len(preflight.Failed(results)))
			}
			return nil
		},
	}
}
