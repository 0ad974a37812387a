package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rigroot/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := run.OutputPath
				if run.Status == journal.StatusFailed {
					detail = run.ErrorMessage
				}
				rows = append(rows, []string{
					run.StartedAt.Local().Format(time.DateTime),
					run.AssetName,
					run.AssetKind,
					run.Status,
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Asset", "Kind", "Status", "Output / Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.AddCommand(newHistoryClearCommand(ctx))
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to show")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear journal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d recorded runs\n", removed)
			return nil
		},
	}
}
