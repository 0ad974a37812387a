package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rigroot/internal/config"
	"rigroot/internal/interchange"
	"rigroot/internal/journal"
	"rigroot/internal/pipeline"
	"rigroot/internal/textutil"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var outputName string

	cmd := &cobra.Command{
		Use:   "convert <asset>",
		Short: "Convert a rigged asset into a root-motion rig",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			store, err := journal.Open(cfg)
			if err != nil {
				fmt.Fprintf(out, "! journal unavailable: %v\n", err)
				store = nil
			}
			if store != nil {
				defer store.Close()
			}

			p := pipeline.New(cfg, interchange.NewExecCodec(cfg), ctx.fileLogger(cfg), store)
			stream := p.Run(cmd.Context(), pipeline.Request{
				SourcePath:     source,
				OutputDir:      outputDir,
				OutputFilename: outputName,
			})
			for stream.Next() {
				ev := stream.Event()
				marker := " "
				if ev.Warning {
					marker = "!"
				}
				fmt.Fprintf(out, "%s %-14s %s\n", marker, textutil.StageLabel(ev.Tag), ev.Message)
			}
			return stream.Err()
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Export directory (defaults to stored settings, then config)")
	cmd.Flags().StringVarP(&outputName, "name", "n", "", "Export filename (defaults to the source file stem)")
	return cmd
}
