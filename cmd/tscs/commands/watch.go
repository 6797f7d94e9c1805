package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"martianoff/tscs/internal/build"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-transpile sources as they change",
		Long: `Watch transpiles the source tree once, then re-transpiles every file
that is written or created until interrupted.

Examples:
  tscs watch                    # Watch the configured input
  tscs watch src -o generated   # Watch a specific tree`,
		Args: cobra.MaximumNArgs(1),
	}
	bindings := append(addEngineFlags(cmd.Flags()), flagBinding{flag: "output", key: "output"})
	cmd.Flags().StringP("output", "o", "", "output directory")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, opts, bindings...)
		if err != nil {
			return err
		}
		applyNoHeader(cmd, cfg)
		if len(args) > 0 {
			cfg.Input = args[0]
		}
		bc, err := build.NewConfig(cfg)
		if err != nil {
			return err
		}
		b, err := build.NewBuilder(bc)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := b.Build(ctx)
		if err != nil {
			return err
		}
		for _, f := range report.Files {
			printDiagnostics(cmd.ErrOrStderr(), f.Path, f.Diagnostics)
		}
		return b.Watch(ctx, func(r build.FileResult) {
			if r.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", r.Err)
				return
			}
			printDiagnostics(cmd.ErrOrStderr(), r.Path, r.Diagnostics)
		})
	}
	return cmd
}
