package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"martianoff/tscs/internal/build"
	"martianoff/tscs/internal/config"
	"martianoff/tscs/internal/transpiler"
)

func newTranspileCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transpile [path]",
		Short: "Transpile TypeScript sources to C#",
		Long: `Transpile a TypeScript file or source tree to C#.

A single file is printed to stdout unless -o names an output file. A directory
is transpiled into the output directory, mirroring its layout. Without a path
the configured input, or the enclosing git worktree, is transpiled.

Examples:
  tscs transpile player.ts                  # Output to stdout
  tscs transpile player.ts -o Player.cs     # Output to file
  tscs transpile src -o generated           # Transpile a tree
  tscs transpile --union-strategy tagged-struct src`,
		Args: cobra.MaximumNArgs(1),
	}
	bindings := addEngineFlags(cmd.Flags())
	cmd.Flags().StringP("output", "o", "", "output file, or output directory for a tree")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, opts, bindings...)
		if err != nil {
			return err
		}
		applyNoHeader(cmd, cfg)
		output, _ := cmd.Flags().GetString("output")

		if len(args) > 0 {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return transpileFile(cmd, cfg, args[0], output)
			}
			cfg.Input = args[0]
		}
		if output != "" {
			cfg.Output = output
		}
		return transpileTree(cmd, cfg)
	}
	return cmd
}

func transpileFile(cmd *cobra.Command, cfg *config.File, file, output string) error {
	if cfg.Input == "" {
		cfg.Input = filepath.Dir(file)
	}
	bc, err := build.NewConfig(cfg)
	if err != nil {
		return err
	}
	b, err := build.NewBuilder(bc)
	if err != nil {
		return err
	}
	res, err := b.TranspileFile(cmd.Context(), file)
	if err != nil {
		return err
	}
	printDiagnostics(cmd.ErrOrStderr(), file, res.Diagnostics)

	if output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), res.Code)
		return err
	}
	if err := os.WriteFile(output, []byte(res.Code), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated C# code saved to %s\n", output)
	return nil
}

func transpileTree(cmd *cobra.Command, cfg *config.File) error {
	bc, err := build.NewConfig(cfg)
	if err != nil {
		return err
	}
	b, err := build.NewBuilder(bc)
	if err != nil {
		return err
	}
	report, err := b.Build(cmd.Context())
	if err != nil {
		return err
	}
	for _, f := range report.Files {
		printDiagnostics(cmd.ErrOrStderr(), f.Path, f.Diagnostics)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Transpiled %d file(s) into %s (%d failed, %d warning(s))\n",
		len(report.Files), bc.OutputDir, len(report.Failed()), report.Warnings())
	return report.Err()
}

func printDiagnostics(w io.Writer, file string, diags []transpiler.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%s\n", file, d)
	}
}
