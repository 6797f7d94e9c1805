// Package commands provides the CLI commands for the tscs tool.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"martianoff/tscs/internal/config"
	"martianoff/tscs/tscserr"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFiles []string
	level       string
	logFormat   string
}

// NewRootCommand builds the tscs command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "tscs",
		Short: "TypeScript to C# transpiler for Godot .NET",
		Long: `tscs transpiles TypeScript sources into C# targeting Godot 4 .NET.

Usage:
  tscs transpile player.ts           Print the C# for one file
  tscs transpile src -o generated    Transpile a source tree
  tscs watch src                     Re-transpile files as they change
  tscs version                       Print version

Configuration is read from tscs.yaml, tscs.json or tscs.toml in the working
directory, from --config files, and from TSCS_ environment variables.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(cmd.ErrOrStderr(), opts.level, opts.logFormat)
		},
	}

	flags := root.PersistentFlags()
	flags.StringSliceVar(&opts.configFiles, "config", nil, "config file(s); later files override earlier ones")
	flags.StringVarP(&opts.level, "level", "l", "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(newTranspileCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initLogging installs the default slog logger on w.
func initLogging(w io.Writer, level, format string) error {
	var ll slog.Level
	if strings.EqualFold(level, "trace") {
		ll = slog.Level(-8)
	} else if err := ll.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}

	handlerOpts := &slog.HandlerOptions{Level: ll}
	var h slog.Handler
	switch strings.ToLower(format) {
	case "text":
		h = slog.NewTextHandler(w, handlerOpts)
	case "json":
		h = slog.NewJSONHandler(w, handlerOpts)
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// flagBinding maps a command flag to the configuration key it overrides.
type flagBinding struct {
	flag string
	key  string
}

// loadConfig merges the configuration files, environment and the changed
// flags of cmd listed in bindings.
func loadConfig(cmd *cobra.Command, opts *globalOptions, bindings ...flagBinding) (*config.File, error) {
	l := config.NewLoader()
	for _, b := range bindings {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := l.BindFlag(b.key, f); err != nil {
			return nil, tscserr.NewConfigError(b.key, err.Error())
		}
	}
	cfg, err := l.Load(opts.configFiles...)
	if err != nil {
		return nil, err
	}
	if used := l.Used(); used != "" {
		slog.Debug("using config file", "config", used)
	}
	return cfg, nil
}

// addEngineFlags registers the flags shared by transpile and watch.
func addEngineFlags(flags *pflag.FlagSet) []flagBinding {
	flags.String("namespace-root", "", "namespace prefixed to every derived namespace")
	flags.String("union-strategy", "", "union synthesis strategy (class-hierarchy, tagged-struct)")
	flags.Int("numeric-width", 0, "floating point width of number (32, 64)")
	flags.StringSlice("exclude", nil, "glob patterns of sources to skip")
	flags.Bool("no-header", false, "omit the generated-code header comment")
	return []flagBinding{
		{flag: "namespace-root", key: "namespaceRoot"},
		{flag: "union-strategy", key: "unionStrategy"},
		{flag: "numeric-width", key: "numericWidth"},
		{flag: "exclude", key: "exclude"},
	}
}

// applyNoHeader turns off the header comment when --no-header is set.
func applyNoHeader(cmd *cobra.Command, cfg *config.File) {
	if v, err := cmd.Flags().GetBool("no-header"); err == nil && v {
		cfg.HeaderComment = false
	}
}
