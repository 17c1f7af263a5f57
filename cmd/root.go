package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mj1618/layout-inspector/internal/config"
	"github.com/mj1618/layout-inspector/internal/output"
	"github.com/mj1618/layout-inspector/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "layout-inspector",
	Short: "Inspect and edit a live UI component tree",
	Long: `Walk the live component tree of a host application, print stable snapshots
of its layout and push attribute edits back into it. Node ids stay the same
across snapshots for as long as the node lives.`,
	SilenceUsage: true,
}

// cfg is the loaded configuration, set before any command runs.
var cfg = config.Default()

// logger writes to stderr at the configured level.
var logger = slog.New(slog.DiscardHandler)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json, cbor, tree")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Log.Level
		if l, _ := rootCmd.PersistentFlags().GetString("log-level"); l != "" {
			level = l
		}
		logger, err = newLogger(level)
		if err != nil {
			return err
		}

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
