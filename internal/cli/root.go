// Package cli provides the command-line interface for etlgraph.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/etlgraph-labs/etlgraph/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfg *config.Config
	var logger *slog.Logger

	rootCmd := &cobra.Command{
		Use:   "etlgraph",
		Short: "etlgraph - ETL package lineage and dependency analysis",
		Long: `etlgraph builds a typed dependency graph from extracted ETL package
records, derives SQL table lineage, and computes cross-package
relationships: shared resources, execution order, and contention risk.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(".", cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("output", "o", "table", "Output format (table|json)")
	flags.String("state", "", "Path to the run-history database (empty disables)")
	flags.Int("threshold", 0, "High-contention pipeline threshold")
	flags.Int("workers", 0, "Parallel package builds (0 = GOMAXPROCS)")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")

	getCfg := func() *config.Config { return cfg }
	getLogger := func() *slog.Logger { return logger }

	rootCmd.AddCommand(
		newAnalyzeCmd(getCfg, getLogger),
		newLineageCmd(getCfg),
		newExportCmd(getCfg, getLogger),
		newRunsCmd(getCfg),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("command failed", "error", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
