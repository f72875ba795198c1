package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/etlgraph-labs/etlgraph/internal/builder"
	"github.com/etlgraph-labs/etlgraph/internal/config"
	"github.com/etlgraph-labs/etlgraph/internal/engine"
)

func newAnalyzeCmd(getCfg func() *config.Config, getLogger func() *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <records.json>",
		Short: "Build the lineage graph and run cross-package analysis",
		Long: `Reads extracted package records, builds the multi-package lineage
graph, and reports execution levels, shared resources and risks.`,
		Example: `  # Analyze a record file and print the report
  etlgraph analyze packages.json

  # JSON report, custom contention threshold
  etlgraph analyze packages.json -o json --threshold 5

  # Record the run in a history database
  etlgraph analyze packages.json --state .etlgraph/runs.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()

			pkgs, err := builder.LoadPackages(args[0])
			if err != nil {
				return err
			}
			if len(pkgs) == 0 {
				return fmt.Errorf("no packages found in %s", args[0])
			}

			eng, err := engine.New(engine.Config{
				HighContentionThreshold: cfg.HighContentionThreshold,
				Workers:                 cfg.Workers,
				StatePath:               cfg.StatePath,
				Logger:                  getLogger(),
			})
			if err != nil {
				return err
			}
			defer eng.Close()

			res, err := eng.Run(cmd.Context(), args[0], pkgs)
			if err != nil {
				return err
			}

			return renderReport(cmd.OutOrStdout(), res, cfg.Output)
		},
	}
	return cmd
}
