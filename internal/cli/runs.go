package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etlgraph-labs/etlgraph/internal/config"
	"github.com/etlgraph-labs/etlgraph/internal/state"
)

func newRunsCmd(getCfg func() *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded analysis runs",
		Example: `  etlgraph runs --state .etlgraph/runs.db
  etlgraph runs --state .etlgraph/runs.db --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getCfg()
			if cfg.StatePath == "" {
				return fmt.Errorf("no run-history database configured (set --state or state_path)")
			}

			store, err := state.Open(cfg.StatePath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			return renderRuns(cmd.OutOrStdout(), runs, cfg.Output)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "etlgraph %s (built %s, commit %s)\n", Version, BuildDate, GitCommit)
		},
	}
}
