package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/etlgraph-labs/etlgraph/internal/builder"
	"github.com/etlgraph-labs/etlgraph/internal/config"
	"github.com/etlgraph-labs/etlgraph/internal/engine"
)

func newExportCmd(getCfg func() *config.Config, getLogger func() *slog.Logger) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <records.json>",
		Short: "Build, analyze and export the graph as node-link JSON",
		Long: `Builds and analyzes the lineage graph, then writes the full graph
(including derived DEPENDS_ON/SHARES_RESOURCE edges and node
annotations) in node-link JSON form for external tooling.`,
		Example: `  etlgraph export packages.json > graph.json
  etlgraph export packages.json --out graph.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()

			pkgs, err := builder.LoadPackages(args[0])
			if err != nil {
				return err
			}

			eng, err := engine.New(engine.Config{
				HighContentionThreshold: cfg.HighContentionThreshold,
				Workers:                 cfg.Workers,
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

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			return res.Graph.WriteJSON(w)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write to a file instead of stdout")
	return cmd
}
