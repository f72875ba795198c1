package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etlgraph-labs/etlgraph/internal/config"
	"github.com/etlgraph-labs/etlgraph/pkg/sqllineage"
)

func newLineageCmd(getCfg func() *config.Config) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "lineage [sql]",
		Short: "Extract table lineage from a single SQL statement",
		Long: `Runs the SQL lineage extractor on one statement and prints the
referenced tables, joins and column mappings.`,
		Example: `  # Inline SQL
  etlgraph lineage "INSERT INTO t2 SELECT * FROM t1"

  # From a file, as JSON
  etlgraph lineage -f query.sql -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sql string
			switch {
			case fromFile != "":
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("reading %s: %w", fromFile, err)
				}
				sql = string(data)
			case len(args) == 1:
				sql = args[0]
			default:
				return fmt.Errorf("provide SQL as an argument or with --file")
			}

			if strings.TrimSpace(sql) == "" {
				return fmt.Errorf("empty SQL input")
			}

			stmt, warnings := sqllineage.Extract(sql)
			return renderLineage(cmd.OutOrStdout(), stmt, warnings, getCfg().Output)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read the SQL statement from a file")
	return cmd
}
