package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/etlgraph-labs/etlgraph/internal/engine"
	"github.com/etlgraph-labs/etlgraph/internal/state"
	"github.com/etlgraph-labs/etlgraph/pkg/sqllineage"
)

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderReport prints the analysis report.
func renderReport(w io.Writer, res *engine.RunResult, format string) error {
	if format == "json" {
		return renderJSON(w, map[string]any{
			"analysis":    res.Analysis,
			"diagnostics": res.Diagnostics,
			"run_id":      res.RunID,
		})
	}

	a := res.Analysis
	fmt.Fprintf(w, "Analyzed %d packages: %d shared resources, %d risks, %d derived edges\n\n",
		a.PackagesAnalyzed, len(a.SharedResources), len(a.Risks), a.EdgesAdded)

	// Execution levels, cycle members last.
	type leveled struct {
		id    string
		level *int
	}
	rows := make([]leveled, 0, len(a.ExecutionLevels))
	for id, lvl := range a.ExecutionLevels {
		rows = append(rows, leveled{id, lvl})
	}
	sort.Slice(rows, func(i, j int) bool {
		li, lj := rows[i].level, rows[j].level
		switch {
		case li == nil && lj == nil:
			return rows[i].id < rows[j].id
		case li == nil:
			return false
		case lj == nil:
			return true
		case *li != *lj:
			return *li < *lj
		}
		return rows[i].id < rows[j].id
	})

	t := newTable(w)
	t.SetTitle("Execution Levels")
	t.AppendHeader(table.Row{"Pipeline", "Level"})
	for _, r := range rows {
		lvl := "(cycle)"
		if r.level != nil {
			lvl = fmt.Sprintf("%d", *r.level)
		}
		t.AppendRow(table.Row{r.id, lvl})
	}
	t.Render()
	fmt.Fprintln(w)

	if len(a.SharedResources) > 0 {
		t = newTable(w)
		t.SetTitle("Shared Resources")
		t.AppendHeader(table.Row{"Resource", "Kind", "Pipelines", "Writers", "Risk"})
		for _, sr := range a.SharedResources {
			t.AppendRow(table.Row{
				sr.ResourceID, sr.Kind, len(sr.Pipelines), len(sr.Writers), sr.RiskLevel,
			})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(a.Risks) > 0 {
		t = newTable(w)
		t.SetTitle("Risks")
		t.AppendHeader(table.Row{"Kind", "Resource", "Pipelines", "Detail"})
		for _, r := range a.Risks {
			t.AppendRow(table.Row{r.Kind, r.ResourceID, strings.Join(r.PipelineIDs, ", "), r.Detail})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(res.Diagnostics) > 0 {
		t = newTable(w)
		t.SetTitle("Diagnostics")
		t.AppendHeader(table.Row{"Operation", "Code", "Message"})
		for _, d := range res.Diagnostics {
			t.AppendRow(table.Row{d.OperationID, d.Code, d.Message})
		}
		t.Render()
	}
	return nil
}

// renderLineage prints one extracted statement.
func renderLineage(w io.Writer, stmt *sqllineage.Statement, warnings []sqllineage.Warning, format string) error {
	if format == "json" {
		return renderJSON(w, map[string]any{
			"statement": stmt,
			"warnings":  warnings,
		})
	}

	fmt.Fprintf(w, "Statement kind: %s\n\n", stmt.Kind)

	if len(stmt.Tables) > 0 {
		t := newTable(w)
		t.SetTitle("Tables")
		t.AppendHeader(table.Row{"Name", "Aliases", "Role", "Flags"})
		for _, ref := range stmt.Tables {
			role := "read"
			if ref.IsTarget {
				role = "write"
			}
			var flags []string
			if ref.IsTemporary {
				flags = append(flags, "temp")
			}
			if ref.IsFunction {
				flags = append(flags, "function")
			}
			if ref.FromSubquery {
				flags = append(flags, "subquery")
			}
			if ref.ViaCTE != "" {
				flags = append(flags, "cte:"+ref.ViaCTE)
			}
			t.AppendRow(table.Row{
				ref.QualifiedName(), strings.Join(ref.Aliases, ", "), role, strings.Join(flags, ","),
			})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(stmt.Joins) > 0 {
		t := newTable(w)
		t.SetTitle("Joins")
		t.AppendHeader(table.Row{"Type", "Left", "Right", "Condition"})
		for _, j := range stmt.Joins {
			t.AppendRow(table.Row{j.JoinType, j.LeftRef, j.RightRef, j.Condition})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(stmt.Columns) > 0 {
		t := newTable(w)
		t.SetTitle("Column Mappings")
		t.AppendHeader(table.Row{"Target", "Source Expression", "Source Tables"})
		for _, c := range stmt.Columns {
			t.AppendRow(table.Row{c.TargetColumn, c.SourceExpression, strings.Join(c.SourceTables, ", ")})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

// renderRuns prints run history.
func renderRuns(w io.Writer, runs []*state.Run, format string) error {
	if format == "json" {
		return renderJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "(no runs recorded)")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Run", "Status", "Packages", "Shared", "Risks", "Started", "Duration"})
	for _, run := range runs {
		dur := "-"
		if run.CompletedAt != nil {
			dur = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			shortID(run.ID), run.Status, run.Packages, run.SharedResources, run.Risks,
			run.StartedAt.Format(time.RFC3339), dur,
		})
	}
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
