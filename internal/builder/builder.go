// Package builder converts per-package operation records into canonical
// graph nodes and edges. Each package builds independently into an
// immutable Result; results are merged into one graph on a single
// goroutine so shared resource nodes deduplicate without locking.
package builder

import (
	"fmt"
	"strings"

	"github.com/etlgraph-labs/etlgraph/pkg/graph"
	"github.com/etlgraph-labs/etlgraph/pkg/sqllineage"
)

// Diagnostic is a non-fatal problem found while building a package.
type Diagnostic struct {
	OperationID string `json:"operation_id,omitempty"`
	Code        string `json:"code"`
	Message     string `json:"message"`
}

// Result is the immutable output of building one package. Nodes and
// edges are in emission order; shared resource nodes (data assets,
// connections, parameters) are constructed deterministically so
// identical nodes from different packages merge as no-ops.
type Result struct {
	Package     string
	Nodes       []*graph.Node
	Edges       []*graph.Edge
	Diagnostics []Diagnostic
}

// PipelineID returns the node ID for a package name.
func PipelineID(name string) string {
	return "pipeline:" + name
}

// OperationNodeID returns the node ID for an operation within a package.
func OperationNodeID(pkg, op string) string {
	return PipelineID(pkg) + ":operation:" + op
}

// DataAssetID returns the node ID for a qualified table name. IDs are
// lowercased so the same table referenced with different casing across
// packages resolves to one shared node.
func DataAssetID(qualified string) string {
	return "table:" + strings.ToLower(qualified)
}

// ConnectionID returns the node ID for a connection name.
func ConnectionID(name string) string {
	return "connection:" + name
}

// ParameterID returns the node ID for a parameter name.
func ParameterID(name string) string {
	return "parameter:" + name
}

// BuildPackage converts one package's operation records into graph
// nodes and edges. SQL-bearing operations run through the lineage
// extractor; the statement kind decides edge direction. Building never
// fails on bad SQL or bad references: problems surface as Diagnostics
// and as warnings on the operation node.
func BuildPackage(pkg PackageRecord) (*Result, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("package record has no name")
	}

	b := &build{
		res:    &Result{Package: pkg.Name},
		seen:   make(map[string]bool),
		opByID: make(map[string]string),
	}

	pipelineID := PipelineID(pkg.Name)
	b.addNode(&graph.Node{ID: pipelineID, Kind: graph.NodePipeline, Name: pkg.Name})

	for _, op := range pkg.Operations {
		b.operation(pipelineID, pkg.Name, op)
	}

	// Predecessor links resolve after all operations exist, so forward
	// references within a package work.
	for _, op := range pkg.Operations {
		b.precedence(pkg.Name, op)
	}

	return b.res, nil
}

type build struct {
	res    *Result
	seen   map[string]bool   // node IDs emitted so far
	opByID map[string]string // record operation_id -> node ID
}

func (b *build) operation(pipelineID, pkgName string, op OperationRecord) {
	opID := OperationNodeID(pkgName, op.Name)
	props := map[string]any{"subtype": op.Kind}
	if op.OperationID != "" {
		props["operation_id"] = op.OperationID
		b.opByID[op.OperationID] = opID
	}
	if op.RawSQL != "" {
		props["sql_text"] = op.RawSQL
	}

	node := &graph.Node{ID: opID, Kind: graph.NodeOperation, Name: op.Name, Properties: props}
	b.addNode(node)
	b.addEdge(&graph.Edge{SourceID: pipelineID, TargetID: opID, Kind: graph.EdgeContains})

	if op.RawSQL != "" {
		b.sqlLineage(node, op)
	}
	for _, table := range op.ExplicitReads {
		b.assetEdge(opID, table, graph.EdgeReadsFrom, nil)
	}
	for _, table := range op.ExplicitWrites {
		b.assetEdge(opID, table, graph.EdgeWritesTo, nil)
	}
	for _, conn := range op.Connections {
		b.addNode(&graph.Node{ID: ConnectionID(conn), Kind: graph.NodeConnection, Name: conn})
		b.addEdge(&graph.Edge{SourceID: opID, TargetID: ConnectionID(conn), Kind: graph.EdgeUsesConnection})
	}
	for _, param := range op.Parameters {
		b.addNode(&graph.Node{ID: ParameterID(param), Kind: graph.NodeParameter, Name: param})
		b.addEdge(&graph.Edge{SourceID: opID, TargetID: ParameterID(param), Kind: graph.EdgeUsesParameter})
	}
}

// sqlLineage extracts table lineage from an operation's SQL and emits
// data asset nodes and read/write edges. Temp tables and table-valued
// functions never materialize as data assets.
func (b *build) sqlLineage(opNode *graph.Node, op OperationRecord) {
	stmt, warnings := sqllineage.Extract(op.RawSQL)

	opNode.Properties["statement_kind"] = string(stmt.Kind)
	if len(warnings) > 0 {
		texts := make([]string, len(warnings))
		for i, w := range warnings {
			texts[i] = w.String()
			b.res.Diagnostics = append(b.res.Diagnostics, Diagnostic{
				OperationID: op.OperationID,
				Code:        w.Code,
				Message:     w.Message,
			})
		}
		opNode.Properties["extraction_warnings"] = texts
	}

	for _, ref := range stmt.Tables {
		if ref.IsTemporary || ref.IsFunction {
			continue
		}
		kind := graph.EdgeReadsFrom
		if ref.IsTarget {
			kind = graph.EdgeWritesTo
		}
		var props map[string]any
		if ref.ViaCTE != "" {
			props = map[string]any{"via_cte": ref.ViaCTE}
		}
		if ref.FromSubquery {
			if props == nil {
				props = map[string]any{}
			}
			props["from_subquery"] = true
		}
		b.assetEdge(opNode.ID, ref.QualifiedName(), kind, props)
	}
}

func (b *build) assetEdge(opID, qualified string, kind graph.EdgeKind, props map[string]any) {
	assetID := DataAssetID(qualified)
	b.addNode(&graph.Node{ID: assetID, Kind: graph.NodeDataAsset, Name: strings.ToLower(qualified)})
	b.addEdge(&graph.Edge{SourceID: opID, TargetID: assetID, Kind: kind, Properties: props})
}

// precedence emits PRECEDES edges from declared predecessors. Unknown
// predecessor IDs become diagnostics, not failures.
func (b *build) precedence(pkgName string, op OperationRecord) {
	opID := OperationNodeID(pkgName, op.Name)
	for _, predID := range op.PredecessorIDs {
		predNode, ok := b.opByID[predID]
		if !ok {
			// Fall back to treating the predecessor ID as an operation name.
			candidate := OperationNodeID(pkgName, predID)
			if !b.seen[candidate] {
				b.res.Diagnostics = append(b.res.Diagnostics, Diagnostic{
					OperationID: op.OperationID,
					Code:        "unknown_predecessor",
					Message:     fmt.Sprintf("predecessor %q not found in package %q", predID, pkgName),
				})
				continue
			}
			predNode = candidate
		}
		b.addEdge(&graph.Edge{SourceID: predNode, TargetID: opID, Kind: graph.EdgePrecedes})
	}
}

func (b *build) addNode(n *graph.Node) {
	if b.seen[n.ID] {
		return
	}
	b.seen[n.ID] = true
	b.res.Nodes = append(b.res.Nodes, n)
}

func (b *build) addEdge(e *graph.Edge) {
	b.res.Edges = append(b.res.Edges, e)
}

// Merge folds per-package results into one graph on the calling
// goroutine. Identical shared resource nodes from different packages
// deduplicate via the graph's idempotent AddNode; genuinely conflicting
// nodes or dangling edges abort the merge.
func Merge(g *graph.Graph, results ...*Result) error {
	for _, res := range results {
		for _, n := range res.Nodes {
			if err := g.AddNode(n); err != nil {
				return fmt.Errorf("merging package %s: %w", res.Package, err)
			}
		}
	}
	for _, res := range results {
		for _, e := range res.Edges {
			if err := g.AddEdge(e); err != nil {
				return fmt.Errorf("merging package %s: %w", res.Package, err)
			}
		}
	}
	return nil
}
