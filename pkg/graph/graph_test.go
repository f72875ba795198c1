package graph

import (
	"bytes"
	"errors"
	"testing"
)

func pipelineNode(name string) *Node {
	return &Node{ID: "pipeline:" + name, Kind: NodePipeline, Name: name}
}

func tableNode(name string) *Node {
	return &Node{ID: "table:" + name, Kind: NodeDataAsset, Name: name}
}

func TestAddNode_IdempotentOnIdentical(t *testing.T) {
	g := New()
	if err := g.AddNode(pipelineNode("Load")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(pipelineNode("Load")); err != nil {
		t.Fatalf("identical re-add must succeed, got %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", g.NodeCount())
	}
}

func TestAddNode_RejectsConflictingContents(t *testing.T) {
	g := New()
	if err := g.AddNode(pipelineNode("Load")); err != nil {
		t.Fatal(err)
	}
	conflicting := &Node{ID: "pipeline:Load", Kind: NodePipeline, Name: "Load", Properties: map[string]any{"x": 1}}
	err := g.AddNode(conflicting)

	var dup *DuplicateNodeError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNodeError, got %v", err)
	}
	if dup.ID != "pipeline:Load" {
		t.Errorf("unexpected ID in error: %s", dup.ID)
	}
	if g.Node("pipeline:Load").Properties != nil {
		t.Error("existing node must be left untouched")
	}
}

func TestAddEdge_RejectsDanglingEndpoints(t *testing.T) {
	g := New()
	if err := g.AddNode(pipelineNode("Load")); err != nil {
		t.Fatal(err)
	}

	err := g.AddEdge(&Edge{SourceID: "pipeline:Load", TargetID: "table:missing", Kind: EdgeWritesTo})
	var dangling *DanglingEdgeError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingEdgeError, got %v", err)
	}
	if dangling.ID != "table:missing" {
		t.Errorf("unexpected ID in error: %s", dangling.ID)
	}
	if g.EdgeCount() != 0 {
		t.Error("failed edge must not be recorded")
	}
}

func TestAdjacencyAndKindFilters(t *testing.T) {
	g := New()
	for _, n := range []*Node{pipelineNode("A"), pipelineNode("B"), tableNode("dbo.T")} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	edges := []*Edge{
		{SourceID: "pipeline:A", TargetID: "table:dbo.T", Kind: EdgeWritesTo},
		{SourceID: "pipeline:B", TargetID: "table:dbo.T", Kind: EdgeReadsFrom},
		{SourceID: "pipeline:B", TargetID: "pipeline:A", Kind: EdgeDependsOn},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}

	if got := g.Outgoing("pipeline:B"); len(got) != 2 {
		t.Errorf("expected 2 outgoing edges from B, got %d", len(got))
	}
	if got := g.Outgoing("pipeline:B", EdgeDependsOn); len(got) != 1 || got[0].TargetID != "pipeline:A" {
		t.Errorf("kind filter failed: %v", got)
	}
	if got := g.Incoming("table:dbo.T"); len(got) != 2 {
		t.Errorf("expected 2 incoming edges at table, got %d", len(got))
	}
	if got := g.NodesByKind(NodePipeline); len(got) != 2 || got[0].Name != "A" {
		t.Errorf("expected pipelines [A B] in insertion order, got %v", got)
	}
}

func TestRemoveEdges(t *testing.T) {
	g := New()
	for _, n := range []*Node{pipelineNode("A"), pipelineNode("B")} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(&Edge{SourceID: "pipeline:B", TargetID: "pipeline:A", Kind: EdgeDependsOn}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(&Edge{SourceID: "pipeline:A", TargetID: "pipeline:B", Kind: EdgeSharesResource}); err != nil {
		t.Fatal(err)
	}

	if n := g.RemoveEdges(EdgeDependsOn); n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 remaining edge, got %d", g.EdgeCount())
	}
	if got := g.Outgoing("pipeline:B", EdgeDependsOn); len(got) != 0 {
		t.Errorf("adjacency must reflect removal, got %v", got)
	}
}

func TestMerge(t *testing.T) {
	a := New()
	if err := a.AddNode(pipelineNode("A")); err != nil {
		t.Fatal(err)
	}

	b := New()
	if err := b.AddNode(pipelineNode("B")); err != nil {
		t.Fatal(err)
	}
	if err := b.AddNode(tableNode("dbo.T")); err != nil {
		t.Fatal(err)
	}
	if err := b.AddEdge(&Edge{SourceID: "pipeline:B", TargetID: "table:dbo.T", Kind: EdgeWritesTo}); err != nil {
		t.Fatal(err)
	}

	if err := a.Merge(b); err != nil {
		t.Fatal(err)
	}
	if a.NodeCount() != 3 || a.EdgeCount() != 1 {
		t.Errorf("merge produced %d nodes / %d edges", a.NodeCount(), a.EdgeCount())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := New()
	if err := g.AddNode(pipelineNode("A")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(tableNode("dbo.T")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(&Edge{SourceID: "pipeline:A", TargetID: "table:dbo.T", Kind: EdgeWritesTo}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := g.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.NodeCount() != 2 || back.EdgeCount() != 1 {
		t.Errorf("round trip produced %d nodes / %d edges", back.NodeCount(), back.EdgeCount())
	}
	if back.Node("pipeline:A") == nil {
		t.Error("expected pipeline:A to survive the round trip")
	}
}
