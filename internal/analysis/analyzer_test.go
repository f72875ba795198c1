package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etlgraph-labs/etlgraph/pkg/graph"
)

// addPipeline wires a pipeline node with one operation reading and
// writing the given tables.
func addPipeline(t *testing.T, g *graph.Graph, name string, reads, writes []string) {
	t.Helper()
	pipelineID := "pipeline:" + name
	opID := pipelineID + ":operation:main"
	require.NoError(t, g.AddNode(&graph.Node{ID: pipelineID, Kind: graph.NodePipeline, Name: name}))
	require.NoError(t, g.AddNode(&graph.Node{ID: opID, Kind: graph.NodeOperation, Name: "main"}))
	require.NoError(t, g.AddEdge(&graph.Edge{SourceID: pipelineID, TargetID: opID, Kind: graph.EdgeContains}))

	for _, table := range reads {
		addTable(t, g, table)
		require.NoError(t, g.AddEdge(&graph.Edge{SourceID: opID, TargetID: "table:" + table, Kind: graph.EdgeReadsFrom}))
	}
	for _, table := range writes {
		addTable(t, g, table)
		require.NoError(t, g.AddEdge(&graph.Edge{SourceID: opID, TargetID: "table:" + table, Kind: graph.EdgeWritesTo}))
	}
}

func addTable(t *testing.T, g *graph.Graph, name string) {
	t.Helper()
	n := &graph.Node{ID: "table:" + name, Kind: graph.NodeDataAsset, Name: name}
	require.NoError(t, g.AddNode(n))
}

func level(levels map[string]*int, pipeline string) *int {
	return levels["pipeline:"+pipeline]
}

func TestAnalyze_DependencyInference(t *testing.T) {
	g := graph.New()
	addPipeline(t, g, "Writer", nil, []string{"dbo.shared"})
	addPipeline(t, g, "Reader", []string{"dbo.shared"}, nil)

	res, err := New(Options{}).Analyze(g)
	require.NoError(t, err)

	assert.Equal(t, 2, res.PackagesAnalyzed)
	require.Len(t, res.SharedResources, 1)
	sr := res.SharedResources[0]
	assert.Equal(t, "table:dbo.shared", sr.ResourceID)
	assert.Equal(t, []string{"pipeline:Writer"}, sr.Writers)
	assert.Equal(t, []string{"pipeline:Reader"}, sr.Readers)

	deps := g.Outgoing("pipeline:Reader", graph.EdgeDependsOn)
	require.Len(t, deps, 1, "reader must depend on writer")
	assert.Equal(t, "pipeline:Writer", deps[0].TargetID)
	assert.Equal(t, "table:dbo.shared", deps[0].Properties["via_resource_id"])
	assert.Equal(t, "data", deps[0].Properties["dependency_type"])

	// Writer runs first.
	require.NotNil(t, level(res.ExecutionLevels, "Writer"))
	require.NotNil(t, level(res.ExecutionLevels, "Reader"))
	assert.Equal(t, 0, *level(res.ExecutionLevels, "Writer"))
	assert.Equal(t, 1, *level(res.ExecutionLevels, "Reader"))
}

func TestAnalyze_ReadReadInfersNothing(t *testing.T) {
	g := graph.New()
	addPipeline(t, g, "A", []string{"dbo.lookup"}, nil)
	addPipeline(t, g, "B", []string{"dbo.lookup"}, nil)

	res, err := New(Options{}).Analyze(g)
	require.NoError(t, err)

	assert.Len(t, res.SharedResources, 1, "the table is still shared")
	assert.Equal(t, 0, res.EdgesAdded, "read-read must not infer ordering")
	assert.Empty(t, res.Risks)
}

func TestAnalyze_WriteWriteConflict(t *testing.T) {
	g := graph.New()
	addPipeline(t, g, "A", nil, []string{"dbo.out"})
	addPipeline(t, g, "B", nil, []string{"dbo.out"})

	res, err := New(Options{}).Analyze(g)
	require.NoError(t, err)

	conflicts := res.RisksOfKind(RiskWriteWriteConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{"pipeline:A", "pipeline:B"}, conflicts[0].PipelineIDs)
	assert.Equal(t, "table:dbo.out", conflicts[0].ResourceID)
	assert.Equal(t, 0, res.EdgesAdded, "write-write must flag, not order")
}

func TestAnalyze_CycleContainment(t *testing.T) {
	g := graph.New()
	// A writes X and reads Y; B writes Y and reads X: mutual dependency.
	addPipeline(t, g, "A", []string{"dbo.y"}, []string{"dbo.x"})
	addPipeline(t, g, "B", []string{"dbo.x"}, []string{"dbo.y"})
	// C is independent.
	addPipeline(t, g, "C", []string{"dbo.other"}, nil)
	addPipeline(t, g, "D", nil, []string{"dbo.other"})

	res, err := New(Options{}).Analyze(g)
	require.NoError(t, err)

	cycles := res.RisksOfKind(RiskCyclicDependency)
	require.Len(t, cycles, 1, "exactly one cycle entry")
	assert.Equal(t, []string{"pipeline:A", "pipeline:B"}, cycles[0].PipelineIDs)

	assert.Nil(t, level(res.ExecutionLevels, "A"), "cycle member has no level")
	assert.Nil(t, level(res.ExecutionLevels, "B"), "cycle member has no level")
	require.NotNil(t, level(res.ExecutionLevels, "C"), "cycle must not block other clusters")
	assert.Equal(t, 1, *level(res.ExecutionLevels, "C"))
	assert.Equal(t, 0, *level(res.ExecutionLevels, "D"))
}

func TestAnalyze_LongestPathLevelization(t *testing.T) {
	g := graph.New()
	// A writes X; B reads X and writes Y; C reads Y. Also C reads X, so
	// an "any order" assignment could put C too early.
	addPipeline(t, g, "A", nil, []string{"dbo.x"})
	addPipeline(t, g, "B", []string{"dbo.x"}, []string{"dbo.y"})
	addPipeline(t, g, "C", []string{"dbo.y", "dbo.x"}, nil)

	res, err := New(Options{}).Analyze(g)
	require.NoError(t, err)

	la, lb, lc := level(res.ExecutionLevels, "A"), level(res.ExecutionLevels, "B"), level(res.ExecutionLevels, "C")
	require.NotNil(t, la)
	require.NotNil(t, lb)
	require.NotNil(t, lc)
	assert.Equal(t, 0, *la)
	assert.Equal(t, 1, *lb)
	assert.Equal(t, 2, *lc, "longest path wins over the direct A->C edge")
}

func TestAnalyze_ContentionThreshold(t *testing.T) {
	g := graph.New()
	addPipeline(t, g, "W", nil, []string{"dbo.hot"})
	addPipeline(t, g, "R1", []string{"dbo.hot"}, nil)
	addPipeline(t, g, "R2", []string{"dbo.hot"}, nil)
	addPipeline(t, g, "R3", []string{"dbo.hot"}, nil)

	addPipeline(t, g, "X", nil, []string{"dbo.cool"})
	addPipeline(t, g, "Y", []string{"dbo.cool"}, nil)

	res, err := New(Options{}).Analyze(g)
	require.NoError(t, err)

	byID := make(map[string]SharedResource)
	for _, sr := range res.SharedResources {
		byID[sr.ResourceID] = sr
	}
	assert.Equal(t, RiskLevelHighContention, byID["table:dbo.hot"].RiskLevel, "4 pipelines over threshold 3")
	assert.Equal(t, RiskLevelNormal, byID["table:dbo.cool"].RiskLevel, "2 pipelines is under threshold")

	contention := res.RisksOfKind(RiskHighContention)
	require.Len(t, contention, 1)
	assert.Equal(t, "table:dbo.hot", contention[0].ResourceID)
}

func TestAnalyze_Idempotent(t *testing.T) {
	g := graph.New()
	addPipeline(t, g, "Writer", nil, []string{"dbo.shared"})
	addPipeline(t, g, "Reader", []string{"dbo.shared"}, nil)

	a := New(Options{})
	first, err := a.Analyze(g)
	require.NoError(t, err)
	edgesAfterFirst := g.EdgeCount()

	second, err := a.Analyze(g)
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeat analysis must yield an identical result")
	assert.Equal(t, edgesAfterFirst, g.EdgeCount(), "no duplicate derived edges")
}

func TestAnalyze_SharedConnectionEdges(t *testing.T) {
	g := graph.New()
	addPipeline(t, g, "A", nil, nil)
	addPipeline(t, g, "B", nil, nil)
	require.NoError(t, g.AddNode(&graph.Node{ID: "connection:WarehouseDB", Kind: graph.NodeConnection, Name: "WarehouseDB"}))
	for _, p := range []string{"A", "B"} {
		opID := "pipeline:" + p + ":operation:main"
		require.NoError(t, g.AddEdge(&graph.Edge{SourceID: opID, TargetID: "connection:WarehouseDB", Kind: graph.EdgeUsesConnection}))
	}

	res, err := New(Options{}).Analyze(g)
	require.NoError(t, err)

	require.Len(t, res.SharedResources, 1)
	assert.Equal(t, graph.NodeConnection, res.SharedResources[0].Kind)

	shares := g.Outgoing("pipeline:A", graph.EdgeSharesResource)
	require.Len(t, shares, 1, "shared connection links the pipeline pair")
	assert.Equal(t, "pipeline:B", shares[0].TargetID)
	assert.Empty(t, g.Outgoing("pipeline:A", graph.EdgeDependsOn), "connection sharing is not an ordering constraint")
}

func TestAnalyze_AnnotatesPipelineNodes(t *testing.T) {
	g := graph.New()
	addPipeline(t, g, "Writer", nil, []string{"dbo.shared"})
	addPipeline(t, g, "Reader", []string{"dbo.shared"}, nil)

	_, err := New(Options{}).Analyze(g)
	require.NoError(t, err)

	writer := g.Node("pipeline:Writer")
	assert.Equal(t, 0, writer.Properties["execution_level"])
	assert.Equal(t, []string{"pipeline:Reader"}, writer.Properties["downstream_pipelines"])

	reader := g.Node("pipeline:Reader")
	assert.Equal(t, 1, reader.Properties["execution_level"])
	assert.Equal(t, []string{"pipeline:Writer"}, reader.Properties["upstream_pipelines"])
	assert.Equal(t, []string{"table:dbo.shared"}, reader.Properties["shared_resources"])
}
