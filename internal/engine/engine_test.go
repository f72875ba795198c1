package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etlgraph-labs/etlgraph/internal/builder"
	"github.com/etlgraph-labs/etlgraph/internal/state"
	"github.com/etlgraph-labs/etlgraph/internal/testutil"
	"github.com/etlgraph-labs/etlgraph/pkg/graph"
)

func testPackages() []builder.PackageRecord {
	return []builder.PackageRecord{
		{
			Name: "LoadOrders",
			Operations: []builder.OperationRecord{
				{OperationID: "op1", Kind: "sql", Name: "Fill",
					RawSQL: "INSERT INTO dbo.Orders SELECT * FROM landing.orders_raw"},
			},
		},
		{
			Name: "BuildMart",
			Operations: []builder.OperationRecord{
				{OperationID: "op1", Kind: "sql", Name: "Aggregate",
					RawSQL: "INSERT INTO mart.order_summary SELECT CustomerID, COUNT(o.OrderID) AS Orders FROM dbo.Orders o"},
			},
		},
	}
}

func TestRun_BuildsMergesAndAnalyzes(t *testing.T) {
	e, err := New(Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	defer e.Close()

	res, err := e.Run(context.Background(), "packages.json", testPackages())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Analysis.PackagesAnalyzed)
	require.Len(t, res.Analysis.SharedResources, 1)
	assert.Equal(t, "table:dbo.orders", res.Analysis.SharedResources[0].ResourceID)

	// BuildMart reads what LoadOrders writes.
	deps := res.Graph.Outgoing("pipeline:BuildMart", graph.EdgeDependsOn)
	require.Len(t, deps, 1)
	assert.Equal(t, "pipeline:LoadOrders", deps[0].TargetID)

	require.NotNil(t, res.Analysis.ExecutionLevels["pipeline:LoadOrders"])
	require.NotNil(t, res.Analysis.ExecutionLevels["pipeline:BuildMart"])
	assert.Equal(t, 0, *res.Analysis.ExecutionLevels["pipeline:LoadOrders"])
	assert.Equal(t, 1, *res.Analysis.ExecutionLevels["pipeline:BuildMart"])
}

func TestRun_RecordsHistory(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "runs.db")
	e, err := New(Config{StatePath: statePath, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	defer e.Close()

	res, err := e.Run(context.Background(), "packages.json", testPackages())
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)

	runs, err := e.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
	assert.Equal(t, state.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 2, runs[0].Packages)
	assert.Equal(t, 1, runs[0].SharedResources)
}

func TestRun_FailureRecorded(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "runs.db")
	e, err := New(Config{StatePath: statePath})
	require.NoError(t, err)
	defer e.Close()

	// A nameless package fails the build.
	_, err = e.Run(context.Background(), "bad.json", []builder.PackageRecord{{}})
	require.Error(t, err)

	runs, err := e.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)
}

func TestRun_ManyPackagesParallel(t *testing.T) {
	var pkgs []builder.PackageRecord
	names := []string{"P0", "P1", "P2", "P3", "P4", "P5", "P6", "P7"}
	for _, name := range names {
		pkgs = append(pkgs, builder.PackageRecord{
			Name: name,
			Operations: []builder.OperationRecord{
				{OperationID: "op1", Kind: "sql", Name: "Read", RawSQL: "SELECT * FROM dbo.Common"},
			},
		})
	}

	e, err := New(Config{Workers: 4})
	require.NoError(t, err)
	defer e.Close()

	res, err := e.Run(context.Background(), "packages.json", pkgs)
	require.NoError(t, err)

	assert.Equal(t, len(names), res.Analysis.PackagesAnalyzed)
	require.Len(t, res.Analysis.SharedResources, 1, "all packages share one table")
	assert.Len(t, res.Analysis.SharedResources[0].Pipelines, len(names))
	// Read-only sharing over the threshold still flags contention.
	assert.NotEmpty(t, res.Analysis.RisksOfKind("high_contention"))
}

func TestListRuns_DisabledStore(t *testing.T) {
	e, err := New(Config{})
	require.NoError(t, err)
	defer e.Close()

	runs, err := e.ListRuns(5)
	require.NoError(t, err)
	assert.Nil(t, runs)
}
