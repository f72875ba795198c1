// Package engine orchestrates a full analysis run: parallel package
// builds, a single-writer merge into one graph, the cross-package
// analysis pass, and optional run-history recording.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/etlgraph-labs/etlgraph/internal/analysis"
	"github.com/etlgraph-labs/etlgraph/internal/builder"
	"github.com/etlgraph-labs/etlgraph/internal/state"
	"github.com/etlgraph-labs/etlgraph/pkg/graph"
)

// Config holds engine configuration.
type Config struct {
	// HighContentionThreshold is forwarded to the analyzer.
	HighContentionThreshold int
	// Workers caps parallel package builds. Zero means GOMAXPROCS.
	Workers int
	// StatePath is the SQLite run-history file. Empty disables
	// run recording.
	StatePath string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Engine builds and analyzes multi-package lineage graphs.
type Engine struct {
	logger   *slog.Logger
	analyzer *analysis.Analyzer
	store    state.Store
	workers  int
}

// New creates an engine. When Config.StatePath is set the run store is
// opened eagerly so a bad path fails fast.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	e := &Engine{
		logger: logger,
		analyzer: analysis.New(analysis.Options{
			HighContentionThreshold: cfg.HighContentionThreshold,
			Logger:                  logger,
		}),
		workers: workers,
	}

	if cfg.StatePath != "" {
		store, err := state.Open(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open run store: %w", err)
		}
		e.store = store
	}
	return e, nil
}

// Close releases the run store, if any.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// RunResult is the output of one engine run.
type RunResult struct {
	RunID       string
	Graph       *graph.Graph
	Analysis    *analysis.Result
	Diagnostics []builder.Diagnostic
}

// Run builds every package, merges the results into one graph and runs
// the cross-package analysis. recordsPath is recorded in run history
// only; the records themselves are passed in already decoded.
func (e *Engine) Run(ctx context.Context, recordsPath string, pkgs []builder.PackageRecord) (*RunResult, error) {
	var runID string
	if e.store != nil {
		run, err := e.store.CreateRun(recordsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		runID = run.ID
	}

	res, err := e.run(ctx, pkgs)
	if e.store != nil {
		e.finishRun(runID, res, err)
	}
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	return res, nil
}

func (e *Engine) run(ctx context.Context, pkgs []builder.PackageRecord) (*RunResult, error) {
	e.logger.Info("building packages", "count", len(pkgs), "workers", e.workers)

	// Each package builds into an immutable result; only the merge
	// below touches the shared graph.
	results := make([]*builder.Result, len(pkgs))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.workers)
	for i, pkg := range pkgs {
		i, pkg := i, pkg
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := builder.BuildPackage(pkg)
			if err != nil {
				return fmt.Errorf("building package %q: %w", pkg.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	g := graph.New()
	if err := builder.Merge(g, results...); err != nil {
		return nil, err
	}

	var diags []builder.Diagnostic
	for _, res := range results {
		diags = append(diags, res.Diagnostics...)
	}

	analysisRes, err := e.analyzer.Analyze(g)
	if err != nil {
		return nil, err
	}

	return &RunResult{Graph: g, Analysis: analysisRes, Diagnostics: diags}, nil
}

func (e *Engine) finishRun(runID string, res *RunResult, runErr error) {
	status := state.RunStatusCompleted
	var summary state.RunSummary
	errMsg := ""
	if runErr != nil {
		status = state.RunStatusFailed
		errMsg = runErr.Error()
	} else {
		summary = state.RunSummary{
			Packages:        res.Analysis.PackagesAnalyzed,
			SharedResources: len(res.Analysis.SharedResources),
			Risks:           len(res.Analysis.Risks),
			EdgesAdded:      res.Analysis.EdgesAdded,
		}
	}
	if err := e.store.CompleteRun(runID, status, summary, errMsg); err != nil {
		e.logger.Warn("failed to record run completion", "run_id", runID, "error", err)
	}
}

// ListRuns returns recent run history, newest first. Returns nil when
// run recording is disabled.
func (e *Engine) ListRuns(limit int) ([]*state.Run, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.ListRuns(limit)
}
