// Package analysis computes cross-package relationships over a merged
// lineage graph: which pipelines share resources, which must run before
// others, and where contention concentrates. Analysis is a pure
// function of graph content; derived edges from a previous pass are
// replaced, never duplicated, so repeated runs yield identical results.
package analysis

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/etlgraph-labs/etlgraph/internal/dag"
	"github.com/etlgraph-labs/etlgraph/pkg/graph"
)

// DefaultHighContentionThreshold is the pipeline count above which a
// shared resource is flagged high contention.
const DefaultHighContentionThreshold = 3

// Options configures an Analyzer. The zero value gets the default
// contention threshold and a discard logger.
type Options struct {
	HighContentionThreshold int
	Logger                  *slog.Logger
}

// Analyzer derives cross-package dependencies from a lineage graph.
type Analyzer struct {
	threshold int
	log       *slog.Logger
}

func New(opts Options) *Analyzer {
	threshold := opts.HighContentionThreshold
	if threshold <= 0 {
		threshold = DefaultHighContentionThreshold
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{threshold: threshold, log: log}
}

// resourceUse is the per-resource usage picture: which pipelines read,
// write, or otherwise use it.
type resourceUse struct {
	node    *graph.Node
	readers map[string]bool
	writers map[string]bool
	users   map[string]bool // all pipelines touching the resource
}

// Analyze runs the full analysis pass: shared-resource detection,
// dependency inference, cycle detection, longest-path levelization,
// risk scoring, and pipeline node annotation.
func (a *Analyzer) Analyze(g *graph.Graph) (*Result, error) {
	// Drop derived edges from any previous pass.
	removed := g.RemoveEdges(graph.EdgeDependsOn)
	removed += g.RemoveEdges(graph.EdgeSharesResource)
	if removed > 0 {
		a.log.Debug("removed stale derived edges", "count", removed)
	}

	pipelines := g.NodesByKind(graph.NodePipeline)
	res := &Result{
		PackagesAnalyzed: len(pipelines),
		ExecutionLevels:  make(map[string]*int, len(pipelines)),
	}

	deps := dag.NewGraph()
	for _, p := range pipelines {
		deps.AddNode(p.ID)
	}

	uses := a.collectUsage(g)
	pipelineScore := make(map[string]int)
	pipelineResources := make(map[string][]string)

	for _, use := range uses {
		users := sortedKeys(use.users)
		if len(users) < 2 {
			continue
		}
		writers := sortedKeys(use.writers)
		readers := sortedKeys(use.readers)

		score := len(users)
		if len(writers) > 0 {
			score++
		}
		conflict := len(writers) > 1
		if conflict {
			score += 2
		}

		level := RiskLevelNormal
		switch {
		case len(users) > a.threshold:
			level = RiskLevelHighContention
		case conflict:
			level = RiskLevelElevated
		}

		res.SharedResources = append(res.SharedResources, SharedResource{
			ResourceID: use.node.ID,
			Kind:       use.node.Kind,
			Pipelines:  users,
			Writers:    writers,
			Readers:    readers,
			RiskLevel:  level,
		})

		for _, p := range users {
			pipelineScore[p] += score
			pipelineResources[p] = append(pipelineResources[p], use.node.ID)
		}

		if use.node.Kind == graph.NodeDataAsset {
			res.EdgesAdded += a.inferDependencies(g, deps, use, writers, readers)
		} else {
			res.EdgesAdded += a.linkSharers(g, use.node.ID, users)
		}

		if conflict {
			res.Risks = append(res.Risks, Risk{
				Kind:        RiskWriteWriteConflict,
				PipelineIDs: writers,
				ResourceID:  use.node.ID,
				Detail:      fmt.Sprintf("%d pipelines write %s; execution order is ambiguous", len(writers), use.node.ID),
			})
		}
		if level == RiskLevelHighContention {
			res.Risks = append(res.Risks, Risk{
				Kind:        RiskHighContention,
				PipelineIDs: users,
				ResourceID:  use.node.ID,
				Detail:      fmt.Sprintf("%s is used by %d pipelines (threshold %d)", use.node.ID, len(users), a.threshold),
			})
		}
	}

	for _, cycle := range deps.Cycles() {
		res.Risks = append(res.Risks, Risk{
			Kind:        RiskCyclicDependency,
			PipelineIDs: cycle,
			Detail:      "dependency cycle: " + strings.Join(cycle, " -> "),
		})
	}

	res.ExecutionLevels = deps.Levels()

	a.annotate(g, deps, res, pipelineScore, pipelineResources)

	a.log.Info("analysis complete",
		"packages", res.PackagesAnalyzed,
		"shared_resources", len(res.SharedResources),
		"risks", len(res.Risks),
		"edges_added", res.EdgesAdded)
	return res, nil
}

// collectUsage maps every data asset, connection and parameter to the
// pipelines using it, resolved through the operation CONTAINS edges.
// Resources come back sorted by node ID for deterministic output.
func (a *Analyzer) collectUsage(g *graph.Graph) []*resourceUse {
	var uses []*resourceUse
	for _, kind := range []graph.NodeKind{graph.NodeDataAsset, graph.NodeConnection, graph.NodeParameter} {
		for _, n := range g.NodesByKind(kind) {
			use := &resourceUse{
				node:    n,
				readers: make(map[string]bool),
				writers: make(map[string]bool),
				users:   make(map[string]bool),
			}
			for _, e := range g.Incoming(n.ID,
				graph.EdgeReadsFrom, graph.EdgeWritesTo,
				graph.EdgeUsesConnection, graph.EdgeUsesParameter) {
				pipeline := owningPipeline(g, e.SourceID)
				if pipeline == "" {
					continue
				}
				use.users[pipeline] = true
				switch e.Kind {
				case graph.EdgeReadsFrom:
					use.readers[pipeline] = true
				case graph.EdgeWritesTo:
					use.writers[pipeline] = true
				}
			}
			uses = append(uses, use)
		}
	}
	sort.Slice(uses, func(i, j int) bool {
		return uses[i].node.ID < uses[j].node.ID
	})
	return uses
}

// owningPipeline resolves an operation node to its pipeline through the
// incoming CONTAINS edge. Edges drawn directly from a pipeline node
// resolve to that pipeline.
func owningPipeline(g *graph.Graph, id string) string {
	n := g.Node(id)
	if n == nil {
		return ""
	}
	if n.Kind == graph.NodePipeline {
		return id
	}
	for _, e := range g.Incoming(id, graph.EdgeContains) {
		if p := g.Node(e.SourceID); p != nil && p.Kind == graph.NodePipeline {
			return p.ID
		}
	}
	return ""
}

// inferDependencies adds a DEPENDS_ON edge reader -> writer for every
// reader/writer pair over a shared data asset. Read-read pairs infer
// nothing; write-write pairs are flagged by the caller, not ordered.
func (a *Analyzer) inferDependencies(g *graph.Graph, deps *dag.Graph, use *resourceUse, writers, readers []string) int {
	added := 0
	for _, reader := range readers {
		for _, writer := range writers {
			if reader == writer {
				continue
			}
			err := g.AddEdge(&graph.Edge{
				SourceID: reader,
				TargetID: writer,
				Kind:     graph.EdgeDependsOn,
				Properties: map[string]any{
					"via_resource_id": use.node.ID,
					"dependency_type": "data",
				},
			})
			if err != nil {
				// Both endpoints are known pipeline nodes.
				a.log.Warn("skipping dependency edge", "error", err)
				continue
			}
			added++
			if err := deps.AddEdge(writer, reader); err != nil {
				a.log.Warn("skipping dependency", "error", err)
			}
		}
	}
	return added
}

// linkSharers adds one SHARES_RESOURCE edge per pipeline pair over a
// shared connection or parameter. These are informational, not ordering
// constraints.
func (a *Analyzer) linkSharers(g *graph.Graph, resourceID string, users []string) int {
	added := 0
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			err := g.AddEdge(&graph.Edge{
				SourceID:   users[i],
				TargetID:   users[j],
				Kind:       graph.EdgeSharesResource,
				Properties: map[string]any{"via_resource_id": resourceID},
			})
			if err != nil {
				a.log.Warn("skipping shares_resource edge", "error", err)
				continue
			}
			added++
		}
	}
	return added
}

// annotate writes derived properties back onto pipeline nodes:
// execution level, risk score, up/downstream pipelines and the shared
// resources each touches.
func (a *Analyzer) annotate(g *graph.Graph, deps *dag.Graph, res *Result, scores map[string]int, resources map[string][]string) {
	for id, level := range res.ExecutionLevels {
		if level == nil {
			g.SetNodeProperty(id, "execution_level", nil)
		} else {
			g.SetNodeProperty(id, "execution_level", *level)
		}
		g.SetNodeProperty(id, "risk_score", scores[id])
		g.SetNodeProperty(id, "upstream_pipelines", deps.Upstream(id))
		g.SetNodeProperty(id, "downstream_pipelines", deps.Downstream(id))
		if shared := resources[id]; len(shared) > 0 {
			g.SetNodeProperty(id, "shared_resources", shared)
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
