package analysis

import "github.com/etlgraph-labs/etlgraph/pkg/graph"

// Risk kinds reported by the analyzer.
const (
	RiskCyclicDependency   = "cyclic_dependency"
	RiskWriteWriteConflict = "write_write_conflict"
	RiskHighContention     = "high_contention"
)

// Risk levels attached to shared resources.
const (
	RiskLevelNormal         = "normal"
	RiskLevelElevated       = "elevated"
	RiskLevelHighContention = "high_contention"
)

// SharedResource is one data asset, connection or parameter used by two
// or more pipelines.
type SharedResource struct {
	ResourceID string         `json:"resource_id"`
	Kind       graph.NodeKind `json:"kind"`
	Pipelines  []string       `json:"using_pipelines"`
	Writers    []string       `json:"writers,omitempty"`
	Readers    []string       `json:"readers,omitempty"`
	RiskLevel  string         `json:"risk_level"`
}

// Risk is one analysis finding: a cycle, a write-write conflict, or a
// resource over the contention threshold.
type Risk struct {
	Kind        string   `json:"kind"`
	PipelineIDs []string `json:"pipeline_ids,omitempty"`
	ResourceID  string   `json:"resource_id,omitempty"`
	Detail      string   `json:"detail"`
}

// Result is the full output of one analysis pass. ExecutionLevels maps
// every pipeline ID to its longest-path level; members of a dependency
// cycle, and pipelines downstream of one, map to nil.
type Result struct {
	PackagesAnalyzed int              `json:"packages_analyzed"`
	ExecutionLevels  map[string]*int  `json:"execution_levels"`
	SharedResources  []SharedResource `json:"shared_resources"`
	Risks            []Risk           `json:"risks"`
	EdgesAdded       int              `json:"edges_added"`
}

// RisksOfKind filters the risk list by kind.
func (r *Result) RisksOfKind(kind string) []Risk {
	var out []Risk
	for _, risk := range r.Risks {
		if risk.Kind == kind {
			out = append(out, risk)
		}
	}
	return out
}
