package graph

// NodeKind classifies the entities that appear in a lineage graph.
type NodeKind string

const (
	NodePipeline   NodeKind = "pipeline"
	NodeOperation  NodeKind = "operation"
	NodeDataAsset  NodeKind = "data_asset"
	NodeConnection NodeKind = "connection"
	NodeParameter  NodeKind = "parameter"
	NodeVariable   NodeKind = "variable"
)

// EdgeKind classifies the relationships between nodes.
type EdgeKind string

const (
	EdgeContains       EdgeKind = "contains"
	EdgeReadsFrom      EdgeKind = "reads_from"
	EdgeWritesTo       EdgeKind = "writes_to"
	EdgeUsesConnection EdgeKind = "uses_connection"
	EdgeUsesParameter  EdgeKind = "uses_parameter"
	EdgeDependsOn      EdgeKind = "depends_on"
	EdgeSharesResource EdgeKind = "shares_resource"
	EdgePrecedes       EdgeKind = "precedes"
)

// Node is a single entity in the graph. ID is globally unique and
// follows the colon-delimited convention ("pipeline:Name",
// "pipeline:Name:operation:Task", "table:schema.name").
type Node struct {
	ID         string         `json:"id"`
	Kind       NodeKind       `json:"kind"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Edge is a directed, typed relationship between two nodes. Both
// endpoints must exist in the graph before the edge is added.
type Edge struct {
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Kind       EdgeKind       `json:"kind"`
	Properties map[string]any `json:"properties,omitempty"`
}
