package graph

import "fmt"

// DuplicateNodeError is returned when AddNode sees an ID that already
// exists with different contents. Adding an identical node twice is not
// an error.
type DuplicateNodeError struct {
	ID string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("graph: node %q already exists with different contents", e.ID)
}

// DanglingEdgeError is returned when AddEdge references a node ID that
// is not present in the graph.
type DanglingEdgeError struct {
	ID   string
	Kind EdgeKind
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("graph: %s edge references unknown node %q", e.Kind, e.ID)
}
