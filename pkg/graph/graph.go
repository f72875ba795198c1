package graph

import "reflect"

// Graph is a directed multigraph of typed nodes and edges. It is not
// safe for concurrent mutation; build per-package graphs independently
// and merge them on a single goroutine.
//
// Iteration order is deterministic: nodes come back in insertion order,
// edges in the order they were added.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []*Edge

	out map[string][]*Edge
	in  map[string][]*Edge
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		out:   make(map[string][]*Edge),
		in:    make(map[string][]*Edge),
	}
}

// AddNode inserts a node. Re-adding a node with identical contents is a
// no-op; re-adding an ID with different contents fails with a
// *DuplicateNodeError and leaves the existing node untouched.
func (g *Graph) AddNode(n *Node) error {
	if ex, ok := g.nodes[n.ID]; ok {
		if reflect.DeepEqual(ex, n) {
			return nil
		}
		return &DuplicateNodeError{ID: n.ID}
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge inserts an edge. Both endpoints must already exist; an
// unknown endpoint fails with a *DanglingEdgeError and the edge is not
// added.
func (g *Graph) AddEdge(e *Edge) error {
	if _, ok := g.nodes[e.SourceID]; !ok {
		return &DanglingEdgeError{ID: e.SourceID, Kind: e.Kind}
	}
	if _, ok := g.nodes[e.TargetID]; !ok {
		return &DanglingEdgeError{ID: e.TargetID, Kind: e.Kind}
	}
	g.edges = append(g.edges, e)
	g.out[e.SourceID] = append(g.out[e.SourceID], e)
	g.in[e.TargetID] = append(g.in[e.TargetID], e)
	return nil
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// SetNodeProperty sets a property on an existing node. Unknown IDs are
// ignored.
func (g *Graph) SetNodeProperty(id, key string, value any) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	if n.Properties == nil {
		n.Properties = make(map[string]any)
	}
	n.Properties[key] = value
}

// AllNodes returns every node in insertion order.
func (g *Graph) AllNodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodesByKind returns the nodes of one kind in insertion order.
func (g *Graph) NodesByKind(kind NodeKind) []*Node {
	var out []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// AllEdges returns every edge in insertion order.
func (g *Graph) AllEdges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Outgoing returns the edges leaving a node, optionally filtered to the
// given kinds.
func (g *Graph) Outgoing(id string, kinds ...EdgeKind) []*Edge {
	return filterEdges(g.out[id], kinds)
}

// Incoming returns the edges arriving at a node, optionally filtered to
// the given kinds.
func (g *Graph) Incoming(id string, kinds ...EdgeKind) []*Edge {
	return filterEdges(g.in[id], kinds)
}

// RemoveEdges deletes every edge of the given kind and returns how many
// were removed. Analysis passes use this to stay idempotent: derived
// edges from a previous run are dropped before being recomputed.
func (g *Graph) RemoveEdges(kind EdgeKind) int {
	removed := 0
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
	if removed == 0 {
		return 0
	}
	for id, list := range g.out {
		g.out[id] = dropKind(list, kind)
	}
	for id, list := range g.in {
		g.in[id] = dropKind(list, kind)
	}
	return removed
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Merge copies every node and edge of other into g. Node collisions
// follow AddNode semantics; the first error stops the merge.
func (g *Graph) Merge(other *Graph) error {
	for _, n := range other.AllNodes() {
		if err := g.AddNode(n); err != nil {
			return err
		}
	}
	for _, e := range other.AllEdges() {
		if err := g.AddEdge(e); err != nil {
			return err
		}
	}
	return nil
}

func filterEdges(list []*Edge, kinds []EdgeKind) []*Edge {
	if len(kinds) == 0 {
		out := make([]*Edge, len(list))
		copy(out, list)
		return out
	}
	var out []*Edge
	for _, e := range list {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func dropKind(list []*Edge, kind EdgeKind) []*Edge {
	kept := list[:0]
	for _, e := range list {
		if e.Kind != kind {
			kept = append(kept, e)
		}
	}
	return kept
}
