package graph

import (
	"encoding/json"
	"io"
)

// Export is the serializable node-link form of a graph, suitable for
// handing to downstream visualizers or a graph store.
type Export struct {
	Directed bool    `json:"directed"`
	Nodes    []*Node `json:"nodes"`
	Edges    []*Edge `json:"edges"`
}

// Snapshot captures the graph in node-link form. Nodes and edges keep
// their deterministic order.
func (g *Graph) Snapshot() *Export {
	return &Export{
		Directed: true,
		Nodes:    g.AllNodes(),
		Edges:    g.AllEdges(),
	}
}

// WriteJSON streams the node-link form of the graph as indented JSON.
func (g *Graph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g.Snapshot())
}

// FromExport rebuilds a graph from its node-link form.
func FromExport(ex *Export) (*Graph, error) {
	g := New()
	for _, n := range ex.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range ex.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ReadJSON rebuilds a graph from the node-link JSON produced by
// WriteJSON.
func ReadJSON(r io.Reader) (*Graph, error) {
	var ex Export
	if err := json.NewDecoder(r).Decode(&ex); err != nil {
		return nil, err
	}
	return FromExport(&ex)
}
