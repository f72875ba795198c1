// Package dag provides directed graph operations for pipeline
// dependency analysis. Unlike a strict DAG, cycles are first-class:
// they are detected and reported rather than rejected, and level
// computation degrades gracefully around them.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed graph over string node IDs.
type Graph struct {
	nodes   map[string]bool
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]bool),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if !g.nodes[id] {
		g.nodes[id] = true
		g.edges[id] = []string{}
		g.parents[id] = []string{}
	}
}

// AddEdge adds a directed edge from parent to child (child depends on
// parent). Self-loops are rejected; duplicate edges are ignored.
func (g *Graph) AddEdge(parentID, childID string) error {
	if !g.nodes[parentID] {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if !g.nodes[childID] {
		return fmt.Errorf("child node %q does not exist", childID)
	}
	if parentID == childID {
		return fmt.Errorf("self-loop detected: %s", parentID)
	}

	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// HasNode reports whether a node exists.
func (g *Graph) HasNode(id string) bool {
	return g.nodes[id]
}

// GetParents returns the parents (dependencies) of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the children (dependents) of a node.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// Cycles returns every dependency cycle in the graph as a sorted list
// of member IDs. Each cycle is a strongly connected component with more
// than one node; the result is sorted by first member for deterministic
// output.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	for _, scc := range g.stronglyConnected() {
		if len(scc) > 1 {
			sort.Strings(scc)
			cycles = append(cycles, scc)
		}
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles
}

// stronglyConnected computes the SCCs with Tarjan's algorithm. Node IDs
// are visited in sorted order so component discovery is deterministic.
func (g *Graph) stronglyConnected() [][]string {
	index := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	next := 0

	var sccs [][]string

	var strongconnect func(id string)
	strongconnect = func(id string) {
		index[id] = next
		lowlink[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, childID := range g.edges[id] {
			if _, seen := index[childID]; !seen {
				strongconnect(childID)
				if lowlink[childID] < lowlink[id] {
					lowlink[id] = lowlink[childID]
				}
			} else if onStack[childID] {
				if index[childID] < lowlink[id] {
					lowlink[id] = index[childID]
				}
			}
		}

		if lowlink[id] == index[id] {
			var scc []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				scc = append(scc, top)
				if top == id {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, id := range g.sortedIDs() {
		if _, seen := index[id]; !seen {
			strongconnect(id)
		}
	}
	return sccs
}

// Levels assigns each node its longest-path depth: level 0 for nodes
// with no dependencies, otherwise one more than the deepest parent.
// Cycle members get a nil level, and so does every node downstream of a
// cycle, since no finite depth exists for either.
func (g *Graph) Levels() map[string]*int {
	inCycle := make(map[string]bool)
	for _, cycle := range g.Cycles() {
		for _, id := range cycle {
			inCycle[id] = true
		}
	}

	levels := make(map[string]*int, len(g.nodes))
	done := make(map[string]bool)

	var depth func(id string) *int
	depth = func(id string) *int {
		if done[id] {
			return levels[id]
		}
		done[id] = true // pre-mark; cycle members never recurse anyway
		if inCycle[id] {
			levels[id] = nil
			return nil
		}

		max := -1
		for _, parentID := range g.parents[id] {
			pl := depth(parentID)
			if pl == nil {
				levels[id] = nil
				return nil
			}
			if *pl > max {
				max = *pl
			}
		}
		level := max + 1
		levels[id] = &level
		return levels[id]
	}

	for _, id := range g.sortedIDs() {
		depth(id)
	}
	return levels
}

// LevelGroups groups leveled nodes by depth, each group sorted. Nodes
// without a level (cycle members and their downstream) are omitted.
func (g *Graph) LevelGroups() [][]string {
	levels := g.Levels()
	maxLevel := -1
	for _, l := range levels {
		if l != nil && *l > maxLevel {
			maxLevel = *l
		}
	}
	if maxLevel < 0 {
		return nil
	}

	groups := make([][]string, maxLevel+1)
	for id, l := range levels {
		if l != nil {
			groups[*l] = append(groups[*l], id)
		}
	}
	for i := range groups {
		sort.Strings(groups[i])
	}
	return groups
}

// Upstream returns every node reachable by following dependencies
// backwards from id, sorted.
func (g *Graph) Upstream(id string) []string {
	return g.reach(id, g.parents)
}

// Downstream returns every node reachable by following dependents
// forwards from id, sorted.
func (g *Graph) Downstream(id string) []string {
	return g.reach(id, g.edges)
}

func (g *Graph) reach(id string, adj map[string][]string) []string {
	seen := make(map[string]bool)
	var walk func(nodeID string)
	walk = func(nodeID string) {
		for _, next := range adj[nodeID] {
			if !seen[next] {
				seen[next] = true
				walk(next)
			}
		}
	}
	walk(id)

	delete(seen, id) // a node in its own cycle is not its own up/downstream
	result := make([]string, 0, len(seen))
	for nodeID := range seen {
		result = append(result, nodeID)
	}
	sort.Strings(result)
	return result
}

// Roots returns nodes with no parents (no dependencies), sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns nodes with no children (no dependents), sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
