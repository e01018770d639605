package dag

import (
	"container/heap"
	"fmt"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}

	n := &node{
		id:     id,
		index:  len(g.order),
		depSet: make(map[string]struct{}),
	}
	g.nodes[id] = n
	g.order = append(g.order, n)
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist, if the edge already exists, or if the edge
// would create a self-reference. A failed call leaves the graph unchanged.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("%w: %s -> %s", ErrSelfEdge, fromID, toID)
	}

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source %w: %s", ErrNodeNotFound, fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination %w: %s", ErrNodeNotFound, toID)
	}

	if _, exists := toNode.depSet[fromID]; exists {
		return fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, fromID, toID)
	}

	toNode.depSet[fromID] = struct{}{}
	toNode.deps = append(toNode.deps, fromNode)
	fromNode.dependents = append(fromNode.dependents, toNode)
	g.edges = append(g.edges, Edge{From: fromID, To: toID})

	return nil
}

// HasEdge reports whether the edge fromID -> toID exists.
func (g *Graph) HasEdge(fromID, toID string) bool {
	toNode, ok := g.nodes[toID]
	if !ok {
		return false
	}
	_, exists := toNode.depSet[fromID]
	return exists
}

// Nodes returns the node IDs in insertion order.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.order))
	for _, n := range g.order {
		ids = append(ids, n.id)
	}
	return ids
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Dependencies returns the IDs of the nodes that the given node depends on,
// in edge order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	deps := make([]string, 0, len(n.deps))
	for _, dep := range n.deps {
		deps = append(deps, dep.id)
	}
	return deps, nil
}

// Dependents returns the IDs of the nodes that depend on the given node, in
// edge order.
func (g *Graph) Dependents(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	dependents := make([]string, 0, len(n.dependents))
	for _, dep := range n.dependents {
		dependents = append(dependents, dep.id)
	}
	return dependents, nil
}

// indexHeap is a min-heap of insertion indices.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalOrder orders every node after all of its dependencies using
// Kahn's algorithm. Among ready nodes the earliest inserted goes first. If
// the graph has a cycle, a *CycleError describing one cycle is returned.
func (g *Graph) TopologicalOrder() ([]string, error) {
	indeg := make([]int, len(g.order))
	for _, n := range g.order {
		indeg[n.index] = len(n.deps)
	}

	ready := &indexHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]string, 0, len(g.order))
	for ready.Len() > 0 {
		n := g.order[heap.Pop(ready).(int)]
		out = append(out, n.id)
		for _, dependent := range n.dependents {
			indeg[dependent.index]--
			if indeg[dependent.index] == 0 {
				heap.Push(ready, dependent.index)
			}
		}
	}

	if len(out) != len(g.order) {
		return nil, &CycleError{Path: g.FindCycle()}
	}
	return out, nil
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// describing the first cycle found, or nil.
func (g *Graph) DetectCycles() error {
	if path := g.FindCycle(); path != nil {
		return &CycleError{Path: path}
	}
	return nil
}

// FindCycle returns one cycle as a path that starts and ends on the same node,
// or nil if the graph is acyclic. Traversal follows insertion order, so the
// same graph always yields the same path.
func (g *Graph) FindCycle() []string {
	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var stack []string
	var cycle []string

	var visit func(n *node) bool
	visit = func(n *node) bool {
		if permanent[n.id] {
			return false
		}
		if temporary[n.id] {
			// n is on the stack: the cycle is the stack suffix starting at n.
			for i, id := range stack {
				if id == n.id {
					cycle = append(append([]string(nil), stack[i:]...), n.id)
					break
				}
			}
			return true
		}

		temporary[n.id] = true
		stack = append(stack, n.id)
		for _, dependent := range n.dependents {
			if visit(dependent) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, n.id)
		permanent[n.id] = true
		return false
	}

	for _, n := range g.order {
		if !permanent[n.id] && visit(n) {
			return cycle
		}
	}
	return nil
}
