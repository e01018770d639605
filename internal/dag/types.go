package dag

// Graph is a collection of nodes and their dependencies, representing a DAG.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order holds the nodes in the order they were added.
	order []*node
	// edges holds every edge in the order it was added.
	edges []Edge
}

// Edge is a directed edge: To depends on From.
type Edge struct {
	From string
	To   string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// index is the insertion position, used to break ties deterministically.
	index int
	// deps holds the nodes that this node depends on, in edge order.
	deps []*node
	// dependents holds the nodes that depend on this node, in edge order.
	dependents []*node
	// depSet indexes deps for duplicate edge checks.
	depSet map[string]struct{}
}
