// Package dag is the topology layer of a workflow: a directed graph of job IDs
// whose nodes and edges remember the order they were added in.
//
// Everything that walks the graph (cycle detection, topological ordering,
// edge listing) visits nodes and edges in insertion order, so two graphs built
// by the same sequence of calls always produce the same results. The graph is
// not safe for concurrent mutation; callers that share one must guard it.
package dag
