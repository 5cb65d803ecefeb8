// Package bpgraph provides the in-memory breakpoint graph: a directed
// multigraph whose nodes are genomic breakpoint endpoints and whose edges are
// structural-variant evidence linking them.
//
// # Overview
//
// A breakpoint node is identified by a stable string ID derived from its
// genomic coordinates, strand and head/tail designation, for example
// "chr1_154220171_154261697_H+". Edges carry an evidence label, a support
// weight and the IDs of the reads supporting the link. Parallel edges between
// the same ordered pair of nodes are permitted.
//
// # Storage
//
// Nodes and edges live in growable arenas indexed by [NodeID] and [EdgeID].
// Adjacency is expressed through per-node lists of edge indices, so the graph
// holds no pointers between records:
//
//	g := bpgraph.New()
//	a, _ := g.AddNode(bpgraph.Node{ID: "A", Strand: bpgraph.StrandPositive})
//	b, _ := g.AddNode(bpgraph.Node{ID: "B", Strand: bpgraph.StrandNegative})
//	_, _ = g.AddEdge(bpgraph.Edge{Source: a, Target: b, Weight: 1})
//
// Handles are assigned in insertion order. That order carries no meaning and
// callers should look nodes up by ID with [Graph.Lookup] rather than rely on
// a particular handle value.
//
// # Lifecycle
//
// A graph is built once by the loader in pkg/graph and its structure never
// changes afterwards. Analysis passes in the analysis subpackage overwrite
// the computed [Metrics] of each node in place. The edit-distance comparator
// in the ged subpackage works on [Topology] copies that share no storage
// with the graph.
//
// # Concurrency
//
// Graph is not safe for concurrent use. Distinct graphs share no state and
// may be processed on separate goroutines.
package bpgraph
