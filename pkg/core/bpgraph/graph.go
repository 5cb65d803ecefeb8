package bpgraph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// handle does not refer to a node in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// handle does not refer to a node in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// NodeID is an opaque handle to a node, valid only for the graph that issued it.
type NodeID int

// EdgeID is an opaque handle to an edge, valid only for the graph that issued it.
type EdgeID int

// Metrics holds the per-node values computed by the analysis passes.
// All fields are zero until the corresponding pass has run.
type Metrics struct {
	InDegree                   int
	OutDegree                  int
	InDegreeCentrality         float64
	OutDegreeCentrality        float64
	ClosenessCentrality        float64
	LocalClusteringCoefficient float64
}

// Node is a breakpoint endpoint.
//
// RefStart <= RefEnd is expected of producers but not enforced here.
type Node struct {
	ID       string // Unique identifier derived from coordinates, strand and head/tail
	Label    string // Display name ("name" in the interchange document)
	Chrom    string
	RefStart uint64
	RefEnd   uint64
	Strand   Strand
	IsHead   bool

	Metrics Metrics
}

// Edge is one piece of structural-variant evidence linking two breakpoints.
type Edge struct {
	Label   string   // Free-form evidence descriptor
	Weight  uint64   // Support count
	ReadIDs []string // Supporting read identifiers, in producer order
	Source  NodeID
	Target  NodeID
}

// Graph is a directed multigraph of breakpoints stored in index arenas.
//
// The zero value is not usable; create graphs with [New].
type Graph struct {
	nodes []Node
	edges []Edge
	out   [][]EdgeID // node -> outgoing edge indices, insertion order
	in    [][]EdgeID // node -> incoming edge indices, insertion order
	index map[string]NodeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]NodeID)}
}

// AddNode appends a node and returns its handle. Computed metrics on n are
// kept as given.
func (g *Graph) AddNode(n Node) (NodeID, error) {
	if n.ID == "" {
		return 0, ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return 0, ErrDuplicateNodeID
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	g.index[n.ID] = id
	return id, nil
}

// AddEdge appends an edge between two existing nodes and returns its handle.
// Parallel edges and self-loops are allowed. ReadIDs is copied.
func (g *Graph) AddEdge(e Edge) (EdgeID, error) {
	if !g.valid(e.Source) {
		return 0, ErrUnknownSourceNode
	}
	if !g.valid(e.Target) {
		return 0, ErrUnknownTargetNode
	}
	e.ReadIDs = slices.Clone(e.ReadIDs)
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, e)
	g.out[e.Source] = append(g.out[e.Source], id)
	g.in[e.Target] = append(g.in[e.Target], id)
	return id, nil
}

func (g *Graph) valid(id NodeID) bool { return id >= 0 && int(id) < len(g.nodes) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, counting parallel edges individually.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns a pointer to the node record so passes can update its metrics.
// It panics if id was not issued by this graph.
func (g *Graph) Node(id NodeID) *Node { return &g.nodes[id] }

// Edge returns the edge record. It panics if id was not issued by this graph.
func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// Lookup resolves a string node ID to its handle.
func (g *Graph) Lookup(id string) (NodeID, bool) {
	h, ok := g.index[id]
	return h, ok
}

// NodeIDs returns every node handle in insertion order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range ids {
		ids[i] = NodeID(i)
	}
	return ids
}

// Nodes returns a copy of all node records in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edge records in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// OutEdges returns the handles of edges leaving id. The slice must not be modified.
func (g *Graph) OutEdges(id NodeID) []EdgeID { return g.out[id] }

// InEdges returns the handles of edges entering id. The slice must not be modified.
func (g *Graph) InEdges(id NodeID) []EdgeID { return g.in[id] }

// OutDegree returns the number of outgoing edges, parallel edges included.
func (g *Graph) OutDegree(id NodeID) int { return len(g.out[id]) }

// InDegree returns the number of incoming edges, parallel edges included.
func (g *Graph) InDegree(id NodeID) int { return len(g.in[id]) }

// Successors returns the target of every outgoing edge of id, with one entry
// per edge. Use [Graph.DistinctSuccessors] for the set.
func (g *Graph) Successors(id NodeID) []NodeID {
	res := make([]NodeID, 0, len(g.out[id]))
	for _, e := range g.out[id] {
		res = append(res, g.edges[e].Target)
	}
	return res
}

// Predecessors returns the source of every incoming edge of id, with one
// entry per edge.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	res := make([]NodeID, 0, len(g.in[id]))
	for _, e := range g.in[id] {
		res = append(res, g.edges[e].Source)
	}
	return res
}

// DistinctSuccessors returns the set of direct successors of id in first-seen order.
func (g *Graph) DistinctSuccessors(id NodeID) []NodeID { return dedupe(g.Successors(id)) }

// DistinctPredecessors returns the set of direct predecessors of id in first-seen order.
func (g *Graph) DistinctPredecessors(id NodeID) []NodeID { return dedupe(g.Predecessors(id)) }

// Neighbors returns the nodes adjacent to id ignoring direction: every
// successor followed by every predecessor, one entry per edge.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	return append(g.Successors(id), g.Predecessors(id)...)
}

// HasEdge reports whether at least one edge u→v exists.
func (g *Graph) HasEdge(u, v NodeID) bool {
	// Scan whichever side is shorter.
	if len(g.out[u]) <= len(g.in[v]) {
		for _, e := range g.out[u] {
			if g.edges[e].Target == v {
				return true
			}
		}
		return false
	}
	for _, e := range g.in[v] {
		if g.edges[e].Source == u {
			return true
		}
	}
	return false
}

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []NodeID {
	var res []NodeID
	for i := range g.nodes {
		if len(g.in[i]) == 0 {
			res = append(res, NodeID(i))
		}
	}
	return res
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (g *Graph) Sinks() []NodeID {
	var res []NodeID
	for i := range g.nodes {
		if len(g.out[i]) == 0 {
			res = append(res, NodeID(i))
		}
	}
	return res
}

// ResetMetrics zeroes the computed metrics of every node.
func (g *Graph) ResetMetrics() {
	for i := range g.nodes {
		g.nodes[i].Metrics = Metrics{}
	}
}

func dedupe(ids []NodeID) []NodeID {
	seen := make(map[NodeID]struct{}, len(ids))
	res := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
