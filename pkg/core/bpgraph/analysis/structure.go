package analysis

import "github.com/matzehuels/brkgraph/pkg/core/bpgraph"

// IsWeaklyConnected reports whether every node is reachable from the first
// inserted node when edge direction is ignored.
//
// This is a single traversal from one seed, not a component count: one seed
// reaching every node is exactly the condition of having one weak component.
// Graphs with zero or one node are connected.
func IsWeaklyConnected(g *bpgraph.Graph) bool {
	n := g.NodeCount()
	if n <= 1 {
		return true
	}

	visited := make([]bool, n)
	seed := bpgraph.NodeID(0)
	visited[seed] = true
	stack := []bpgraph.NodeID{seed}
	count := 1

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, nb := range g.Neighbors(cur) {
			if !visited[nb] {
				visited[nb] = true
				count++
				stack = append(stack, nb)
			}
		}
	}
	return count == n
}

// IsCyclicDirected reports whether the graph contains a directed cycle.
// Self-loops count as cycles. The search is iterative and runs in O(V+E).
func IsCyclicDirected(g *bpgraph.Graph) bool {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		node bpgraph.NodeID
		next int // index into the node's outgoing edge list
	}

	color := make([]uint8, g.NodeCount())
	for _, root := range g.NodeIDs() {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			out := g.OutEdges(top.node)
			if top.next == len(out) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := g.Edge(out[top.next]).Target
			top.next++

			switch color[child] {
			case gray:
				return true
			case white:
				color[child] = gray
				stack = append(stack, frame{node: child})
			}
		}
	}
	return false
}

// Density returns 2E / (N(N-1)), or 0 when the graph has fewer than two nodes.
func Density(g *bpgraph.Graph) float64 {
	n := g.NodeCount()
	if n < 2 {
		return 0
	}
	return 2 * float64(g.EdgeCount()) / float64(n*(n-1))
}

// Summary collects the graph-level facts reported for one graph.
type Summary struct {
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	Density   float64 `json:"density"`
	Connected bool    `json:"weakly_connected"`
	Cyclic    bool    `json:"cyclic"`
}

// Summarize computes the [Summary] of g without touching node metrics.
func Summarize(g *bpgraph.Graph) Summary {
	return Summary{
		Nodes:     g.NodeCount(),
		Edges:     g.EdgeCount(),
		Density:   Density(g),
		Connected: IsWeaklyConnected(g),
		Cyclic:    IsCyclicDirected(g),
	}
}
