package analysis

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
)

// NodeDegree sets InDegree and OutDegree on every node. Parallel edges are
// counted individually, so the sums of both equal the edge count.
func NodeDegree(g *bpgraph.Graph) {
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		n.Metrics.InDegree = g.InDegree(id)
		n.Metrics.OutDegree = g.OutDegree(id)
	}
}

// DegreeCentrality sets in- and out-degree centrality to degree/(N-1).
// Both are 0 for a single-node graph.
func DegreeCentrality(g *bpgraph.Graph) {
	norm := float64(g.NodeCount() - 1)
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		n.Metrics.InDegreeCentrality = ratio(float64(g.InDegree(id)), norm)
		n.Metrics.OutDegreeCentrality = ratio(float64(g.OutDegree(id)), norm)
	}
}

// ClosenessCentrality sets each node's closeness to (N-1) divided by the sum
// of unit-weight shortest-path distances to every node reachable along
// outgoing edges, or 0 when nothing is reachable.
//
// The graph must be weakly connected. Connectivity is rechecked on every
// call; when it fails, no node is modified, a warning is written to logger
// (if non-nil) and false is returned.
func ClosenessCentrality(g *bpgraph.Graph, logger *log.Logger) bool {
	if !IsWeaklyConnected(g) {
		if logger != nil {
			logger.Warn("graph is not weakly connected, skipping closeness centrality",
				"nodes", g.NodeCount(), "edges", g.EdgeCount())
		}
		return false
	}

	n := g.NodeCount()
	dist := make([]int, n)
	queue := make([]bpgraph.NodeID, 0, n)

	for _, src := range g.NodeIDs() {
		for i := range dist {
			dist[i] = -1
		}
		dist[src] = 0
		queue = append(queue[:0], src)
		total := 0

		for head := 0; head < len(queue); head++ {
			cur := queue[head]
			for _, e := range g.OutEdges(cur) {
				next := g.Edge(e).Target
				if dist[next] >= 0 {
					continue
				}
				dist[next] = dist[cur] + 1
				total += dist[next]
				queue = append(queue, next)
			}
		}

		g.Node(src).Metrics.ClosenessCentrality = ratio(float64(n-1), float64(total))
	}
	return true
}

// LocalClusteringCoefficient sets, for every node, the fraction of ordered
// (predecessor, successor) pairs that are joined by an edge predecessor→successor.
// Predecessors and successors are taken as distinct sets; the coefficient is
// 0 when either set is empty.
func LocalClusteringCoefficient(g *bpgraph.Graph) {
	for _, id := range g.NodeIDs() {
		succ := g.DistinctSuccessors(id)
		pred := g.DistinctPredecessors(id)

		linked := 0
		for _, p := range pred {
			for _, s := range succ {
				if g.HasEdge(p, s) {
					linked++
				}
			}
		}
		g.Node(id).Metrics.LocalClusteringCoefficient = ratio(float64(linked), float64(len(pred)*len(succ)))
	}
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
