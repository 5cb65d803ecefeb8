package analysis

import (
	"slices"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
)

// EnumeratePaths lists every maximal directed path that starts at a node
// with in-degree 0 and ends at a node with out-degree 0, following outgoing
// edges. Parallel edges yield one path each.
//
// The walk uses an explicit stack, so long chains do not grow the goroutine
// stack. A node already on the current path is not re-entered; a branch that
// can only continue into such a node is a dead end and produces no path.
//
// The number of paths is exponential in the branching of the graph. When
// limit > 0, enumeration stops after limit paths and truncated is true.
// This is a diagnostic tool and is not part of the standard pipeline.
func EnumeratePaths(g *bpgraph.Graph, limit int) (paths [][]bpgraph.NodeID, truncated bool) {
	type frame struct {
		node bpgraph.NodeID
		next int
	}

	onPath := make([]bool, g.NodeCount())

	for _, start := range g.Sources() {
		stack := []frame{{node: start}}
		path := []bpgraph.NodeID{start}
		onPath[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			out := g.OutEdges(top.node)

			if len(out) == 0 {
				if limit > 0 && len(paths) == limit {
					return paths, true
				}
				paths = append(paths, slices.Clone(path))
			}

			if top.next == len(out) {
				onPath[top.node] = false
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}

			next := g.Edge(out[top.next]).Target
			top.next++
			if onPath[next] {
				continue
			}
			onPath[next] = true
			stack = append(stack, frame{node: next})
			path = append(path, next)
		}
	}
	return paths, false
}
