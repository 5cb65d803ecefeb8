// Package analysis computes structural metrics over a breakpoint graph.
//
// Every function here is a free function over [bpgraph.Graph]. Passes only
// write node metrics; they never add or remove nodes or edges. Each pass can
// run on its own and rerunning it on an unchanged graph yields the same
// values.
//
// # Passes
//
//   - [NodeDegree]: in/out edge counts, parallel edges counted individually
//   - [DegreeCentrality]: degree divided by node_count-1
//   - [ClosenessCentrality]: (node_count-1) / sum of BFS distances over
//     outgoing edges; a no-op on graphs that are not weakly connected
//   - [LocalClusteringCoefficient]: fraction of predecessor/successor pairs
//     joined by a direct edge
//
// # Checks
//
//   - [IsWeaklyConnected]: single traversal from the first inserted node,
//     ignoring direction
//   - [IsCyclicDirected]: depth-first search with white/gray/black coloring
//   - [Density]: 2E / (N(N-1)), zero when N < 2
//
// # Division by zero
//
// Every ratio in this package yields 0 when its denominator is 0. No pass
// produces NaN or Inf.
//
// # Diagnostics
//
// [EnumeratePaths] lists maximal source-to-sink paths. It is exponential on
// branchy graphs and exists for inspection only; the standard pipeline never
// calls it.
package analysis
