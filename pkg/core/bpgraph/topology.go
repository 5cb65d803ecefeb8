package bpgraph

// Topology is the bare structure of a graph: node count and directed
// adjacency, with no node or edge attributes. It is what the edit-distance
// comparator operates on.
type Topology struct {
	n   int
	adj [][]int
}

// NewTopology builds a topology with n nodes and the given directed edges.
// Edges whose endpoints fall outside [0, n) are ignored. A negative n is
// treated as 0.
func NewTopology(n int, edges [][2]int) *Topology {
	n = max(n, 0)
	t := &Topology{n: n, adj: make([][]int, n)}
	for _, e := range edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			continue
		}
		t.adj[e[0]] = append(t.adj[e[0]], e[1])
	}
	return t
}

// Topology returns a freshly allocated, attribute-free copy of g's structure.
// Node i of the topology corresponds to NodeID(i) of g.
func (g *Graph) Topology() *Topology {
	t := &Topology{n: len(g.nodes), adj: make([][]int, len(g.nodes))}
	for _, e := range g.edges {
		t.adj[e.Source] = append(t.adj[e.Source], int(e.Target))
	}
	return t
}

// NodeCount returns the number of nodes.
func (t *Topology) NodeCount() int { return t.n }

// EdgeCount returns the number of directed edges.
func (t *Topology) EdgeCount() int {
	m := 0
	for _, a := range t.adj {
		m += len(a)
	}
	return m
}

// Successors returns the targets of edges leaving node i. The slice must not be modified.
func (t *Topology) Successors(i int) []int { return t.adj[i] }
