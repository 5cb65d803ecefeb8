package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
)

func names(g *bpgraph.Graph, paths [][]bpgraph.NodeID) [][]string {
	var out [][]string
	for _, p := range paths {
		var row []string
		for _, id := range p {
			row = append(row, g.Node(id).ID)
		}
		out = append(out, row)
	}
	return out
}

func TestEnumeratePaths(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
		want  [][]string
	}{
		{name: "Empty"},
		{name: "Isolated", ids: []string{"A"}, want: [][]string{{"A"}}},
		{
			name:  "Chain",
			ids:   []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}},
			want:  [][]string{{"A", "B", "C"}},
		},
		{
			name:  "Diamond",
			ids:   []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			want:  [][]string{{"A", "B", "D"}, {"A", "C", "D"}},
		},
		{
			name:  "ParallelEdges",
			ids:   []string{"A", "B"},
			edges: [][2]string{{"A", "B"}, {"A", "B"}},
			want:  [][]string{{"A", "B"}, {"A", "B"}},
		},
		{
			name:  "CycleOffPath",
			ids:   []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "B"}, {"B", "D"}},
			want:  [][]string{{"A", "B", "D"}},
		},
		{
			name:  "PureCycleHasNoSource",
			ids:   []string{"A", "B"},
			edges: [][2]string{{"A", "B"}, {"B", "A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.ids, tt.edges)
			paths, truncated := EnumeratePaths(g, 0)
			if truncated {
				t.Error("unexpected truncation")
			}
			if diff := cmp.Diff(tt.want, names(g, paths)); diff != "" {
				t.Errorf("paths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnumeratePathsLimit(t *testing.T) {
	g := build(t, []string{"A", "B", "C", "D"}, [][2]string{{"A", "B"}, {"A", "C"}, {"A", "D"}})

	paths, truncated := EnumeratePaths(g, 2)
	if !truncated {
		t.Error("expected truncation")
	}
	if len(paths) != 2 {
		t.Errorf("len(paths) = %d, want 2", len(paths))
	}

	paths, truncated = EnumeratePaths(g, 3)
	if truncated || len(paths) != 3 {
		t.Errorf("limit 3: len = %d truncated = %v", len(paths), truncated)
	}
}
