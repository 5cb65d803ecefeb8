package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
)

func pair(t *testing.T) *bpgraph.Graph {
	t.Helper()
	g := bpgraph.New()
	a, err := g.AddNode(bpgraph.Node{ID: "A", Chrom: "chr1", RefStart: 10, RefEnd: 20, IsHead: true})
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.AddNode(bpgraph.Node{ID: "B", Chrom: "chr2", RefStart: 5, RefEnd: 9, Strand: bpgraph.StrandNegative})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(bpgraph.Edge{Source: a, Target: b, Label: "TRA_1", Weight: 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(bpgraph.Edge{Source: a, Target: b, Label: "TRA_2", Weight: 1}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(pair(t), Options{})

	for _, want := range []string{
		"digraph G {",
		`"A" [label="A", shape=box];`,
		`"B" [label="B", shape=ellipse, fillcolor=lightgrey];`,
		`"A" -> "B" [penwidth=3.00];`,
		`"A" -> "B" [penwidth=1.00];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "TRA_1") {
		t.Error("edge labels written without EdgeLabels")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := pair(t)
	g.Node(0).Metrics.OutDegree = 2

	dot := ToDOT(g, Options{Detailed: true, EdgeLabels: true})

	for _, want := range []string{
		`chr1:10-20 (+)`,
		`chr2:5-9 (-)`,
		`in: 0  out: 2`,
		`label="TRA_1"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	// B has no metrics yet, so only its coordinates are shown.
	if strings.Count(dot, "closeness:") != 1 {
		t.Errorf("expected metrics on exactly one node:\n%s", dot)
	}
}

func TestPenWidth(t *testing.T) {
	tests := []struct {
		weight uint64
		want   float64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{8, 4},
	}
	for _, tt := range tests {
		if got := penWidth(tt.weight); got != tt.want {
			t.Errorf("penWidth(%d) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Errorf("body changed: %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
