package graph

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
	"github.com/matzehuels/brkgraph/pkg/core/bpgraph/analysis"
	"github.com/matzehuels/brkgraph/pkg/errors"
)

// pairDoc is a producer document: note the extra "value" and "key" fields
// and the absence of "density".
const pairDoc = `{
	"data": [],
	"directed": true,
	"multigraph": true,
	"elements": {
		"nodes": [
			{"data": {
				"chrom": "chr1", "ref_start": 154220171, "ref_end": 154261697,
				"strand": "+", "is_head": true,
				"id": "chr1_154220171_154261697_H+",
				"value": "chr1_154220171_154261697_H+",
				"name": "chr1_154220171_154261697_H+"
			}},
			{"data": {
				"chrom": "chr2", "ref_start": 80617598, "ref_end": 80666408,
				"strand": "-", "is_head": false,
				"id": "chr2_80617598_80666408_T-",
				"value": "chr2_80617598_80666408_T-",
				"name": "chr2_80617598_80666408_T-"
			}}
		],
		"edges": [
			{"data": {
				"label": "TRA_(False, MicroHomology(G))_1",
				"weight": 1,
				"read_ids": ["m64135_201204_204719/97059215/ccs"],
				"source": "chr1_154220171_154261697_H+",
				"target": "chr2_80617598_80666408_T-",
				"key": 0
			}}
		]
	}
}`

func TestReadGraph(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(pairDoc))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", g.NodeCount(), g.EdgeCount())
	}

	h, ok := g.Lookup("chr2_80617598_80666408_T-")
	if !ok {
		t.Fatal("node chr2 not found")
	}
	want := bpgraph.Node{
		ID:       "chr2_80617598_80666408_T-",
		Label:    "chr2_80617598_80666408_T-",
		Chrom:    "chr2",
		RefStart: 80617598,
		RefEnd:   80666408,
		Strand:   bpgraph.StrandNegative,
		IsHead:   false,
	}
	if diff := cmp.Diff(want, *g.Node(h)); diff != "" {
		t.Errorf("node mismatch (-want +got):\n%s", diff)
	}

	e := g.Edge(0)
	if e.Weight != 1 || e.Label != "TRA_(False, MicroHomology(G))_1" || e.Target != h {
		t.Errorf("edge = %+v", e)
	}
	if diff := cmp.Diff([]string{"m64135_201204_204719/97059215/ccs"}, e.ReadIDs); diff != "" {
		t.Errorf("read ids (-want +got):\n%s", diff)
	}
}

func TestReadGraphIgnoresComputedFields(t *testing.T) {
	input := `{"elements": {"nodes": [{"data": {
		"id": "A", "name": "A", "chrom": "chr1", "ref_start": 1, "ref_end": 2,
		"strand": "+", "is_head": true, "indegree": 7, "closeness_centrality": 0.5
	}}], "edges": []}}`

	g, err := UnmarshalGraph([]byte(input))
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if m := g.Node(0).Metrics; m != (bpgraph.Metrics{}) {
		t.Errorf("metrics = %+v, want zero", m)
	}
}

func TestReadGraphErrors(t *testing.T) {
	node := func(fields string) string {
		base := `"id": "A", "name": "A", "chrom": "chr1", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": true`
		if fields != "" {
			base = fields
		}
		return `{"data": {` + base + `}}`
	}
	doc := func(nodes, edges string) string {
		return `{"elements": {"nodes": [` + nodes + `], "edges": [` + edges + `]}}`
	}
	edge := func(fields string) string { return `{"data": {` + fields + `}}` }
	nodeB := strings.ReplaceAll(node(""), `"A"`, `"B"`)

	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"NotJSON", `{invalid json}`, errors.ErrCodeInvalidDocument},
		{"NotObject", `[]`, errors.ErrCodeInvalidDocument},
		{"MissingElements", `{"data": []}`, errors.ErrCodeInvalidDocument},
		{"MissingNodes", `{"elements": {"edges": []}}`, errors.ErrCodeInvalidDocument},
		{"MissingEdges", `{"elements": {"nodes": []}}`, errors.ErrCodeInvalidDocument},
		{"NullNodes", `{"elements": {"nodes": null, "edges": []}}`, errors.ErrCodeInvalidDocument},
		{"NodesNotArray", `{"elements": {"nodes": {}, "edges": []}}`, errors.ErrCodeInvalidDocument},
		{"NodeWithoutData", doc(`{}`, ""), errors.ErrCodeMissingField},
		{"MissingChrom", doc(node(`"id": "A", "name": "A", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": true`), ""), errors.ErrCodeMissingField},
		{"MissingID", doc(node(`"name": "A", "chrom": "c", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": true`), ""), errors.ErrCodeMissingField},
		{"IDNotString", doc(node(`"id": 5, "name": "A", "chrom": "c", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": true`), ""), errors.ErrCodeInvalidField},
		{"EmptyID", doc(node(`"id": "", "name": "A", "chrom": "c", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": true`), ""), errors.ErrCodeInvalidField},
		{"NegativeRefStart", doc(node(`"id": "A", "name": "A", "chrom": "c", "ref_start": -1, "ref_end": 2, "strand": "+", "is_head": true`), ""), errors.ErrCodeInvalidField},
		{"FractionalRefEnd", doc(node(`"id": "A", "name": "A", "chrom": "c", "ref_start": 1, "ref_end": 2.5, "strand": "+", "is_head": true`), ""), errors.ErrCodeInvalidField},
		{"BadStrand", doc(node(`"id": "A", "name": "A", "chrom": "c", "ref_start": 1, "ref_end": 2, "strand": "x", "is_head": true`), ""), errors.ErrCodeInvalidField},
		{"HeadNotBool", doc(node(`"id": "A", "name": "A", "chrom": "c", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": "yes"`), ""), errors.ErrCodeInvalidField},
		{"NullName", doc(node(`"id": "A", "name": null, "chrom": "c", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": true`), ""), errors.ErrCodeInvalidField},
		{"DuplicateNode", doc(node("")+","+node(""), ""), errors.ErrCodeDuplicateNode},
		{"EdgeMissingWeight", doc(node(""), edge(`"label": "l", "read_ids": [], "source": "A", "target": "A"`)), errors.ErrCodeMissingField},
		{"EdgeReadIDsNotArray", doc(node(""), edge(`"label": "l", "weight": 1, "read_ids": "r1", "source": "A", "target": "A"`)), errors.ErrCodeInvalidField},
		{"EdgeReadIDNotString", doc(node(""), edge(`"label": "l", "weight": 1, "read_ids": [1], "source": "A", "target": "A"`)), errors.ErrCodeInvalidField},
		{"EdgeUnknownSource", doc(node(""), edge(`"label": "l", "weight": 1, "read_ids": [], "source": "Z", "target": "A"`)), errors.ErrCodeUnknownNode},
		{"EdgeUnknownTarget", doc(node("")+","+nodeB, edge(`"label": "l", "weight": 1, "read_ids": [], "source": "A", "target": "Z"`)), errors.ErrCodeUnknownNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalGraph([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestReadGraphErrorNamesField(t *testing.T) {
	input := `{"elements": {"nodes": [{"data": {"id": "A", "name": "A", "ref_start": 1,
		"ref_end": 2, "strand": "+", "is_head": true}}], "edges": []}}`

	_, err := UnmarshalGraph([]byte(input))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := errors.UserMessage(err)
	if !strings.Contains(msg, `"chrom"`) || !strings.Contains(msg, `"A"`) {
		t.Errorf("message %q should name the field and node", msg)
	}
}

func TestRoundTrip(t *testing.T) {
	g, err := UnmarshalGraph([]byte(pairDoc))
	if err != nil {
		t.Fatal(err)
	}
	analysis.NodeDegree(g)
	analysis.DegreeCentrality(g)

	data, err := MarshalGraph(g, Options{})
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	back, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph(output): %v", err)
	}

	type edgeTuple struct {
		Source, Target, Label string
		Weight                uint64
		ReadIDs               []string
	}
	tuples := func(g *bpgraph.Graph) []edgeTuple {
		var out []edgeTuple
		for _, e := range g.Edges() {
			out = append(out, edgeTuple{g.Node(e.Source).ID, g.Node(e.Target).ID, e.Label, e.Weight, e.ReadIDs})
		}
		return out
	}
	ids := func(g *bpgraph.Graph) []string {
		var out []string
		for _, n := range g.Nodes() {
			out = append(out, n.ID)
		}
		return out
	}

	if diff := cmp.Diff(ids(g), ids(back)); diff != "" {
		t.Errorf("node ids (-orig +back):\n%s", diff)
	}
	if diff := cmp.Diff(tuples(g), tuples(back)); diff != "" {
		t.Errorf("edges (-orig +back):\n%s", diff)
	}
	if g.NodeCount() != back.NodeCount() || g.EdgeCount() != back.EdgeCount() {
		t.Errorf("counts differ")
	}
}

func TestFromGraph(t *testing.T) {
	g := bpgraph.New()
	a, _ := g.AddNode(bpgraph.Node{ID: "A", Label: "a", Strand: bpgraph.StrandNegative})
	b, _ := g.AddNode(bpgraph.Node{ID: "B", Label: "b"})
	g.AddEdge(bpgraph.Edge{Source: a, Target: b, Label: "x"})
	g.AddEdge(bpgraph.Edge{Source: b, Target: a, Label: "y"})
	g.AddEdge(bpgraph.Edge{Source: a, Target: b, Label: "z", ReadIDs: []string{"r"}})
	g.Node(a).Metrics.OutDegree = 2

	doc := FromGraph(g, Options{})

	if doc.Density != 3 {
		t.Errorf("density = %v, want 3", doc.Density)
	}
	if !doc.Directed || !doc.Multigraph || doc.Data == nil {
		t.Errorf("envelope = %+v", doc)
	}
	if doc.LegacyDensity != nil {
		t.Error("legacy density should be omitted by default")
	}

	gotKeys := []int{}
	for _, e := range doc.Elements.Edges {
		gotKeys = append(gotKeys, e.Data.Key)
		if e.Data.ReadIDs == nil {
			t.Errorf("edge %s: read_ids must not be null", e.Data.Label)
		}
	}
	if diff := cmp.Diff([]int{0, 0, 1}, gotKeys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}

	n := doc.Elements.Nodes[0].Data
	if n.Name != "a" || n.Strand != bpgraph.StrandNegative || n.OutDegree != 2 {
		t.Errorf("node = %+v", n)
	}
	if e := doc.Elements.Edges[1].Data; e.Source != "B" || e.Target != "A" {
		t.Errorf("edge endpoints = %s→%s, want B→A", e.Source, e.Target)
	}
}

func TestFromGraphDensity(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		want  float64
	}{
		{"Empty", nil, 0},
		{"Single", []string{"A"}, 0},
		{"Pair", []string{"A", "B"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := bpgraph.New()
			for _, id := range tt.nodes {
				g.AddNode(bpgraph.Node{ID: id})
			}
			if got := FromGraph(g, Options{}).Density; got != tt.want {
				t.Errorf("density = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteGraphLegacyDensityKey(t *testing.T) {
	g, err := UnmarshalGraph([]byte(pairDoc))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteGraph(g, Options{LegacyDensityKey: true}, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["density"] != 1.0 || out["desinty"] != 1.0 {
		t.Errorf("density = %v, desinty = %v, want 1 and 1", out["density"], out["desinty"])
	}

	buf.Reset()
	if err := WriteGraph(g, Options{}, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "desinty") {
		t.Error("desinty written without LegacyDensityKey")
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"density\"") {
		t.Errorf("output not indented with two spaces:\n%s", buf.String())
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	g, err := UnmarshalGraph([]byte(pairDoc))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteGraphFile(g, Options{}, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}

	back, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if back.NodeCount() != 2 || back.EdgeCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", back.NodeCount(), back.EdgeCount())
	}
}

func TestReadGraphFileNotFound(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nonexistent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
