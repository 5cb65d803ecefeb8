package graph

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
	"github.com/matzehuels/brkgraph/pkg/core/bpgraph/analysis"
)

// =============================================================================
// Document - Interchange Envelope
// =============================================================================

// Document is the interchange format for breakpoint graphs: a node-link
// envelope with cytoscape-style elements, as written by the structural-variant
// caller and read back by visualization tools.
//
// On input only Elements is required. On output every field is populated.
type Document struct {
	Density    float64  `json:"density"`
	Data       []any    `json:"data"`
	Directed   bool     `json:"directed"`
	Multigraph bool     `json:"multigraph"`
	Elements   Elements `json:"elements"`

	// LegacyDensity mirrors Density under the key "desinty" for consumers
	// written against older producers. Set only when requested.
	LegacyDensity *float64 `json:"desinty,omitempty"`
}

// Elements holds the node and edge records of a [Document].
type Elements struct {
	Nodes []NodeEntry `json:"nodes"`
	Edges []EdgeEntry `json:"edges"`
}

// NodeEntry wraps node attributes in a "data" object.
type NodeEntry struct {
	Data NodeData `json:"data"`
}

// EdgeEntry wraps edge attributes in a "data" object.
type EdgeEntry struct {
	Data EdgeData `json:"data"`
}

// =============================================================================
// Node and Edge Records
// =============================================================================

// NodeData is one breakpoint endpoint. The computed fields are written on
// output and ignored on input.
type NodeData struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Chrom    string         `json:"chrom"`
	RefStart uint64         `json:"ref_start"`
	RefEnd   uint64         `json:"ref_end"`
	Strand   bpgraph.Strand `json:"strand"`
	IsHead   bool           `json:"is_head"`

	InDegree                   int     `json:"indegree"`
	OutDegree                  int     `json:"outdegree"`
	InDegreeCentrality         float64 `json:"in_degree_centrality"`
	OutDegreeCentrality        float64 `json:"out_degree_centrality"`
	ClosenessCentrality        float64 `json:"closeness_centrality"`
	LocalClusteringCoefficient float64 `json:"local_clustering_coefficient"`
}

// EdgeData is one piece of structural-variant evidence between two
// breakpoints. Source and Target are node ids. Key is the ordinal of the
// edge among parallel edges with the same endpoints; it is written on output
// and ignored on input.
type EdgeData struct {
	Label   string   `json:"label"`
	Weight  uint64   `json:"weight"`
	ReadIDs []string `json:"read_ids"`
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Key     int      `json:"key"`
}

// =============================================================================
// Graph → Document Conversion
// =============================================================================

// Options controls serialization.
type Options struct {
	// LegacyDensityKey also writes the graph density under "desinty".
	LegacyDensityKey bool

	// Indent is the per-level indentation of the written JSON.
	// Defaults to [DefaultIndent].
	Indent string
}

// DefaultIndent is the indentation used when [Options.Indent] is empty.
const DefaultIndent = "  "

// FromGraph converts a graph and its current node metrics to a [Document].
// Nodes and edges keep insertion order. Metrics that were never computed are
// written as zero.
func FromGraph(g *bpgraph.Graph, opts Options) Document {
	density := analysis.Density(g)
	doc := Document{
		Density:    density,
		Data:       []any{},
		Directed:   true,
		Multigraph: true,
		Elements: Elements{
			Nodes: make([]NodeEntry, 0, g.NodeCount()),
			Edges: make([]EdgeEntry, 0, g.EdgeCount()),
		},
	}
	if opts.LegacyDensityKey {
		doc.LegacyDensity = &density
	}

	for _, n := range g.Nodes() {
		doc.Elements.Nodes = append(doc.Elements.Nodes, NodeEntry{Data: nodeToData(n)})
	}

	keys := make(map[[2]bpgraph.NodeID]int)
	for _, e := range g.Edges() {
		pair := [2]bpgraph.NodeID{e.Source, e.Target}
		doc.Elements.Edges = append(doc.Elements.Edges, EdgeEntry{Data: EdgeData{
			Label:   e.Label,
			Weight:  e.Weight,
			ReadIDs: nonNil(e.ReadIDs),
			Source:  g.Node(e.Source).ID,
			Target:  g.Node(e.Target).ID,
			Key:     keys[pair],
		}})
		keys[pair]++
	}
	return doc
}

// ToGraph builds a graph from an already decoded document. Duplicate node ids
// and edges that reference unknown nodes are rejected.
func ToGraph(doc Document) (*bpgraph.Graph, error) {
	g := bpgraph.New()
	for i, entry := range doc.Elements.Nodes {
		if _, err := g.AddNode(dataToNode(entry.Data)); err != nil {
			return nil, nodeError(i, entry.Data.ID, err)
		}
	}
	for i, entry := range doc.Elements.Edges {
		if err := addEdge(g, i, entry.Data); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// UnmarshalDocument strictly decodes an interchange document. Every required
// node and edge field must be present with the right JSON type; see
// [ReadGraph] for the error codes.
func UnmarshalDocument(data []byte) (Document, error) {
	return decodeDocument(json.RawMessage(data))
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeToData(n bpgraph.Node) NodeData {
	return NodeData{
		ID:                         n.ID,
		Name:                       n.Label,
		Chrom:                      n.Chrom,
		RefStart:                   n.RefStart,
		RefEnd:                     n.RefEnd,
		Strand:                     n.Strand,
		IsHead:                     n.IsHead,
		InDegree:                   n.Metrics.InDegree,
		OutDegree:                  n.Metrics.OutDegree,
		InDegreeCentrality:         n.Metrics.InDegreeCentrality,
		OutDegreeCentrality:        n.Metrics.OutDegreeCentrality,
		ClosenessCentrality:        n.Metrics.ClosenessCentrality,
		LocalClusteringCoefficient: n.Metrics.LocalClusteringCoefficient,
	}
}

// dataToNode drops the computed fields: metrics always start from zero.
func dataToNode(d NodeData) bpgraph.Node {
	return bpgraph.Node{
		ID:       d.ID,
		Label:    d.Name,
		Chrom:    d.Chrom,
		RefStart: d.RefStart,
		RefEnd:   d.RefEnd,
		Strand:   d.Strand,
		IsHead:   d.IsHead,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
