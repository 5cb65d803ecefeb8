package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes coordinates and computed metrics in node labels.
	// When false, only the node ID is shown.
	Detailed bool

	// EdgeLabels writes each edge's evidence label next to it.
	EdgeLabels bool
}

// ToDOT converts a breakpoint graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *bpgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=14, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtNodeAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := fmtEdgeAttrs(e, opts.EdgeLabels)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", g.Node(e.Source).ID, g.Node(e.Target).ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n bpgraph.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{
		fmt.Sprintf("%s:%d-%d (%s)", n.Chrom, n.RefStart, n.RefEnd, n.Strand),
	}
	if m := n.Metrics; m != (bpgraph.Metrics{}) {
		parts = append(parts,
			fmt.Sprintf("in: %d  out: %d", m.InDegree, m.OutDegree),
			fmt.Sprintf("closeness: %.3f", m.ClosenessCentrality),
			fmt.Sprintf("clustering: %.3f", m.LocalClusteringCoefficient),
		)
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtNodeAttrs(n bpgraph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsHead {
		attrs = append(attrs, "shape=box")
	} else {
		attrs = append(attrs, "shape=ellipse")
	}
	if n.Strand.IsReverse() {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

func fmtEdgeAttrs(e bpgraph.Edge, labels bool) []string {
	attrs := []string{fmt.Sprintf("penwidth=%.2f", penWidth(e.Weight))}
	if labels && e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	return attrs
}

// penWidth scales logarithmically so that heavily supported edges stay readable.
func penWidth(weight uint64) float64 {
	return 1 + math.Log2(float64(max(weight, 1)))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based <svg> header with a
// unitless one so the diagram scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
