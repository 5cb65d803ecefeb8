// Package nodelink renders breakpoint graphs as node-link diagrams.
//
// # Overview
//
// Nodes are breakpoint endpoints and edges are structural-variant evidence.
// Head breakpoints are drawn as boxes and tail breakpoints as ellipses;
// reverse-strand breakpoints get a grey fill. Edge width grows with support
// (weight), and parallel edges are drawn individually.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include chromosome, coordinates and strand,
//     plus degree and centrality once the analysis passes have run
//   - EdgeLabels: edges are labelled with their evidence descriptor
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be rendered
// directly via [RenderSVG] or saved and processed with external Graphviz
// tools. The layout is left-to-right (rankdir=LR).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
