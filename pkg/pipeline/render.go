package pipeline

import (
	"context"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
	"github.com/matzehuels/brkgraph/pkg/errors"
	"github.com/matzehuels/brkgraph/pkg/graph"
	"github.com/matzehuels/brkgraph/pkg/render/nodelink"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	Options

	// Detailed adds coordinates and metrics to node labels.
	Detailed bool

	// EdgeLabels writes evidence labels on edges.
	EdgeLabels bool
}

// Render analyses g and produces it in the requested format. The JSON
// format is the annotated interchange document; DOT and SVG are node-link
// diagrams.
func Render(ctx context.Context, g *bpgraph.Graph, format string, opts RenderOptions) ([]byte, Report, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, Report{}, errors.Wrap(errors.ErrCodeUnsupported, err, "render")
	}
	report := Analyze(g, opts.Options)

	switch format {
	case FormatJSON:
		data, err := graph.MarshalGraph(g, opts.graphOptions())
		if err != nil {
			return nil, report, errors.Wrap(errors.ErrCodeInternal, err, "render json")
		}
		return data, report, nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, EdgeLabels: opts.EdgeLabels})), report, nil
	default:
		dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, EdgeLabels: opts.EdgeLabels})
		data, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, report, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		return data, report, nil
	}
}
