// Package pipeline runs the load → analyze → serialize pipeline for
// breakpoint graphs.
//
// This package is shared by the CLI and the HTTP API so that both apply the
// same checks, passes and caching.
//
// # Architecture
//
// Each graph goes through three stages:
//
//  1. Load: strict decode of the interchange document (pkg/graph)
//  2. Analyze: connectivity and cyclicity checks, then the metric passes
//  3. Serialize: annotated interchange document
//
// A graph that is not weakly connected, or that contains a directed cycle,
// gets a [Diagnostic] instead of metrics. It is still serialized, with every
// computed field at zero, so batch output always has one document per input.
//
// # Usage
//
// Analyze a single document:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.AnalyzeBytes(ctx, "sample", data, pipeline.Options{})
//	os.Stdout.Write(res.Output)
//
// Analyze every document in a directory, a bounded number at a time:
//
//	results, err := runner.AnalyzeDir(ctx, "graphs/", pipeline.Options{Workers: 4})
//	for _, res := range results {
//	    if res.Err != nil {
//	        // this one graph failed to load; siblings are unaffected
//	    }
//	}
//
// Run the analysis stage alone on an in-memory graph:
//
//	report := pipeline.Analyze(g, pipeline.Options{})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
	"github.com/matzehuels/brkgraph/pkg/core/bpgraph/analysis"
	"github.com/matzehuels/brkgraph/pkg/graph"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultWorkers is the number of graphs analysed concurrently in a batch.
const DefaultWorkers = 2

// Format constants for rendered outputs.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// LegacyDensityKey also writes the density under "desinty".
	LegacyDensityKey bool `json:"legacy_density_key,omitempty"`

	// AllowCyclic runs the metric passes on graphs with a directed cycle
	// instead of stopping at the cyclicity check.
	AllowCyclic bool `json:"allow_cyclic,omitempty"`

	// Indent is the JSON indentation of the output. Defaults to two spaces.
	Indent string `json:"-"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Workers bounds batch concurrency. Defaults to [DefaultWorkers].
	Workers int `json:"-"`

	// Logger receives pass-level warnings. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o Options) graphOptions() graph.Options {
	return graph.Options{LegacyDensityKey: o.LegacyDensityKey, Indent: o.Indent}
}

// =============================================================================
// Report
// =============================================================================

// Diagnostic kinds.
const (
	DiagnosticDisconnected = "disconnected"
	DiagnosticCyclic       = "cyclic"
)

// Diagnostic records a failed precondition that stopped the metric passes.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Pass names, in the order they run.
const (
	PassNodeDegree       = "node_degree"
	PassDegreeCentrality = "degree_centrality"
	PassCloseness        = "closeness_centrality"
	PassClustering       = "local_clustering_coefficient"
)

// Report describes what the analysis stage found and did for one graph.
type Report struct {
	Summary     analysis.Summary `json:"summary"`
	Diagnostics []Diagnostic     `json:"diagnostics,omitempty"`
	Passes      []string         `json:"passes"`
}

// Complete reports whether every metric pass ran.
func (r Report) Complete() bool { return len(r.Diagnostics) == 0 }

// DiagnosticKinds lists the kinds of all diagnostics.
func (r Report) DiagnosticKinds() []string {
	kinds := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		kinds[i] = d.Kind
	}
	return kinds
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int           `json:"nodes"`
	EdgeCount     int           `json:"edges"`
	LoadTime      time.Duration `json:"load_ns"`
	AnalyzeTime   time.Duration `json:"analyze_ns"`
	SerializeTime time.Duration `json:"serialize_ns"`
}

// =============================================================================
// Analyze
// =============================================================================

// Analyze runs the connectivity and cyclicity checks and then, if both pass,
// every metric pass in order. Node metrics are reset first so that the
// result depends only on the graph's structure.
func Analyze(g *bpgraph.Graph, opts Options) Report {
	opts.SetDefaults()
	g.ResetMetrics()

	report := Report{Summary: analysis.Summarize(g), Passes: []string{}}

	if !report.Summary.Connected {
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Kind:    DiagnosticDisconnected,
			Message: "graph is not weakly connected; metric passes skipped",
		})
		opts.Logger.Warn("graph is not weakly connected, skipping analysis",
			"nodes", report.Summary.Nodes, "edges", report.Summary.Edges)
		return report
	}
	if report.Summary.Cyclic && !opts.AllowCyclic {
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Kind:    DiagnosticCyclic,
			Message: "graph contains a directed cycle; metric passes skipped",
		})
		opts.Logger.Warn("graph is cyclic, skipping analysis",
			"nodes", report.Summary.Nodes, "edges", report.Summary.Edges)
		return report
	}

	analysis.NodeDegree(g)
	analysis.DegreeCentrality(g)
	report.Passes = append(report.Passes, PassNodeDegree, PassDegreeCentrality)

	if analysis.ClosenessCentrality(g, opts.Logger) {
		report.Passes = append(report.Passes, PassCloseness)
	}

	analysis.LocalClusteringCoefficient(g)
	report.Passes = append(report.Passes, PassClustering)
	return report
}
