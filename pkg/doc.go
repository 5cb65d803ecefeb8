// Package pkg provides the core libraries for brkgraph, a breakpoint-graph
// analysis engine for structural-variant callers.
//
// # Overview
//
// A breakpoint graph has one node per breakpoint endpoint (chromosome,
// reference interval, strand, head or tail) and one edge per piece of read
// evidence joining two endpoints. brkgraph loads such graphs from the
// cytoscape-style node-link JSON written by the caller, computes structural
// metrics and writes the annotated graph back in the same format.
//
// # Architecture
//
// The data flow through brkgraph:
//
//	node-link JSON document
//	         ↓
//	    [graph] package (strict decode, coded errors)
//	         ↓
//	    [core/bpgraph] package (arena multigraph)
//	         ↓
//	    [core/bpgraph/analysis] package (checks + metric passes)
//	         ↓
//	    [graph] package (annotated document)
//
// [pipeline] runs this flow with caching and bounded batch concurrency for
// both the CLI and the HTTP API.
//
// # Quick Start
//
// Annotate one document:
//
//	g, err := graph.ReadGraphFile("sample.json")
//	if err != nil {
//	    return err
//	}
//	report := pipeline.Analyze(g, pipeline.Options{})
//	if !report.Complete() {
//	    fmt.Println(report.DiagnosticKinds())
//	}
//	return graph.WriteGraphFile(g, graph.Options{}, "sample.analyzed.json")
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/bpgraph] - Directed multigraph of breakpoints with dense integer
// handles, adjacency lists and per-node metric storage.
//
// [core/bpgraph/analysis] - Weak connectivity, directed cycles, density,
// degree, degree centrality, closeness centrality, local clustering and
// diagnostic path enumeration.
//
// [core/bpgraph/ged] - Exact graph edit distance on stripped topologies.
//
// ## Serialization
//
// [graph] - The interchange document: types, strict loader, serializer.
//
// ## Visualization
//
// [render/nodelink] - Graphviz DOT and SVG node-link diagrams.
//
// ## Infrastructure
//
// [pipeline] - load → analyze → serialize, used by CLI and API.
//
// [cache] - Content-addressed result cache with file, Redis and null
// backends.
//
// [config] - TOML configuration.
//
// [errors] - Coded errors shared by the loader, pipeline and API.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [api] - HTTP front end.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/bpgraph/...       # Specific package
//	go test -run Example ./pkg/graph     # Examples only
//
// [core/bpgraph]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/core/bpgraph
// [core/bpgraph/analysis]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/core/bpgraph/analysis
// [core/bpgraph/ged]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/core/bpgraph/ged
// [graph]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/brkgraph/pkg/api
package pkg
