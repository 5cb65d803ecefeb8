// Package graph reads and writes breakpoint graphs in the JSON interchange
// format.
//
// This package sits at the I/O boundary of the analysis engine:
//
//   - [Document]: the wire type (this package)
//   - pkg/core/bpgraph.Graph: the in-memory arena graph
//
// Use [ToGraph]/[FromGraph] to convert between them, or the Read/Write
// helpers to go straight from bytes to a graph and back.
//
// # Format
//
// The document is a node-link envelope with cytoscape-style elements:
//
//	{
//	  "density": 1.0,
//	  "data": [],
//	  "directed": true,
//	  "multigraph": true,
//	  "elements": {
//	    "nodes": [{"data": {"id": "chr1_100_200_H+", "name": "chr1_100_200_H+",
//	                        "chrom": "chr1", "ref_start": 100, "ref_end": 200,
//	                        "strand": "+", "is_head": true}}],
//	    "edges": [{"data": {"label": "TRA_1", "weight": 1, "read_ids": ["r1"],
//	                        "source": "chr1_100_200_H+", "target": "chr2_5_9_T-"}}]
//	  }
//	}
//
// On input only elements.nodes and elements.edges are read, and within each
// "data" object every field shown above is required. Unknown fields, such as
// "value" or "key" from the producer or metrics from a previous run, are
// ignored. On output each node additionally carries indegree, outdegree,
// in_degree_centrality, out_degree_centrality, closeness_centrality and
// local_clustering_coefficient, and each edge carries "key", its ordinal
// among parallel edges between the same pair of nodes.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("sample.json")               // File → Graph
//	graph.WriteGraphFile(g, graph.Options{}, "out.json")     // Graph → File
//	data, _ := graph.MarshalGraph(g, graph.Options{})        // Graph → []byte
//	doc, _ := graph.UnmarshalDocument(data)                  // []byte → Document
//
// # Density key
//
// Older producers wrote the graph density under the misspelled key
// "desinty". Set [Options].LegacyDensityKey to emit it alongside "density".
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct graphs.
package graph
