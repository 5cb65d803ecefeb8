package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
	"github.com/matzehuels/brkgraph/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *bpgraph.Graph, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, opts, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *bpgraph.Graph, opts Options, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, opts, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g *bpgraph.Graph, opts Options, w io.Writer) error {
	return writeGraphTo(g, opts, w)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*bpgraph.Graph, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}

// ReadGraph decodes an interchange document from an io.Reader into a graph.
//
// Errors carry one of these codes:
//   - INVALID_DOCUMENT: not JSON, or elements.nodes / elements.edges missing
//   - MISSING_FIELD: a required node or edge field is absent
//   - INVALID_FIELD: a field has the wrong JSON type, a negative or fractional
//     integer, or a strand other than "+" or "-"
//   - DUPLICATE_NODE: two nodes share an id
//   - UNKNOWN_NODE: an edge references an id that is not a node
func ReadGraph(r io.Reader) (*bpgraph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return UnmarshalGraph(data)
}

// UnmarshalGraph decodes JSON bytes into a graph. See [ReadGraph].
func UnmarshalGraph(data []byte) (*bpgraph.Graph, error) {
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return nil, err
	}
	return ToGraph(doc)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *bpgraph.Graph, opts Options, w io.Writer) error {
	out := FromGraph(g, opts)
	enc := json.NewEncoder(w)
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}
	enc.SetIndent("", indent)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
