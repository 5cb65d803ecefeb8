package graph

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
	"github.com/matzehuels/brkgraph/pkg/errors"
)

// record is one node or edge "data" object, decoded lazily field by field
// so that a missing or mistyped field can be reported by name.
type record struct {
	kind   string // "node" or "edge"
	index  int
	id     string
	fields map[string]json.RawMessage
}

func decodeDocument(data json.RawMessage) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document is not a JSON object")
	}

	elemRaw, ok := top["elements"]
	if !ok || isNull(elemRaw) {
		return Document{}, errors.New(errors.ErrCodeInvalidDocument, "missing elements")
	}
	var elements map[string]json.RawMessage
	if err := json.Unmarshal(elemRaw, &elements); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "elements is not an object")
	}

	nodes, err := decodeList(elements, "nodes")
	if err != nil {
		return Document{}, err
	}
	edges, err := decodeList(elements, "edges")
	if err != nil {
		return Document{}, err
	}

	var doc Document
	doc.Elements.Nodes = make([]NodeEntry, 0, len(nodes))
	doc.Elements.Edges = make([]EdgeEntry, 0, len(edges))

	for i, raw := range nodes {
		r, err := openRecord("node", i, raw)
		if err != nil {
			return Document{}, err
		}
		d, err := r.node()
		if err != nil {
			return Document{}, err
		}
		doc.Elements.Nodes = append(doc.Elements.Nodes, NodeEntry{Data: d})
	}
	for i, raw := range edges {
		r, err := openRecord("edge", i, raw)
		if err != nil {
			return Document{}, err
		}
		d, err := r.edge()
		if err != nil {
			return Document{}, err
		}
		doc.Elements.Edges = append(doc.Elements.Edges, EdgeEntry{Data: d})
	}
	return doc, nil
}

func decodeList(elements map[string]json.RawMessage, name string) ([]json.RawMessage, error) {
	raw, ok := elements[name]
	if !ok || isNull(raw) {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "missing elements.%s", name)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "elements.%s is not an array", name)
	}
	return list, nil
}

func openRecord(kind string, index int, raw json.RawMessage) (*record, error) {
	r := &record{kind: kind, index: index}

	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidField, err, "%s is not an object", r)
	}
	data, ok := entry["data"]
	if !ok || isNull(data) {
		return nil, errors.New(errors.ErrCodeMissingField, "%s: missing field %q", r, "data")
	}
	if err := json.Unmarshal(data, &r.fields); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidField, err, "%s: field %q is not an object", r, "data")
	}
	return r, nil
}

func (r *record) String() string {
	if r.id != "" {
		return fmt.Sprintf("%s %d (%q)", r.kind, r.index, r.id)
	}
	return fmt.Sprintf("%s %d", r.kind, r.index)
}

func (r *record) node() (NodeData, error) {
	var (
		d      NodeData
		strand string
		err    error
	)
	if d.ID, err = r.str("id"); err != nil {
		return d, err
	}
	r.id = d.ID

	if d.Name, err = r.str("name"); err != nil {
		return d, err
	}
	if d.Chrom, err = r.str("chrom"); err != nil {
		return d, err
	}
	if d.RefStart, err = r.uint("ref_start"); err != nil {
		return d, err
	}
	if d.RefEnd, err = r.uint("ref_end"); err != nil {
		return d, err
	}
	if strand, err = r.str("strand"); err != nil {
		return d, err
	}
	if d.Strand, err = bpgraph.ParseStrand(strand); err != nil {
		return d, errors.Wrap(errors.ErrCodeInvalidField, err, "%s: field %q", r, "strand")
	}
	if d.IsHead, err = r.boolean("is_head"); err != nil {
		return d, err
	}
	return d, nil
}

func (r *record) edge() (EdgeData, error) {
	var (
		d   EdgeData
		err error
	)
	if d.Label, err = r.str("label"); err != nil {
		return d, err
	}
	if d.Weight, err = r.uint("weight"); err != nil {
		return d, err
	}
	if d.ReadIDs, err = r.strings("read_ids"); err != nil {
		return d, err
	}
	if d.Source, err = r.str("source"); err != nil {
		return d, err
	}
	if d.Target, err = r.str("target"); err != nil {
		return d, err
	}
	return d, nil
}

// field returns the raw value of a required field. JSON null counts as
// present but mistyped.
func (r *record) field(name, want string) (json.RawMessage, error) {
	raw, ok := r.fields[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingField, "%s: missing field %q", r, name)
	}
	if isNull(raw) {
		return nil, errors.New(errors.ErrCodeInvalidField, "%s: field %q is null, want %s", r, name, want)
	}
	return raw, nil
}

func (r *record) decode(name, want string, v any) error {
	raw, err := r.field(name, want)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidField, err, "%s: field %q, want %s", r, name, want)
	}
	return nil
}

func (r *record) str(name string) (string, error) {
	var s string
	err := r.decode(name, "string", &s)
	return s, err
}

func (r *record) uint(name string) (uint64, error) {
	var n uint64
	err := r.decode(name, "non-negative integer", &n)
	return n, err
}

func (r *record) boolean(name string) (bool, error) {
	var b bool
	err := r.decode(name, "boolean", &b)
	return b, err
}

func (r *record) strings(name string) ([]string, error) {
	var items []json.RawMessage
	if err := r.decode(name, "array of strings", &items); err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		if isNull(item) {
			return nil, errors.New(errors.ErrCodeInvalidField, "%s: field %q[%d] is null, want string", r, name, i)
		}
		if err := json.Unmarshal(item, &out[i]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidField, err, "%s: field %q[%d], want string", r, name, i)
		}
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// =============================================================================
// Graph construction errors
// =============================================================================

func nodeError(index int, id string, err error) error {
	switch {
	case stderrors.Is(err, bpgraph.ErrDuplicateNodeID):
		return errors.Wrap(errors.ErrCodeDuplicateNode, err, "node %d: id %q already defined", index, id)
	case stderrors.Is(err, bpgraph.ErrInvalidNodeID):
		return errors.Wrap(errors.ErrCodeInvalidField, err, "node %d: field %q", index, "id")
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "node %d", index)
}

func addEdge(g *bpgraph.Graph, index int, d EdgeData) error {
	src, ok := g.Lookup(d.Source)
	if !ok {
		return errors.New(errors.ErrCodeUnknownNode, "edge %d: source %q is not a node", index, d.Source)
	}
	dst, ok := g.Lookup(d.Target)
	if !ok {
		return errors.New(errors.ErrCodeUnknownNode, "edge %d: target %q is not a node", index, d.Target)
	}
	_, err := g.AddEdge(bpgraph.Edge{
		Label:   d.Label,
		Weight:  d.Weight,
		ReadIDs: d.ReadIDs,
		Source:  src,
		Target:  dst,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "edge %d", index)
	}
	return nil
}
