package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/brkgraph/pkg/cache"
	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
	"github.com/matzehuels/brkgraph/pkg/errors"
	"github.com/matzehuels/brkgraph/pkg/graph"
	"github.com/matzehuels/brkgraph/pkg/observability"
	"github.com/matzehuels/brkgraph/pkg/pipeline"
)

func encode(t *testing.T, ids []string, edges [][2]string) []byte {
	t.Helper()
	g := bpgraph.New()
	for _, id := range ids {
		if _, err := g.AddNode(bpgraph.Node{ID: id, Label: id, Chrom: "chr1"}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		s, _ := g.Lookup(e[0])
		d, _ := g.Lookup(e[1])
		if _, err := g.AddEdge(bpgraph.Edge{Source: s, Target: d, Weight: 1}); err != nil {
			t.Fatal(err)
		}
	}
	data, err := graph.MarshalGraph(g, graph.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(&bytes.Buffer{})
	runner := pipeline.NewRunner(c, nil, logger)
	ts := httptest.NewServer(NewServer(runner, cfg, logger).Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts
}

func post(t *testing.T, url string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorBody {
	t.Helper()
	var body ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

var (
	chainIDs   = []string{"A", "B", "C"}
	chainEdges = [][2]string{{"A", "B"}, {"B", "C"}}
)

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t, Config{})
	const id = "0b7a8c1e-5f3d-4e2a-9c6b-1d2e3f4a5b6c"

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req.Header.Set(HeaderRequestID, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got == "not-a-uuid" || got == "" {
		t.Errorf("invalid request id should be replaced, got %q", got)
	}
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t, Config{})
	data := encode(t, chainIDs, chainEdges)

	resp := post(t, ts.URL+"/v1/analyze", data)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get(HeaderCache); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	var doc graph.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if got := doc.Elements.Nodes[0].Data.OutDegree; got != 1 {
		t.Errorf("A outdegree = %d, want 1", got)
	}

	resp = post(t, ts.URL+"/v1/analyze", data)
	if got := resp.Header.Get(HeaderCache); got != "hit" {
		t.Errorf("X-Cache = %q, want hit", got)
	}

	resp = post(t, ts.URL+"/v1/analyze?legacy_density_key=true", data)
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["desinty"]; !ok {
		t.Error("legacy density key missing")
	}
}

func TestAnalyzeDiagnostics(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := post(t, ts.URL+"/v1/analyze", encode(t, []string{"A", "B"}, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get(HeaderDiagnostics); got != pipeline.DiagnosticDisconnected {
		t.Errorf("X-Diagnostics = %q", got)
	}
}

func TestAnalyzeDOT(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := post(t, ts.URL+"/v1/analyze?format=dot", encode(t, chainIDs, chainEdges))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), `"A" -> "B"`) {
		t.Errorf("unexpected DOT:\n%s", buf.String())
	}
}

func TestAnalyzeErrors(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 1024})
	dup := `{"elements": {"nodes": [` +
		`{"data": {"id": "A", "name": "A", "chrom": "c", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": true}},` +
		`{"data": {"id": "A", "name": "A", "chrom": "c", "ref_start": 1, "ref_end": 2, "strand": "+", "is_head": true}}` +
		`], "edges": []}}`

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"NotJSON", "/v1/analyze", `{nope`, http.StatusBadRequest, errors.ErrCodeInvalidDocument},
		{"Duplicate", "/v1/analyze", dup, http.StatusBadRequest, errors.ErrCodeDuplicateNode},
		{"Empty", "/v1/analyze", ``, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"BadFormat", "/v1/analyze?format=png", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"BadBool", "/v1/analyze?allow_cyclic=maybe", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"BadName", "/v1/report?name=..", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidName},
		{"TooLarge", "/v1/analyze", strings.Repeat(" ", 2048), http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, []byte(tt.body))
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decodeError(t, resp).Error.Code; got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestReport(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := post(t, ts.URL+"/v1/report?name=chain", encode(t, chainIDs, chainEdges))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var res pipeline.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Name != "chain" || res.Report.Summary.Nodes != 3 || !res.Report.Complete() {
		t.Errorf("result = %+v", res)
	}
	if len(res.Report.Passes) != 4 {
		t.Errorf("passes = %v", res.Report.Passes)
	}
}

func TestCompare(t *testing.T) {
	ts := newTestServer(t, Config{MaxNodes: 3})
	chain := encode(t, chainIDs, chainEdges)

	body, _ := json.Marshal(CompareRequest{A: chain, B: encode(t, []string{"A"}, nil)})
	resp := post(t, ts.URL+"/v1/compare", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out CompareResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Distance != 3 || out.MaxNodes != 3 {
		t.Errorf("response = %+v", out)
	}

	body, _ = json.Marshal(CompareRequest{A: chain, B: encode(t, []string{"A", "B", "C", "D"}, nil)})
	resp = post(t, ts.URL+"/v1/compare", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if got := decodeError(t, resp).Error.Code; got != errors.ErrCodeGraphTooLarge {
		t.Errorf("code = %s", got)
	}

	resp = post(t, ts.URL+"/v1/compare", []byte(`{"a": {}}`))
	if got := decodeError(t, resp).Error.Code; got != errors.ErrCodeMissingField {
		t.Errorf("code = %s, want MISSING_FIELD", got)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	post(t, ts.URL+"/v1/analyze", []byte(`{nope`))

	// OnResponse fires after the body is flushed to the client.
	var got []int
	for deadline := time.Now().Add(2 * time.Second); time.Now().Before(deadline); time.Sleep(10 * time.Millisecond) {
		hooks.mu.Lock()
		got = append(got[:0], hooks.statuses...)
		hooks.mu.Unlock()
		if len(got) == 2 {
			break
		}
	}
	slices.Sort(got)
	if diff := cmp.Diff([]int{http.StatusOK, http.StatusBadRequest}, got); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}
