package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/brkgraph/pkg/buildinfo"
	"github.com/matzehuels/brkgraph/pkg/errors"
	"github.com/matzehuels/brkgraph/pkg/graph"
	"github.com/matzehuels/brkgraph/pkg/pipeline"
)

// Response headers set by /v1/analyze.
const (
	HeaderCache       = "X-Cache"
	HeaderDiagnostics = "X-Diagnostics"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter format"))
		return
	}
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		out    []byte
		report pipeline.Report
	)
	if format == pipeline.FormatJSON {
		res, err := s.runner.AnalyzeBytes(r.Context(), requestName(r), data, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out, report = res.Output, res.Report
		w.Header().Set(HeaderCache, cacheStatus(res.CacheHit))
	} else {
		g, err := graph.UnmarshalGraph(data)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out, report, err = pipeline.Render(r.Context(), g, format, pipeline.RenderOptions{
			Options:  opts,
			Detailed: queryBool(r, "detailed"),
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if kinds := report.DiagnosticKinds(); len(kinds) > 0 {
		w.Header().Set(HeaderDiagnostics, strings.Join(kinds, ","))
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.AnalyzeBytes(r.Context(), requestName(r), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CompareRequest is the body of /v1/compare.
type CompareRequest struct {
	A json.RawMessage `json:"a"`
	B json.RawMessage `json:"b"`
}

// CompareResponse is the result of /v1/compare.
type CompareResponse struct {
	Distance int `json:"distance"`
	MaxNodes int `json:"max_nodes"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req CompareRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body is not a JSON object"))
		return
	}
	for name, doc := range map[string]json.RawMessage{"a": req.A, "b": req.B} {
		if len(doc) == 0 || string(doc) == "null" {
			s.writeError(w, r, errors.New(errors.ErrCodeMissingField, "missing field %q", name))
			return
		}
	}

	d, err := s.runner.Compare(r.Context(), req.A, req.B, s.cfg.MaxNodes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{Distance: d, MaxNodes: s.cfg.MaxNodes})
}

// =============================================================================
// Request Helpers
// =============================================================================

// options overlays boolean query parameters on the configured options.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Options
	q := r.URL.Query()
	for name, dst := range map[string]*bool{
		"legacy_density_key": &opts.LegacyDensityKey,
		"allow_cyclic":       &opts.AllowCyclic,
		"refresh":            &opts.Refresh,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
		}
		*dst = b
	}
	return opts, nil
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

func requestName(r *http.Request) string {
	if name := r.URL.Query().Get("name"); name != "" {
		return name
	}
	return "request-" + RequestIDFromContext(r.Context())
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}
	return data, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Responses
// =============================================================================

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the code and message of an error response.
type ErrorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)

	var tooBig *http.MaxBytesError
	if stderrors.As(err, &tooBig) {
		code = errors.ErrCodeInvalidInput
		msg = "request body too large"
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestIDFromContext(r.Context()), "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
}

func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errors.ErrCodeGraphTooLarge):
		return http.StatusUnprocessableEntity
	case errors.IsInputError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
