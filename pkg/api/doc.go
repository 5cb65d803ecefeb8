// Package api serves the analysis pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz       liveness and build information
//	POST /v1/analyze    annotate one interchange document
//	POST /v1/report     analysis report and statistics for one document
//	POST /v1/compare    graph edit distance between two documents
//
// /v1/analyze accepts the query parameters format (json, dot or svg),
// legacy_density_key, allow_cyclic and refresh. The response body is the
// rendered graph; the X-Cache header reports "hit" or "miss" and
// X-Diagnostics lists any failed preconditions.
//
// # Errors
//
// Failures are returned as
//
//	{"error": {"code": "DUPLICATE_NODE", "message": "..."}}
//
// Input errors map to 400, GRAPH_TOO_LARGE to 422, oversized bodies to 413
// and everything else to 500.
//
// Every response carries an X-Request-ID header. Requests and responses are
// reported through [observability.HTTP].
package api
