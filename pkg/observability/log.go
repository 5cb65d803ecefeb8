package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log lines.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, name string) {
	h.logger.Debug("load start", "graph", name)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, name string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "graph", name, "duration", d, "err", err)
		return
	}
	h.logger.Debug("loaded", "graph", name, "nodes", nodes, "edges", edges, "duration", d)
}

func (h *LogHooks) OnAnalyzeStart(_ context.Context, name string, nodes int) {
	h.logger.Debug("analyze start", "graph", name, "nodes", nodes)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, name string, diagnostics []string, d time.Duration) {
	h.logger.Debug("analyzed", "graph", name, "diagnostics", diagnostics, "duration", d)
}

func (h *LogHooks) OnSerializeComplete(_ context.Context, name string, size int, d time.Duration, err error) {
	h.logger.Debug("serialized", "graph", name, "bytes", size, "duration", d, "err", err)
}

func (h *LogHooks) OnCompareComplete(_ context.Context, nodesA, nodesB, distance int, d time.Duration, err error) {
	h.logger.Debug("compared", "nodes_a", nodesA, "nodes_b", nodesB, "distance", distance, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "id", requestID, "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
