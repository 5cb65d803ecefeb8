package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph/ged"
	"github.com/matzehuels/brkgraph/pkg/pipeline"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxBodyBytes caps request bodies.
	DefaultMaxBodyBytes = 32 << 20

	// DefaultRequestTimeout bounds the time spent on one request.
	DefaultRequestTimeout = 60 * time.Second
)

// Config configures a [Server].
type Config struct {
	// MaxNodes is the node budget for /v1/compare. Zero means
	// [ged.DefaultMaxNodes]; a negative value disables the budget.
	MaxNodes int

	// MaxBodyBytes caps request bodies. Defaults to [DefaultMaxBodyBytes].
	MaxBodyBytes int64

	// Timeout bounds each request. Defaults to [DefaultRequestTimeout].
	Timeout time.Duration

	// Options are the base pipeline options; query parameters override them.
	Options pipeline.Options
}

func (c *Config) setDefaults() {
	if c.MaxNodes == 0 {
		c.MaxNodes = ged.DefaultMaxNodes
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultRequestTimeout
	}
}

// Server is the HTTP front end of a [pipeline.Runner].
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
}

// NewServer creates a server around runner. A nil logger uses the runner's.
func NewServer(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, cfg: cfg, logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/report", s.handleReport)
		r.Post("/compare", s.handleCompare)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
