package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/brkgraph/pkg/cache"
	"github.com/matzehuels/brkgraph/pkg/core/bpgraph/ged"
	"github.com/matzehuels/brkgraph/pkg/errors"
	"github.com/matzehuels/brkgraph/pkg/graph"
	"github.com/matzehuels/brkgraph/pkg/observability"
)

// OutputSuffix is appended to an input's base name to form its output file
// name. Files with this suffix are skipped by [Runner.AnalyzeDir].
const OutputSuffix = ".analyzed.json"

// Result is the outcome of running the pipeline on one graph.
type Result struct {
	// Name identifies the graph, usually the input file's base name.
	Name string `json:"name"`

	// Output is the annotated interchange document.
	Output []byte `json:"-"`

	Report   Report `json:"report"`
	Stats    Stats  `json:"stats"`
	CacheHit bool   `json:"cache_hit"`

	// Err is set by [Runner.AnalyzeDir] when this graph failed. Single-graph
	// methods return the error instead.
	Err error `json:"-"`
}

// cachedResult is what an analysis cache entry holds.
type cachedResult struct {
	Report Report `json:"report"`
	Output []byte `json:"output"`
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching and hooks behave the same.
//
// A Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides [cache.TTLAnalysis] for analysis entries when > 0.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the underlying cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// =============================================================================
// Single graph
// =============================================================================

// AnalyzeBytes runs load → analyze → serialize on one document. Load errors
// carry the codes of pkg/errors; a graph that fails a precondition is not an
// error and is reported through [Report.Diagnostics].
func (r *Runner) AnalyzeBytes(ctx context.Context, name string, data []byte, opts Options) (*Result, error) {
	if err := errors.ValidateGraphName(name); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	result := &Result{Name: name}

	key := r.Keyer.AnalysisKey(cache.Hash(data), cache.AnalysisKeyOpts{
		LegacyDensityKey: opts.LegacyDensityKey,
		AllowCyclic:      opts.AllowCyclic,
		Indent:           opts.Indent,
	})
	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key); ok {
			result.Output = cached.Output
			result.Report = cached.Report
			result.Stats.NodeCount = cached.Report.Summary.Nodes
			result.Stats.EdgeCount = cached.Report.Summary.Edges
			result.CacheHit = true
			return result, nil
		}
	}

	// Stage 1: Load
	hooks.OnLoadStart(ctx, name)
	loadStart := time.Now()
	g, err := graph.UnmarshalGraph(data)
	result.Stats.LoadTime = time.Since(loadStart)
	if err != nil {
		hooks.OnLoadComplete(ctx, name, 0, 0, result.Stats.LoadTime, err)
		return nil, err
	}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	hooks.OnLoadComplete(ctx, name, g.NodeCount(), g.EdgeCount(), result.Stats.LoadTime, nil)

	// Stage 2: Analyze
	hooks.OnAnalyzeStart(ctx, name, g.NodeCount())
	analyzeStart := time.Now()
	result.Report = Analyze(g, opts)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	hooks.OnAnalyzeComplete(ctx, name, result.Report.DiagnosticKinds(), result.Stats.AnalyzeTime)

	// Stage 3: Serialize
	serializeStart := time.Now()
	result.Output, err = graph.MarshalGraph(g, opts.graphOptions())
	result.Stats.SerializeTime = time.Since(serializeStart)
	hooks.OnSerializeComplete(ctx, name, len(result.Output), result.Stats.SerializeTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize %s", name)
	}

	r.store(ctx, key, cachedResult{Report: result.Report, Output: result.Output})
	return result, nil
}

// AnalyzeFile reads path and runs [Runner.AnalyzeBytes] under the file's base
// name.
func (r *Runner) AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return r.AnalyzeBytes(ctx, filepath.Base(path), data, opts)
}

// =============================================================================
// Batch
// =============================================================================

// ListInputs returns the .json files directly inside dir, sorted by name,
// excluding files written by a previous run.
func ListInputs(dir string) ([]string, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read directory %s", dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read directory %s", dir)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, OutputSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	slices.Sort(paths)
	return paths, nil
}

// AnalyzeFiles analyses every path with at most opts.Workers in flight.
// Results are returned in input order. A graph that fails to load records
// its error in [Result.Err] and does not affect the others. The returned
// error is non-nil only when ctx is cancelled, in which case no results are
// returned.
func (r *Runner) AnalyzeFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	r.applyLogger(&opts)
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID)
	logger.Info("starting batch", "graphs", len(paths), "workers", opts.Workers)
	start := time.Now()

	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			graphOpts := opts
			graphOpts.Logger = opts.Logger.With("graph", filepath.Base(path))
			res, err := r.AnalyzeFile(gctx, path, graphOpts)
			if err != nil {
				logger.Error("graph failed", "graph", filepath.Base(path), "error", err)
				res = &Result{Name: filepath.Base(path), Err: err}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	logger.Info("batch complete", "graphs", len(paths), "failed", failed, "duration", time.Since(start))
	return results, nil
}

// AnalyzeDir runs [Runner.AnalyzeFiles] over [ListInputs] of dir.
func (r *Runner) AnalyzeDir(ctx context.Context, dir string, opts Options) ([]*Result, error) {
	paths, err := ListInputs(dir)
	if err != nil {
		return nil, err
	}
	return r.AnalyzeFiles(ctx, paths, opts)
}

// =============================================================================
// Compare
// =============================================================================

// Compare loads two documents and returns their graph edit distance. Inputs
// above maxNodes fail with GRAPH_TOO_LARGE; maxNodes <= 0 disables the check.
// OnCompareComplete fires for cached and computed distances alike.
func (r *Runner) Compare(ctx context.Context, a, b []byte, maxNodes int) (int, error) {
	start := time.Now()
	ga, err := graph.UnmarshalGraph(a)
	if err != nil {
		return 0, errors.Wrap(errors.GetCode(err), err, "first graph")
	}
	gb, err := graph.UnmarshalGraph(b)
	if err != nil {
		return 0, errors.Wrap(errors.GetCode(err), err, "second graph")
	}
	if err := ged.CheckLimit(ga.NodeCount(), gb.NodeCount(), maxNodes); err != nil {
		observability.Pipeline().OnCompareComplete(ctx, ga.NodeCount(), gb.NodeCount(), 0, time.Since(start), err)
		return 0, errors.Wrap(errors.ErrCodeGraphTooLarge, err, "compare")
	}

	key := r.Keyer.CompareKey(cache.Hash(a), cache.Hash(b))
	if data, ok := r.get(ctx, "compare", key); ok {
		if d, err := strconv.Atoi(string(data)); err == nil {
			observability.Pipeline().OnCompareComplete(ctx, ga.NodeCount(), gb.NodeCount(), d, time.Since(start), nil)
			return d, nil
		}
	}

	d, err := ged.DistanceLimit(ga.Topology(), gb.Topology(), maxNodes)
	observability.Pipeline().OnCompareComplete(ctx, ga.NodeCount(), gb.NodeCount(), d, time.Since(start), err)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeGraphTooLarge, err, "compare")
	}

	data := []byte(strconv.Itoa(d))
	if err := r.Cache.Set(ctx, key, data, cache.TTLComparison); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "compare", len(data))
	}
	return d, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
}

func (r *Runner) get(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

func (r *Runner) lookup(ctx context.Context, key string) (cachedResult, bool) {
	data, ok := r.get(ctx, "analysis", key)
	if !ok {
		return cachedResult{}, false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil || len(cached.Output) == 0 {
		return cachedResult{}, false
	}
	return cached, true
}

func (r *Runner) store(ctx context.Context, key string, v cachedResult) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLAnalysis
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "analysis", len(data))
}
