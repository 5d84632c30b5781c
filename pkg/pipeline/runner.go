package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/observability"
	"github.com/matzehuels/taxotree/pkg/render"
	"github.com/matzehuels/taxotree/pkg/render/treegraph"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Cache stage names, used as hook labels.
const (
	stageTree     = "tree"
	stageLayout   = "layout"
	stageArtifact = "artifact"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state apart from the Graphviz engine, which
// serialises its own use; one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	gv *treegraph.Renderer
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// the DefaultKeyer, and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Init creates the Graphviz engine used for tree graph output. Runs that only
// need collapsible or JSON output work without it.
func (r *Runner) Init(ctx context.Context) error {
	if r.gv != nil {
		return nil
	}
	gv := treegraph.NewRenderer()
	if err := gv.Init(ctx); err != nil {
		return err
	}
	r.gv = gv
	return nil
}

// Close releases the Graphviz engine and the cache.
func (r *Runner) Close() error {
	var gvErr error
	if r.gv != nil {
		gvErr = r.gv.Close()
		r.gv = nil
	}
	if err := r.Cache.Close(); err != nil {
		return err
	}
	return gvErr
}

// Execute runs build, layout and render.
func (r *Runner) Execute(ctx context.Context, rows []taxonomy.Row, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)
	result := &Result{Stats: Stats{RowCount: len(rows)}}

	start := time.Now()
	h, rowsHash, hit, err := r.BuildWithCacheInfo(ctx, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Hierarchy = h
	result.RowsHash = rowsHash
	result.Stats.BuildTime = time.Since(start)
	result.Stats.NodeCount = len(h.Edges.Nodes)
	result.Stats.EdgeCount = len(h.Edges.Edges)
	result.CacheInfo.BuildHit = hit
	logger.Info("built hierarchy",
		"rows", len(rows),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.BuildTime)
	if n := len(h.Edges.Ambiguous); n > 0 {
		logger.Warn("labels under more than one parent", "count", n)
	}

	start = time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, h, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	logger.Info("computed layout",
		"type", l.Type,
		"visible", l.NodeCount(),
		"duration", result.Stats.LayoutTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo runs the build stage and reports the rows hash and
// whether the result came from the cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, rows []taxonomy.Row, opts Options) (*Hierarchy, string, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, "", false, err
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(rows))
	start := time.Now()

	rowsHash, hashErr := cache.HashJSON(rows)
	key := ""
	if hashErr == nil {
		key = r.Keyer.TreeKey(rowsHash, opts.TreeKeyOpts())
		if !opts.Refresh {
			var h Hierarchy
			if r.lookupJSON(ctx, stageTree, key, &h) && h.Edges != nil && h.Tree != nil {
				hooks.OnBuildComplete(ctx, len(h.Edges.Nodes), len(h.Edges.Edges), time.Since(start), nil)
				return &h, rowsHash, true, nil
			}
		}
	} else {
		r.logger(opts).Debug("rows not hashable, skipping cache", "err", hashErr)
	}

	h, err := Build(rows, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, rowsHash, false, err
	}
	hooks.OnBuildComplete(ctx, len(h.Edges.Nodes), len(h.Edges.Edges), time.Since(start), nil)
	if key != "" {
		r.storeJSON(ctx, stageTree, key, h, opts.TTL)
	}
	return h, rowsHash, false, nil
}

// LayoutWithCacheInfo runs the layout stage and reports whether the result
// came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, h *Hierarchy, opts Options) (Layout, bool, error) {
	if err := opts.Validate(); err != nil {
		return Layout{}, false, err
	}
	hooks := observability.Pipeline()
	vizType := string(opts.VizType)
	hooks.OnLayoutStart(ctx, vizType, len(h.Edges.Nodes))
	start := time.Now()

	key := ""
	if hHash, err := cache.HashJSON(h); err == nil {
		key = r.Keyer.LayoutKey(hHash, opts.LayoutKeyOpts())
		if !opts.Refresh {
			var l Layout
			if r.lookupJSON(ctx, stageLayout, key, &l) && l.Type == opts.VizType {
				hooks.OnLayoutComplete(ctx, vizType, time.Since(start), nil)
				return l, true, nil
			}
		}
	}

	l, err := GenerateLayout(h, opts)
	hooks.OnLayoutComplete(ctx, vizType, time.Since(start), err)
	if err != nil {
		return Layout{}, false, err
	}
	if key != "" {
		r.storeJSON(ctx, stageLayout, key, l, opts.TTL)
	}
	return l, false, nil
}

// RenderWithCacheInfo renders every requested format and reports whether all
// of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l Layout, opts Options) (map[render.Format][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	var missing []render.Format
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, ok := r.lookup(ctx, stageArtifact, key); ok {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	partial := opts
	partial.Formats = missing
	for _, format := range missing {
		hooks.OnRenderStart(ctx, string(l.Type), string(format))
	}
	start := time.Now()
	rendered, err := RenderLayout(ctx, r.gv, l, partial)
	elapsed := time.Since(start)
	if err != nil {
		for _, format := range missing {
			hooks.OnRenderComplete(ctx, string(l.Type), string(format), 0, elapsed, err)
		}
		return nil, false, err
	}
	for format, data := range rendered {
		hooks.OnRenderComplete(ctx, string(l.Type), string(format), len(data), elapsed, nil)
		r.store(ctx, stageArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, opts.TTL)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// lookup reads a cache entry. Backend failures count as misses.
func (r *Runner) lookup(ctx context.Context, stage, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		hooks.OnCacheError(ctx, stage, err)
		r.Logger.Warn("cache read failed", "stage", stage, "err", err)
		return nil, false
	case hit:
		hooks.OnCacheHit(ctx, stage)
		return data, true
	default:
		hooks.OnCacheMiss(ctx, stage)
		return nil, false
	}
}

func (r *Runner) lookupJSON(ctx context.Context, stage, key string, v any) bool {
	data, ok := r.lookup(ctx, stage, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "stage", stage, "err", err)
		return false
	}
	return true
}

// store writes a cache entry. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, stage, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, stage, err)
		r.Logger.Warn("cache write failed", "stage", stage, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}

func (r *Runner) storeJSON(ctx context.Context, stage, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Debug("cache entry not serialisable", "stage", stage, "err", err)
		return
	}
	r.store(ctx, stage, key, data, ttl)
}
