// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/taxotree/pkg/observability"
)

// Metrics holds the taxotree collectors. It implements
// observability.PipelineHooks, CacheHooks and ServerHooks.
type Metrics struct {
	registry *prometheus.Registry

	BuildsTotal    *prometheus.CounterVec
	BuildDuration  prometheus.Histogram
	BuildNodes     prometheus.Histogram
	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	RenderBytes    *prometheus.HistogramVec

	CacheLookups *prometheus.CounterVec
	CacheWrites  *prometheus.CounterVec
	CacheErrors  *prometheus.CounterVec

	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg creates a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{registry: reg}
	f := promauto.With(reg)

	m.BuildsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxotree_builds_total",
			Help: "Hierarchy builds by result",
		},
		[]string{"result"},
	)
	m.BuildDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taxotree_build_duration_seconds",
			Help:    "Hierarchy build latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
	m.BuildNodes = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taxotree_build_nodes",
			Help:    "Distinct nodes per built hierarchy",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)
	m.LayoutsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxotree_layouts_total",
			Help: "Layouts computed by visualization type and result",
		},
		[]string{"type", "result"},
	)
	m.LayoutDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxotree_layout_duration_seconds",
			Help:    "Layout latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)
	m.RendersTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxotree_renders_total",
			Help: "Artifacts rendered by visualization type, format and result",
		},
		[]string{"type", "format", "result"},
	)
	m.RenderDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxotree_render_duration_seconds",
			Help:    "Render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type", "format"},
	)
	m.RenderBytes = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxotree_render_size_bytes",
			Help:    "Rendered artifact size in bytes",
			Buckets: []float64{1000, 10000, 100000, 1000000, 10000000},
		},
		[]string{"format"},
	)
	m.CacheLookups = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxotree_cache_lookups_total",
			Help: "Cache lookups by stage and outcome",
		},
		[]string{"stage", "outcome"},
	)
	m.CacheWrites = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxotree_cache_writes_bytes_total",
			Help: "Bytes written to the cache by stage",
		},
		[]string{"stage"},
	)
	m.CacheErrors = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxotree_cache_errors_total",
			Help: "Cache backend failures by stage",
		},
		[]string{"stage"},
	)
	m.HTTPRequestsInFlight = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "taxotree_http_requests_in_flight",
			Help: "HTTP requests being served",
		},
	)
	m.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxotree_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	m.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxotree_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Register installs m as the pipeline, cache and server hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnBuildStart(context.Context, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, nodes, _ int, d time.Duration, err error) {
	m.BuildsTotal.WithLabelValues(result(err)).Inc()
	m.BuildDuration.Observe(d.Seconds())
	if err == nil {
		m.BuildNodes.Observe(float64(nodes))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	m.LayoutsTotal.WithLabelValues(vizType, result(err)).Inc()
	m.LayoutDuration.WithLabelValues(vizType).Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, string, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, vizType, format string, size int, d time.Duration, err error) {
	m.RendersTotal.WithLabelValues(vizType, format, result(err)).Inc()
	m.RenderDuration.WithLabelValues(vizType, format).Observe(d.Seconds())
	if err == nil {
		m.RenderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, stage string) {
	m.CacheLookups.WithLabelValues(stage, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, stage string) {
	m.CacheLookups.WithLabelValues(stage, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, stage string, size int) {
	m.CacheWrites.WithLabelValues(stage).Add(float64(size))
}

func (m *Metrics) OnCacheError(_ context.Context, stage string, _ error) {
	m.CacheErrors.WithLabelValues(stage).Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPRequestsInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPRequestsInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)
