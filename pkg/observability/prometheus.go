package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "octigrid"

// Prometheus implements every hook interface on top of a prometheus
// registry.
type Prometheus struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	edgesRouted   prometheus.Counter
	edgesFailed   prometheus.Counter
	edgeCost      prometheus.Histogram
	edgeCells     prometheus.Histogram
	penalties     *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    prometheus.Counter
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ RouteHooks    = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ APIHooks      = (*Prometheus)(nil)
)

// NewPrometheus registers the octigrid metrics with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Failed pipeline stages.",
		}, []string{"stage"}),
		edgesRouted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_routed_total",
			Help:      "Original edges embedded on the lattice.",
		}),
		edgesFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_failed_total",
			Help:      "Original edges that could not be embedded.",
		}),
		edgeCost: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "edge_path_cost",
			Help:      "Lattice path cost per embedded edge.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
		edgeCells: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "edge_path_cells",
			Help:      "Lattice cells visited per embedded edge.",
			Buckets:   prometheus.LinearBuckets(1, 2, 16),
		}),
		penalties: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalties_total",
			Help:      "Balancing calls by kind.",
		}, []string{"kind"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status.",
		}, []string{"method", "route", "code"}),
		reqDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *Prometheus) stage(name string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		p.stageErrors.WithLabelValues(name).Inc()
	}
}

func (p *Prometheus) OnLoadStart(context.Context, string) {}
func (p *Prometheus) OnLoadComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	p.stage("load", d, err)
}
func (p *Prometheus) OnRouteStart(context.Context, int, int, int) {}
func (p *Prometheus) OnRouteComplete(_ context.Context, _ int, d time.Duration, err error) {
	p.stage("route", d, err)
}
func (p *Prometheus) OnRenderStart(context.Context, []string) {}
func (p *Prometheus) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.stage("render", d, err)
}

func (p *Prometheus) OnEdgeRouted(_ context.Context, _ string, cells int, cost float64, _ time.Duration) {
	p.edgesRouted.Inc()
	p.edgeCost.Observe(cost)
	p.edgeCells.Observe(float64(cells))
}
func (p *Prometheus) OnEdgeFailed(context.Context, string, error) { p.edgesFailed.Inc() }
func (p *Prometheus) OnPenalty(_ context.Context, kind string)    { p.penalties.WithLabelValues(kind).Inc() }

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}
func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}
func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *Prometheus) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	p.requests.WithLabelValues(method, route, statusText(code)).Inc()
	p.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Install registers p for every hook category.
func (p *Prometheus) Install() {
	SetPipelineHooks(p)
	SetRouteHooks(p)
	SetCacheHooks(p)
	SetAPIHooks(p)
}
