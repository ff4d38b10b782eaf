// Package metrics records qmap events as Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	hooks := metrics.New(reg)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/observability"
)

const namespace = "qmap"

// Recorder implements every hook interface on top of Prometheus collectors.
type Recorder struct {
	phaseDuration   *prometheus.HistogramVec
	layerCandidates prometheus.Histogram
	layerWidth      prometheus.Histogram

	allocations        *prometheus.CounterVec
	allocationDuration *prometheus.HistogramVec
	swaps              prometheus.Histogram
	cost               prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		phaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of allocator phases.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
		}, []string{"phase", "result"}),
		layerCandidates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layer_candidates",
			Help:      "Candidates surviving when a layer closes.",
			Buckets:   []float64{1, 2, 5, 10, 50, 100, 500, 1000},
		}),
		layerWidth: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layer_instructions",
			Help:      "Instructions covered by a closed layer.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		allocations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Allocations by allocator, architecture and result.",
		}, []string{"allocator", "arch", "result"}),
		allocationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "allocation_duration_seconds",
			Help:      "End-to-end allocation duration.",
			Buckets:   []float64{0.001, 0.01, 0.1, 1, 10, 60},
		}, []string{"allocator"}),
		swaps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solution_swaps",
			Help:      "SWAPs inserted per successful allocation.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
		}),
		cost: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solution_cost",
			Help:      "Weighted cost per successful allocation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type.",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// New registers a Recorder with reg and returns it as a hook set.
func New(reg prometheus.Registerer) observability.Set {
	r := NewRecorder(reg)
	return observability.Set{Allocator: r, Pipeline: r, Cache: r, HTTP: r}
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func (r *Recorder) OnPhaseStart(ctx context.Context, _ string) context.Context { return ctx }

func (r *Recorder) OnPhaseComplete(_ context.Context, phase string, d time.Duration, err error) {
	r.phaseDuration.WithLabelValues(phase, result(err)).Observe(d.Seconds())
}

func (r *Recorder) OnLayerClosed(_ context.Context, _, candidates, instructions int) {
	r.layerCandidates.Observe(float64(candidates))
	r.layerWidth.Observe(float64(instructions))
}

func (r *Recorder) OnAllocateStart(ctx context.Context, _, _ string) context.Context { return ctx }

func (r *Recorder) OnAllocateComplete(_ context.Context, allocator, arch string, stats observability.AllocationStats, d time.Duration, err error) {
	r.allocations.WithLabelValues(allocator, arch, result(err)).Inc()
	r.allocationDuration.WithLabelValues(allocator).Observe(d.Seconds())
	if err == nil {
		r.swaps.Observe(float64(stats.Swaps))
		r.cost.Observe(float64(stats.Cost))
	}
}

func (r *Recorder) OnCacheHit(_ context.Context, keyType string) {
	r.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (r *Recorder) OnCacheMiss(_ context.Context, keyType string) {
	r.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (r *Recorder) OnCacheSet(_ context.Context, keyType string, size int) {
	r.cacheOps.WithLabelValues(keyType, "set").Inc()
	r.cacheBytes.Add(float64(size))
}

func (r *Recorder) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
