// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends to the allocator. The
// application builds a [Set] at startup and hands it to the components that
// emit events; nothing is registered globally, so concurrent runs and tests
// never observe each other's hooks.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Inject implementations through options
//
// Backends live in subpackages: [github.com/matzehuels/qmap/pkg/observability/metrics]
// records Prometheus metrics and [github.com/matzehuels/qmap/pkg/observability/tracing]
// opens OpenTelemetry spans. Several backends combine with [Multi].
//
// # Usage
//
//	hooks := observability.Multi(metrics.New(reg), tracing.New())
//	alloc, _ := bmt.New(g, bmt.Options{Hooks: hooks.Allocator})
//
// Components call hooks to emit events:
//
//	ctx = hooks.OnPhaseStart(ctx, "search")
//	// ... build layers ...
//	hooks.OnPhaseComplete(ctx, "search", time.Since(start), err)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Allocator Hooks
// =============================================================================

// AllocatorHooks receives events from a single allocation run.
type AllocatorHooks interface {
	// OnPhaseStart marks the beginning of a phase ("search", "glue",
	// "build"). The returned context is passed to OnPhaseComplete.
	OnPhaseStart(ctx context.Context, phase string) context.Context

	// OnPhaseComplete marks the end of a phase.
	OnPhaseComplete(ctx context.Context, phase string, duration time.Duration, err error)

	// OnLayerClosed records a finished layer with its surviving candidates
	// and covered instructions.
	OnLayerClosed(ctx context.Context, layer, candidates, instructions int)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// AllocationStats summarizes a finished allocation.
type AllocationStats struct {
	Qubits       int
	Instructions int
	Layers       int
	Swaps        int
	Reversals    int
	Cost         int
}

// PipelineHooks receives events from the allocation pipeline.
type PipelineHooks interface {
	// OnAllocateStart marks the start of a run. The returned context is
	// passed to the allocator and to OnAllocateComplete.
	OnAllocateStart(ctx context.Context, allocator, arch string) context.Context
	OnAllocateComplete(ctx context.Context, allocator, arch string, stats AllocationStats, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAllocatorHooks is a no-op implementation of AllocatorHooks.
type NoopAllocatorHooks struct{}

func (NoopAllocatorHooks) OnPhaseStart(ctx context.Context, _ string) context.Context { return ctx }
func (NoopAllocatorHooks) OnPhaseComplete(context.Context, string, time.Duration, error) {}
func (NoopAllocatorHooks) OnLayerClosed(context.Context, int, int, int)                  {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnAllocateStart(ctx context.Context, _, _ string) context.Context {
	return ctx
}
func (NoopPipelineHooks) OnAllocateComplete(context.Context, string, string, AllocationStats, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Hook Sets
// =============================================================================

// Set bundles one implementation per event category. Nil fields are
// treated as no-ops by WithDefaults.
type Set struct {
	Allocator AllocatorHooks
	Pipeline  PipelineHooks
	Cache     CacheHooks
	HTTP      HTTPHooks
}

// Noop returns a Set whose hooks do nothing.
func Noop() Set {
	return Set{
		Allocator: NoopAllocatorHooks{},
		Pipeline:  NoopPipelineHooks{},
		Cache:     NoopCacheHooks{},
		HTTP:      NoopHTTPHooks{},
	}
}

// WithDefaults returns s with nil fields replaced by no-ops.
func (s Set) WithDefaults() Set {
	if s.Allocator == nil {
		s.Allocator = NoopAllocatorHooks{}
	}
	if s.Pipeline == nil {
		s.Pipeline = NoopPipelineHooks{}
	}
	if s.Cache == nil {
		s.Cache = NoopCacheHooks{}
	}
	if s.HTTP == nil {
		s.HTTP = NoopHTTPHooks{}
	}
	return s
}
