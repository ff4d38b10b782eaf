// Package tracing turns qmap events into OpenTelemetry spans.
//
// Each allocation run opens a "qmap.allocate" span; allocator phases open
// child spans named "bmt.<phase>", and closed layers are recorded as span
// events.
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/qmap/pkg/observability"
)

const instrumentation = "github.com/matzehuels/qmap"

// Tracer implements AllocatorHooks, PipelineHooks and CacheHooks.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer using tp, or the global provider if tp is nil.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(instrumentation)}
}

// New returns a hook set backed by tp. HTTP spans are left to the server's
// own middleware.
func New(tp trace.TracerProvider) observability.Set {
	t := NewTracer(tp)
	return observability.Set{Allocator: t, Pipeline: t, Cache: t}
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (t *Tracer) OnPhaseStart(ctx context.Context, phase string) context.Context {
	ctx, _ = t.tracer.Start(ctx, "bmt."+phase)
	return ctx
}

func (t *Tracer) OnPhaseComplete(ctx context.Context, _ string, _ time.Duration, err error) {
	end(trace.SpanFromContext(ctx), err)
}

func (t *Tracer) OnLayerClosed(ctx context.Context, layer, candidates, instructions int) {
	trace.SpanFromContext(ctx).AddEvent("layer_closed", trace.WithAttributes(
		attribute.Int("layer", layer),
		attribute.Int("candidates", candidates),
		attribute.Int("instructions", instructions),
	))
}

func (t *Tracer) OnAllocateStart(ctx context.Context, allocator, arch string) context.Context {
	ctx, _ = t.tracer.Start(ctx, "qmap.allocate", trace.WithAttributes(
		attribute.String("allocator", allocator),
		attribute.String("arch", arch),
	))
	return ctx
}

func (t *Tracer) OnAllocateComplete(ctx context.Context, _, _ string, stats observability.AllocationStats, _ time.Duration, err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("qubits", stats.Qubits),
		attribute.Int("instructions", stats.Instructions),
		attribute.Int("layers", stats.Layers),
		attribute.Int("swaps", stats.Swaps),
		attribute.Int("reversals", stats.Reversals),
		attribute.Int("cost", stats.Cost),
	)
	end(span, err)
}

func (t *Tracer) OnCacheHit(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache_hit", trace.WithAttributes(attribute.String("key_type", keyType)))
}

func (t *Tracer) OnCacheMiss(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache_miss", trace.WithAttributes(attribute.String("key_type", keyType)))
}

func (t *Tracer) OnCacheSet(ctx context.Context, keyType string, size int) {
	trace.SpanFromContext(ctx).AddEvent("cache_set", trace.WithAttributes(
		attribute.String("key_type", keyType),
		attribute.Int("size", size),
	))
}
