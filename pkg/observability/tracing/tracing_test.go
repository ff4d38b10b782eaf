package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/observability"
)

func TestSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tr := NewTracer(tp)

	ctx := tr.OnAllocateStart(context.Background(), "bmt", "ibmqx2")
	pctx := tr.OnPhaseStart(ctx, "search")
	tr.OnLayerClosed(pctx, 0, 4, 2)
	tr.OnPhaseComplete(pctx, "search", time.Millisecond, nil)

	gctx := tr.OnPhaseStart(ctx, "glue")
	tr.OnPhaseComplete(gctx, "glue", time.Millisecond, errors.New(errors.ErrCodeUnreachableMapping, "x"))
	tr.OnCacheMiss(ctx, "solution")
	tr.OnAllocateComplete(ctx, "bmt", "ibmqx2", observability.AllocationStats{Swaps: 1}, time.Second, nil)

	spans := rec.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "bmt.search", spans[0].Name())
	assert.Equal(t, "bmt.glue", spans[1].Name())
	assert.Equal(t, "qmap.allocate", spans[2].Name())

	root := spans[2].SpanContext().SpanID()
	assert.Equal(t, root, spans[0].Parent().SpanID())
	assert.Equal(t, root, spans[1].Parent().SpanID())

	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "layer_closed", spans[0].Events()[0].Name)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, codes.Ok, spans[2].Status().Code)
	require.Len(t, spans[2].Events(), 1)
	assert.Equal(t, "cache_miss", spans[2].Events()[0].Name)
}

func TestNewUsesGlobalProvider(t *testing.T) {
	s := New(nil)
	assert.NotNil(t, s.Allocator)
	assert.Nil(t, s.HTTP)

	ctx := s.Allocator.OnPhaseStart(context.Background(), "build")
	s.Allocator.OnPhaseComplete(ctx, "build", 0, nil)
}
