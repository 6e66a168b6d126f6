package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func contextWithValidSpan(t *testing.T) (context.Context, trace.SpanContext) {
	t.Helper()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc), sc
}

func TestWithContext(t *testing.T) {
	log := zap.NewExample()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_Fallbacks(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotNil(t, FromContext(ctx))
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx, enriched := WithRequestID(context.Background(), zap.New(core), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	enriched.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithIdempotencyKey(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx, enriched := WithIdempotencyKey(context.Background(), zap.New(core), "live-42")

	assert.Equal(t, "live-42", GetIdempotencyKey(ctx))
	enriched.Info("sale")
	assert.Equal(t, "live-42", logs.All()[0].ContextMap()["idempotency_key"])
}

func TestContextValues_Missing(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetIdempotencyKey(ctx))
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestTraceIDs_WithValidSpan(t *testing.T) {
	ctx, sc := contextWithValidSpan(t)

	assert.Equal(t, sc.TraceID().String(), GetTraceID(ctx))
	assert.Equal(t, sc.SpanID().String(), GetSpanID(ctx))
}

func TestWithTraceContext(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithTraceContext(context.Background(), base), "no span leaves the logger untouched")

	core, logs := observer.New(zapcore.InfoLevel)
	ctx, sc := contextWithValidSpan(t)

	WithTraceContext(ctx, zap.New(core)).Info("traced")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
}

func TestContextLogger_EnrichesWithContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx, sc := contextWithValidSpan(t)
	ctx = context.WithValue(ctx, RequestIDKey, "req-123")
	ctx = context.WithValue(ctx, IdempotencyKeyKey, "live-42")
	ctx = WithContext(ctx, base)

	L(ctx).Info("sale recorded", zap.String("order_id", "o-1"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "live-42", fields["idempotency_key"])
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, "o-1", fields["order_id"])
}

func TestContextLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cl := WithLogger(context.Background(), zap.New(core))

	cl.Debug("d")
	cl.Info("i")
	cl.Warn("w")
	cl.Error("e")

	levels := make([]zapcore.Level, 0, logs.Len())
	for _, entry := range logs.All() {
		levels = append(levels, entry.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}, levels)
}

func TestContextLogger_WithAndZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")

	child := WithLogger(ctx, zap.New(core)).With(zap.String("component", "checkout"))
	child.Zap().Info("priced")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "checkout", fields["component"])
	assert.Equal(t, "req-9", fields["request_id"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := WithLogger(context.Background(), nil)

	assert.NotPanics(t, func() {
		cl.Info("dropped")
		cl.With(zap.Int("n", 1)).Warn("dropped")
	})
}
