package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/livesale/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key copied onto spans
const MaxIdempotencyKeyLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// Filter skips span creation when it returns false (health checks, scrapes).
	Filter func(*http.Request) bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "livesale-backend",
		Enabled:     true,
		Filter: func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/metrics"
		},
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin. Span names follow "METHOD /route/:pattern";
// SpanAttributes adds request identifiers once the span exists.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	var opts []otelgin.Option
	if cfg.Filter != nil {
		opts = append(opts, otelgin.WithFilter(cfg.Filter))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// SpanAttributes copies request identifiers onto the active span. It must run
// after Tracing and RequestID.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
		c.Next()
	}
}

func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if requestID := c.GetString(logger.GinRequestIDKey); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if key := c.GetHeader(logger.IdempotencyKeyHeader); key != "" {
		if len(key) > MaxIdempotencyKeyLength {
			key = key[:MaxIdempotencyKeyLength]
		}
		span.SetAttributes(attribute.String("idempotency.key", key))
	}
}

// SpanErrorMarker marks the span as failed for 4xx and 5xx responses and tags it
// with the envelope error code when a handler recorded one.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
		if code := c.GetString(ErrorCodeKey); code != "" {
			span.SetAttributes(attribute.String("error.code", code))
		}
	}
}

// ErrorCodeKey is the gin context key under which handlers store the error code they answered with
const ErrorCodeKey = "error_code"
