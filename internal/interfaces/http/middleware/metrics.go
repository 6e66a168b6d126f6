package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/livesale/backend/internal/infrastructure/telemetry"
)

// unmatchedRoute labels requests that matched no registered route
const unmatchedRoute = "unmatched"

// HTTPMetrics records request count and latency per route pattern into the
// Prometheus registry served on /metrics. A nil collector disables it.
func HTTPMetrics(metrics *telemetry.HTTPMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		metrics.Observe(routePattern(c), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// routePattern returns gin's matched pattern (e.g. "/api/v1/orders/:id") so raw
// IDs never become label values.
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
