package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLoggedRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Request-ID"); id != "" {
			c.Set(GinRequestIDKey, id)
		}
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func requestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LogsRequestFields(t *testing.T) {
	router, recorded := newLoggedRouter(zapcore.InfoLevel)
	router.POST("/api/v1/sales", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"order_id": "o-1"})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales?dry=1", nil)
	req.Header.Set("User-Agent", "live-console/1.0")
	req.Header.Set("X-Request-ID", "req-123")
	req.Header.Set(IdempotencyKeyHeader, "live-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	entry := requestLog(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/v1/sales", fields["route"])
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "live-42", fields["idempotency_key"])
	assert.Equal(t, "dry=1", fields["query"])
	assert.Equal(t, "live-console/1.0", fields["user_agent"])
	assert.Contains(t, fields, "latency")
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			router, recorded := newLoggedRouter(zapcore.DebugLevel)
			router.GET("/orders/:id", func(c *gin.Context) {
				c.Status(tt.status)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/abc", nil))

			entry := requestLog(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, "/orders/:id", entry.ContextMap()["route"])
		})
	}
}

func TestGinMiddleware_LoggerReachesHandlers(t *testing.T) {
	router, recorded := newLoggedRouter(zapcore.InfoLevel)
	router.GET("/checkout/shipping-options", func(c *gin.Context) {
		L(c.Request.Context()).Info("from service")
		GetGinLogger(c).Info("from handler")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/checkout/shipping-options", nil)
	req.Header.Set("X-Request-ID", "req-7")
	router.ServeHTTP(httptest.NewRecorder(), req)

	for _, msg := range []string{"from service", "from handler"} {
		entries := recorded.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"], msg)
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_INTERNAL","message":"internal server error"}}`, w.Body.String())
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, GetGinLogger(c))

	c.Set(GinLoggerKey, "wrong type")
	assert.NotNil(t, GetGinLogger(c))
}
