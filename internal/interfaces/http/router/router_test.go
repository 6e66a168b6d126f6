package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("orders", "/orders")
	group.GET("/:id", func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("id"))
	})
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/orders/42")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
}

func TestRouterUse_OnlyWrapsAPI(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-API", "yes")
		c.Next()
	})
	r.Register(NewDomainGroup("sales", "/sales").POST("", func(c *gin.Context) { c.Status(http.StatusCreated) }))
	r.Setup()

	api := serve(engine, http.MethodPost, "/api/v1/sales")
	assert.Equal(t, http.StatusCreated, api.Code)
	assert.Equal(t, "yes", api.Header().Get("X-API"))

	health := serve(engine, http.MethodGet, "/health")
	assert.Empty(t, health.Header().Get("X-API"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("checkout", "/checkout")
		assert.Equal(t, "checkout", g.Name())
		assert.Equal(t, "/checkout", g.Prefix())
	})

	t.Run("registers GET and POST", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("checkout", "/checkout").
			GET("/shipping-options", func(c *gin.Context) { c.String(http.StatusOK, "options") }).
			POST("/price", func(c *gin.Context) { c.String(http.StatusOK, "price") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "options", serve(engine, http.MethodGet, "/api/v1/checkout/shipping-options").Body.String())
		assert.Equal(t, "price", serve(engine, http.MethodPost, "/api/v1/checkout/price").Body.String())
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodPost, "/api/v1/checkout/shipping-options").Code)
	})

	t.Run("registers other methods through Handle", func(t *testing.T) {
		engine := gin.New()
		NewDomainGroup("test", "/test").
			Handle(http.MethodDelete, "/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) }).
			RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/v1/test/items/1").Code)
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("lists routes", func(t *testing.T) {
		noop := func(*gin.Context) {}
		g := NewDomainGroup("orders", "/orders").GET("", noop).GET("/:id", noop)

		assert.Equal(t, []RouteInfo{
			{Method: http.MethodGet, Path: "/orders"},
			{Method: http.MethodGet, Path: "/orders/:id"},
		}, g.Routes())
	})
}
