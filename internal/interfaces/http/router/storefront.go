package router

import (
	"github.com/gin-gonic/gin"
	"github.com/livesale/backend/internal/infrastructure/config"
	"github.com/livesale/backend/internal/infrastructure/logger"
	"github.com/livesale/backend/internal/infrastructure/telemetry"
	"github.com/livesale/backend/internal/interfaces/http/handler"
	"github.com/livesale/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers are the storefront endpoints
type Handlers struct {
	Sales    *handler.SaleHandler
	Orders   *handler.OrderHandler
	Checkout *handler.CheckoutHandler
	System   *handler.SystemHandler
}

// EngineConfig carries what the middleware chain needs
type EngineConfig struct {
	HTTP             config.HTTPConfig
	ServiceName      string
	TracingEnabled   bool
	ProfilingEnabled bool
	// Metrics serves /metrics and records request latencies; nil disables both
	Metrics *telemetry.HTTPMetrics
	// RateLimiter throttles the API per client IP; nil disables it
	RateLimiter *middleware.RateLimiter
}

// StorefrontGroups returns the route groups of the storefront API
func StorefrontGroups(h Handlers) []*DomainGroup {
	sales := NewDomainGroup("sales", "/sales").
		POST("", h.Sales.RecordSale)

	orders := NewDomainGroup("orders", "/orders").
		GET("", h.Orders.ListOrders).
		GET("/:id", h.Orders.GetOrder)

	checkout := NewDomainGroup("checkout", "/checkout").
		GET("/shipping-options", h.Checkout.ShippingOptions).
		POST("/price", h.Checkout.Price).
		POST("", h.Checkout.Checkout).
		POST("/confirm", h.Checkout.ConfirmPayment)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{sales, orders, checkout, system}
}

// NewEngine builds the gin engine with the full middleware chain and every route
func NewEngine(cfg EngineConfig, log *zap.Logger, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.ServiceName,
			Enabled:     cfg.TracingEnabled,
			Filter:      middleware.DefaultTracingConfig().Filter,
		}),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(cfg.Metrics),
		middleware.ProfilingWithConfig(profilingConfig(cfg.ProfilingEnabled)),
		middleware.Secure(),
		middleware.CORSWithOrigins(cfg.HTTP.CORSAllowOrigins),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	engine.NoRoute(h.System.NoRoute)

	// Operational endpoints stay outside the rate limit and request timeout
	engine.GET("/health", h.System.Health)
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.HTTP.SwaggerEnabled,
			AllowedIPs: cfg.HTTP.SwaggerAllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	r.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	groups := StorefrontGroups(h)
	for _, g := range groups {
		r.Register(g)
	}
	r.Setup()

	for _, g := range groups {
		for _, route := range g.Routes() {
			log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", r.BasePath()+route.Path))
		}
	}

	return engine
}

func profilingConfig(enabled bool) middleware.ProfilingConfig {
	cfg := middleware.DefaultProfilingConfig()
	cfg.Enabled = enabled
	return cfg
}

// NewRateLimiter returns the per-IP limiter configured in cfg, or nil when rate limiting is off
func NewRateLimiter(cfg config.HTTPConfig) *middleware.RateLimiter {
	if !cfg.RateLimitEnabled {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}
