package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	checkoutapp "github.com/livesale/backend/internal/application/checkout"
	salesapp "github.com/livesale/backend/internal/application/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/infrastructure/cache"
	"github.com/livesale/backend/internal/infrastructure/config"
	"github.com/livesale/backend/internal/infrastructure/event"
	"github.com/livesale/backend/internal/infrastructure/logger"
	"github.com/livesale/backend/internal/infrastructure/payment"
	"github.com/livesale/backend/internal/infrastructure/persistence"
	"github.com/livesale/backend/internal/infrastructure/shipping"
	"github.com/livesale/backend/internal/infrastructure/telemetry"
	"github.com/livesale/backend/internal/interfaces/http/handler"
	"github.com/livesale/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/livesale/backend/docs"
)

//	@title			Livesale Storefront API
//	@version		1.0
//	@description	Order aggregation, pricing and checkout for live-stream and bazaar sales

//	@contact.name	Livesale Support
//	@contact.url	https://github.com/livesale/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry comes first so the bridged logger is used everywhere below
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to link spans to profiles", zap.Error(err))
		}
	}

	log.Info("Starting Livesale Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithRedactedLiterals(!cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfigFrom(cfg.Telemetry), log); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	httpMetrics := telemetry.NewHTTPMetrics()
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := httpMetrics.RegisterDB(sqlDB); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}

	// Redis backs the idempotency store and the cross-instance sale lease
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var storeClient redis.UniversalClient
	if redisClient != nil {
		storeClient = redisClient
	}
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(storeClient,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	var saleLocker salesapp.SaleLocker = cache.NewKeyedLocker(cfg.Sales.LockTimeout)
	if cfg.Sales.RedisLockEnabled {
		saleLocker = cache.ChainedLocker{
			saleLocker,
			cache.NewRedisSaleLocker(redisClient, cfg.Sales.LockTTL, cfg.Sales.LockTimeout),
		}
	}

	// Domain events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	var publisher shared.EventPublisher = eventBus
	if cfg.Events.Backend == "kafka" {
		kafkaPublisher, err := event.NewKafkaEventPublisher(cfg.Events, log)
		if err != nil {
			log.Fatal("Failed to create Kafka publisher", zap.Error(err))
		}
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Error closing Kafka publisher", zap.Error(err))
			}
		}()
		publisher = event.FanOutPublisher{eventBus, kafkaPublisher}
		log.Info("Publishing domain events to Kafka",
			zap.Strings("brokers", cfg.Events.Brokers),
			zap.String("topic", cfg.Events.Topic),
		)
	}

	// Collaborators
	quoter, err := shipping.NewHTTPQuoteAdapter(cfg.Shipping, log)
	if err != nil {
		log.Fatal("Failed to configure shipping quotes", zap.Error(err))
	}
	gateway, err := payment.NewStripeCheckoutAdapter(payment.StripeCheckoutConfigFrom(cfg.Payment), log)
	if err != nil {
		log.Fatal("Failed to configure payment provider", zap.Error(err))
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meterProvider.Meter("livesale.business"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	giftRepo := persistence.NewGormGiftRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	location, err := cfg.Sales.Location()
	if err != nil {
		log.Fatal("Invalid store time zone", zap.Error(err))
	}
	saleService := salesapp.NewSaleService(productRepo, orderRepo, cartRepo, customerRepo, txScope,
		salesapp.WithLocation(location),
		salesapp.WithLocker(saleLocker),
		salesapp.WithEventPublisher(publisher),
		salesapp.WithMetrics(businessMetrics),
		salesapp.WithLogger(log),
	)

	commit, err := checkoutapp.ParseCouponUsageCommit(cfg.Checkout.CouponUsageCommit)
	if err != nil {
		log.Fatal("Invalid coupon usage commit", zap.Error(err))
	}
	pricingService := checkoutapp.NewPricingService(couponRepo, giftRepo, quoter, orderRepo, cartRepo, cfg.Checkout.PickupLabel, log)
	checkoutService := checkoutapp.NewCheckoutService(pricingService, orderRepo, cartRepo, couponRepo, gateway, commit, log)
	checkoutService.SetEventPublisher(publisher)
	checkoutService.SetMetrics(businessMetrics)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	systemHandler := handler.NewSystemHandler(telemetry.ServiceVersion).
		AddCheck("database", db.Ping)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	rateLimiter := router.NewRateLimiter(cfg.HTTP)
	if rateLimiter != nil {
		defer rateLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	engine := router.NewEngine(router.EngineConfig{
		HTTP:             cfg.HTTP,
		ServiceName:      cfg.Telemetry.ServiceName,
		TracingEnabled:   cfg.Telemetry.Enabled,
		ProfilingEnabled: profiler.IsEnabled(),
		Metrics:          httpMetrics,
		RateLimiter:      rateLimiter,
	}, log, router.Handlers{
		Sales:    handler.NewSaleHandler(saleService, idempotencyStore, cfg.Sales.IdempotencyTTL),
		Orders:   handler.NewOrderHandler(saleService),
		Checkout: handler.NewCheckoutHandler(pricingService, checkoutService),
		System:   systemHandler,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logger": loggerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
