package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	_ "freightdesk/api/swagger" // swagger docs
	"freightdesk/internal/cache"
	"freightdesk/internal/config"
	"freightdesk/internal/database"
	"freightdesk/internal/handler"
	"freightdesk/internal/metrics"
	"freightdesk/internal/middleware"
	"freightdesk/internal/pricing"
	"freightdesk/internal/repository"
	"freightdesk/internal/service"
	"freightdesk/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title           Freight Pricing API
// @version         1.0
// @description     Decides whether a shipment is billed on account, by a prior quotation or at the general tariff, and prices it.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := config.NewLogger(cfg.Logging, "freightdesk-api")
	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.NewConnection(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}
	log.Info().Str("host", cfg.Database.Host).Msg("connected to PostgreSQL")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	entityRepo := repository.NewEntityRepository(db)
	tariffRepo := repository.NewTariffRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)

	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	var tariffStore pricing.TariffStore = tariffRepo
	var invalidator service.CacheInvalidator
	if cfg.Cache.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis url")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		tariffCache := cache.NewTariffCache(tariffRepo, rdb, cfg.Cache.TTL, log).
			WithCounters(metrics.CacheHit, metrics.CacheMiss)
		tariffStore = tariffCache
		invalidator = tariffCache
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Dur("ttl", cfg.Cache.TTL).Msg("tariff cache enabled")
	}

	engine := pricing.NewEngine(entityRepo, tariffStore, quotationRepo, cfg.Pricing.Engine())

	pricingService := service.NewPricingService(engine, wsHub, log, cfg.Server.DebugTrace)
	tariffService := service.NewTariffService(tariffRepo, txManager, invalidator, log)
	quotationService := service.NewQuotationService(quotationRepo, txManager)
	entityService := service.NewEntityService(entityRepo, txManager)

	// Initialize Handlers
	pricingHandler := handler.NewPricingHandler(pricingService)
	tariffHandler := handler.NewTariffHandler(tariffService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	entityHandler := handler.NewEntityHandler(entityService)
	healthHandler := handler.NewHealthHandler(checks)

	limiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})

	router := newRouter(cfg, log)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	// API Routing
	healthHandler.RegisterRoutes(router.Group(""))
	pricingHandler.RegisterRoutes(router.Group(""), middleware.RateLimit(limiter))
	tariffHandler.RegisterRoutes(router.Group(""))
	quotationHandler.RegisterRoutes(router.Group(""))
	entityHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneVisitors(ctx, limiter)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	closeDB(db, log)
}

func newRouter(cfg *config.Config, log zerolog.Logger) *gin.Engine {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowOrigins) == 0 || slices.Contains(cfg.CORS.AllowOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	return router
}

func pruneVisitors(ctx context.Context, limiter *middleware.IPRateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune(10 * time.Minute)
		}
	}
}

func closeDB(db *gorm.DB, log zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
}
