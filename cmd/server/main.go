package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	appdesign "github.com/storefront/backend/internal/application/design"
	identityapp "github.com/storefront/backend/internal/application/identity"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/strategy/pricing"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/migrations"
	"go.uber.org/zap"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Custom apparel storefront: catalog, design assets, checkout and order administration.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Telemetry first so the database plugin picks up the global provider
	otelProvider, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:         cfg.Telemetry.Enabled,
		Endpoint:        cfg.Telemetry.CollectorEndpoint,
		Insecure:        cfg.Telemetry.Insecure,
		ServiceName:     cfg.Telemetry.ServiceName,
		ServiceVersion:  version,
		Environment:     cfg.App.Env,
		SamplingRatio:   cfg.Telemetry.SamplingRatio,
		MetricsInterval: cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.Open(ctx, &cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        db.DBSystem(),
	}, log).Register(db.Gorm); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if err := prepareSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to prepare database schema", zap.Error(err))
	}

	assetStore, err := storage.NewAssetStore(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize asset storage", zap.Error(err))
	}

	// Redis backs drafts and revoked tokens when the draft driver asks for it
	var (
		redisClient *redis.Client
		revocations auth.RevocationList = auth.NewMemoryRevocationList()
	)
	if cfg.Draft.Driver == config.DraftDriverRedis {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() { _ = redisClient.Close() }()
		revocations = auth.NewRedisRevocationList(redisClient)
	}
	var draftClient redis.Cmdable
	if redisClient != nil {
		draftClient = redisClient
	}
	draftStore, err := cache.NewDraftStore(cfg.Draft, draftClient, log)
	if err != nil {
		log.Fatal("Failed to initialize draft store", zap.Error(err))
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.Gorm)
	productRepo := persistence.NewGormProductRepository(db.Gorm)
	orderRepo := persistence.NewGormOrderRepository(db.Gorm)
	userRepo := persistence.NewGormUserRepository(db.Gorm)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	notifications := tradeapp.NewOrderNotificationHandler(log)
	eventBus.Subscribe(notifications, notifications.EventTypes()...)

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  otelProvider.Meter("storefront"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	eventBus.Subscribe(businessMetrics, businessMetrics.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	productService.SetEventPublisher(eventBus)
	pricingService := catalogapp.NewPricingService(productRepo, pricing.NewTieredPricingStrategy())
	assetService := appdesign.NewAssetService(assetStore, int(cfg.Storage.MaxUploadSize), log)
	draftService := appdesign.NewDraftService(draftStore)
	authService := identityapp.NewAuthService(userRepo, jwtService, revocations, log)
	orderService := tradeapp.NewOrderService(orderRepo, cfg.Order.WhatsAppNumber, log)
	orderService.SetEventPublisher(eventBus)

	materializer := tradeapp.NewOrderMaterializer(
		productRepo,
		pricingService,
		persistence.NewGormTransactionScope(db.Gorm),
		assetStore,
		trade.NewOrderNumberGenerator(cfg.Order.NumberPrefix),
		tradeapp.MaterializerConfig{
			MaxDesignImages:     cfg.Order.MaxDesignImages,
			NumberRetryAttempts: cfg.Order.NumberRetryAttempts,
		},
		log,
	)
	materializer.SetEventPublisher(eventBus)
	materializer.SetDurationRecorder(businessMetrics)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxy list", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.AccessLog(log, logger.SkipPaths("/health")),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanAnnotator(),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
		middleware.BodyLimit(middleware.BodyLimits{Multipart: cfg.HTTP.MaxBodySize, Other: cfg.HTTP.MaxJSONBodySize}),
	)

	// Local uploads are served by this process; s3 URLs point at the bucket
	if cfg.Storage.Driver == config.StorageDriverLocal && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		engine.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	orderLimiter := middleware.NewRateLimiter(cfg.HTTP.OrderRateLimit, cfg.HTTP.OrderRateBurst, 10*time.Minute)
	go orderLimiter.Run(ctx)

	router.Mount(engine,
		router.Handlers{
			System:     handler.NewSystemHandler(cfg.App.Name, version, db.SQL),
			Auth:       handler.NewAuthHandler(authService),
			Catalog:    handler.NewCatalogHandler(categoryService, productService, pricingService),
			Design:     handler.NewDesignHandler(assetService, draftService),
			Order:      handler.NewOrderHandler(materializer, orderService, draftService),
			AdminOrder: handler.NewAdminOrderHandler(orderService),
		},
		router.Guards{
			Auth: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
				JWTService:  jwtService,
				Revocations: revocations,
				Logger:      log,
			}),
			Admin:      middleware.RequireAdmin(),
			OrderLimit: middleware.RateLimit(orderLimiter),
		},
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if closer, ok := draftStore.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if err := otelProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited")
}

// prepareSchema runs the versioned migrations on PostgreSQL.
// SQLite databases are created from the gorm models.
func prepareSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver == config.DriverSQLite {
		return persistence.AutoMigrate(db.Gorm)
	}

	m, err := migration.New(db.SQL, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared pool
	return m.Up()
}
