package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/propdesk/backend/internal/application/dashboard"
	appleasing "github.com/propdesk/backend/internal/application/leasing"
	appproperty "github.com/propdesk/backend/internal/application/property"
	appsearch "github.com/propdesk/backend/internal/application/search"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/auth"
	"github.com/propdesk/backend/internal/infrastructure/cache"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/event"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
	"github.com/propdesk/backend/internal/infrastructure/scheduler"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
	"github.com/propdesk/backend/internal/interfaces/http/handler"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
	"github.com/propdesk/backend/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The OTLP log bridge needs a logger of its own before the process logger exists
	bootLog := logger.NewForEnvironment(cfg.App.Env)
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize OpenTelemetry log provider", zap.Error(err))
	}

	var extraCores []zapcore.Core
	if loggerProvider.IsEnabled() {
		extraCores = append(extraCores, loggerProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	}
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, extraCores...)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PropDesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize OpenTelemetry tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize OpenTelemetry metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start continuous profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}
	leasingMetrics, err := telemetry.NewLeasingMetricsFromProvider(meterProvider)
	if err != nil {
		log.Fatal("Failed to register leasing metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(ctx, &cfg.Database, gormLog, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if _, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("propdesk/db"), sqlDB); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}

	// Repositories
	ownerRepo := persistence.NewGormOwnerRepository(db.DB)
	buildingRepo := persistence.NewGormBuildingRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	payableRepo := persistence.NewGormPayableRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus. Handlers are deduplicated on event id so a redelivered
	// ContractCreated never schedules rent twice.
	eventBus := event.NewInMemoryEventBus(log)
	eventStore, err := cache.NewIdempotencyStore(ctx, cfg, cache.EventKeyPrefix, log)
	if err != nil {
		log.Fatal("Failed to initialize event idempotency store", zap.Error(err))
	}
	defer closeStore(log, eventStore)

	rentSchedule := appleasing.NewRentScheduleHandler(payableRepo)
	eventBus.Subscribe(event.NewIdempotentHandler(rentSchedule, eventStore, log), rentSchedule.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	ownerService := appproperty.NewOwnerService(ownerRepo, buildingRepo)
	ownerService.SetEventPublisher(eventBus)
	buildingService := appproperty.NewBuildingService(buildingRepo, ownerRepo, unitRepo)
	buildingService.SetEventPublisher(eventBus)
	unitService := appproperty.NewUnitService(unitRepo, buildingRepo)
	unitService.SetEventPublisher(eventBus)
	marketplaceService := appproperty.NewMarketplaceService(listingRepo)

	tenantService := appleasing.NewTenantService(tenantRepo)
	tenantService.SetEventPublisher(eventBus)
	contractService := appleasing.NewContractService(contractRepo, txScope)
	contractService.SetEventPublisher(eventBus)
	payableService := appleasing.NewPayableService(payableRepo, contractRepo)
	payableService.SetEventPublisher(eventBus)

	onboardingService := appleasing.NewOnboardingService(txScope, persistence.NewGormRepositories(db.DB), cfg.Onboarding, log)
	onboardingService.SetEventPublisher(eventBus)
	onboardingService.SetMetrics(leasingMetrics)

	dashboardService := dashboard.NewService(ownerRepo, buildingRepo, unitRepo, tenantRepo, contractRepo, payableRepo)

	aggregator := appsearch.NewAggregator(persistence.SearchSources(db.DB), cfg.Search)
	aggregator.SetMetrics(leasingMetrics)
	sessions := appsearch.NewSessionManager(aggregator, cfg.Search)
	sessions.SetMetrics(leasingMetrics)

	// Lease sweep
	var sweepScheduler *scheduler.LeaseSweepScheduler
	if cfg.Scheduler.Enabled {
		sweepService := appleasing.NewSweepService(txScope, contractRepo, payableRepo, cfg.Scheduler.BatchSize)
		sweepService.SetEventPublisher(eventBus)
		sweepService.SetMetrics(leasingMetrics)

		sweepScheduler, err = scheduler.NewLeaseSweepScheduler(sweepService, log, cfg.Scheduler)
		if err != nil {
			log.Fatal("Failed to create lease sweep scheduler", zap.Error(err))
		}
		if err := sweepScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start lease sweep scheduler", zap.Error(err))
		}
	}

	// Authentication
	authenticate := middleware.Auth(middleware.AuthConfig{Validator: auth.NewJWTService(cfg.JWT)})
	if !cfg.JWT.Enabled {
		devOffice, err := uuid.Parse(cfg.JWT.DevOfficeID)
		if err != nil {
			log.Fatal("Invalid development office id", zap.String("office_id", cfg.JWT.DevOfficeID), zap.Error(err))
		}
		log.Warn("JWT verification disabled, every request is scoped to the development office",
			zap.String("office_id", devOffice.String()))
		authenticate = middleware.StaticOffice(devOffice)
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
	}

	requestStore, err := cache.NewIdempotencyStore(ctx, cfg, cache.RequestKeyPrefix, log)
	if err != nil {
		log.Fatal("Failed to initialize request idempotency store", zap.Error(err))
	}
	defer closeStore(log, requestStore)

	middleware.SetupValidator()
	engine := router.New(router.Options{
		Logger: log,
		HTTP:   cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Profiling:      profiler.IsEnabled(),
		Authenticate:   authenticate,
		RateLimiter:    rateLimiter,
		Idempotency:    requestStore,
		IdempotencyTTL: cfg.Onboarding.IdempotencyTTL,
	}, router.Handlers{
		Onboarding:  handler.NewOnboardingHandler(onboardingService),
		Search:      handler.NewSearchHandler(aggregator, sessions, cfg.Search.Debounce, cfg.Search.Heartbeat),
		Owner:       handler.NewOwnerHandler(ownerService),
		Building:    handler.NewBuildingHandler(buildingService),
		Unit:        handler.NewUnitHandler(unitService),
		Marketplace: handler.NewMarketplaceHandler(marketplaceService),
		Tenant:      handler.NewTenantHandler(tenantService),
		Contract:    handler.NewContractHandler(contractService),
		Payable:     handler.NewPayableHandler(payableService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Health:      handler.NewHealthHandler(db, version),
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
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Live search streams hold their connections open until their session ends
	sessions.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if sweepScheduler != nil {
		if err := sweepScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Failed to stop lease sweep scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop event bus", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Failed to stop profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown logger provider", zap.Error(err))
	}

	log.Info("Server exited")
}

func closeStore(log *zap.Logger, store shared.IdempotencyStore) {
	if err := store.Close(); err != nil {
		log.Warn("Failed to close idempotency store", zap.Error(err))
	}
}
