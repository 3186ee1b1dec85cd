package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	documentapp "github.com/keystone/backend/internal/application/document"
	forgeapp "github.com/keystone/backend/internal/application/forge"
	learningapp "github.com/keystone/backend/internal/application/learning"
	portfolioapp "github.com/keystone/backend/internal/application/portfolio"
	propertyapp "github.com/keystone/backend/internal/application/property"
	recordapp "github.com/keystone/backend/internal/application/record"
	wealthapp "github.com/keystone/backend/internal/application/wealth"
	"github.com/keystone/backend/internal/domain/forge"
	"github.com/keystone/backend/internal/domain/learning"
	"github.com/keystone/backend/internal/infrastructure/auth"
	"github.com/keystone/backend/internal/infrastructure/cache"
	"github.com/keystone/backend/internal/infrastructure/config"
	"github.com/keystone/backend/internal/infrastructure/extraction"
	"github.com/keystone/backend/internal/infrastructure/logger"
	"github.com/keystone/backend/internal/infrastructure/persistence"
	"github.com/keystone/backend/internal/infrastructure/scheduler"
	"github.com/keystone/backend/internal/infrastructure/storage"
	"github.com/keystone/backend/internal/infrastructure/telemetry"
	"github.com/keystone/backend/internal/interfaces/http/handler"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
	"github.com/keystone/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/keystone/backend/docs"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Keystone API
//	@version		1.0
//	@description	Real estate portfolio management: properties, documents with AI extraction, decision records and the Forge admin area.

//	@contact.name	Keystone Support
//	@contact.email	support@keystone.example.com

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from the auth provider. Format: "Bearer {token}"

//	@securityDefinitions.apikey	RunnerKey
//	@in							header
//	@name						X-Forge-Runner-Key

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// OTLP log export is teed into the application logger
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             logger.ParseLevel(cfg.Telemetry.LogsLevel),
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.Telemetry.ServiceName,
		Env:     cfg.App.Env,
	}, logProvider.Core())
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Keystone",
		zap.String("app", cfg.App.Name),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeURL,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh),
	))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentGorm(db.DB, telemetry.GormConfig{
		Tracing:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		FullSQL:            cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:           "postgresql",
		Meter:              meterProvider.Meter("gorm"),
	}, log); err != nil {
		log.Warn("Database instrumentation disabled", zap.Error(err))
	}
	log.Info("Database connected")

	// Redis backs the dashboard cache and the session revocation list.
	// Without it both fall back to process memory.
	var (
		redisClient *redis.Client
		readCache   wealthapp.Cache = cache.NewInMemoryStore()
		revocations interface {
			middleware.RevocationChecker
			handler.SessionRevoker
		} = auth.NewInMemoryRevocationList()
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		readCache = cache.NewRedisStore(redisClient, "keystone:")
		revocations = auth.NewRedisRevocationList(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	objectStorage, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	extractor, err := newExtractor(cfg)
	if err != nil {
		log.Fatal("Failed to initialize document extractor", zap.Error(err))
	}

	verifier, err := auth.NewSessionVerifier(cfg.Auth)
	if err != nil {
		log.Fatal("Failed to initialize session verifier", zap.Error(err))
	}

	glossary, err := learning.DefaultGlossary()
	if err != nil {
		log.Fatal("Failed to load glossary", zap.Error(err))
	}

	// Repositories
	portfolioRepo := persistence.NewGormPortfolioRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	communicationRepo := persistence.NewGormCommunicationRepository(db.DB)
	decisionRepo := persistence.NewGormDecisionRepository(db.DB)
	registryRepo := persistence.NewGormRegistryRepository(db.DB)
	progressRepo := persistence.NewGormProgressRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	executionRepo := persistence.NewGormExecutionRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	runnerKeyRepo := persistence.NewGormRunnerKeyRepository(db.DB)

	// Application services
	portfolioService := portfolioapp.NewPortfolioService(portfolioRepo, memberRepo)
	invitationService := portfolioapp.NewInvitationService(invitationRepo, memberRepo, portfolioRepo,
		portfolioapp.InvitationConfig{
			DefaultTTL:    cfg.Invitation.DefaultTTL,
			MinTTL:        cfg.Invitation.MinTTL,
			MaxTTL:        cfg.Invitation.MaxTTL,
			AcceptBaseURL: cfg.App.PublicURL,
		}, log)
	journeyService := wealthapp.NewJourneyService(propertyRepo, readCache, cfg.Cache.DashboardTTL, log)
	propertyService := propertyapp.NewPropertyService(propertyRepo, journeyService, log)
	processor := documentapp.NewProcessor(documentRepo, objectStorage, extractor, documentapp.ProcessorConfig{
		Timeout:    cfg.Document.ProcessingTimeout,
		MaxBytes:   cfg.Document.MaxUploadSize,
		StaleAfter: cfg.Document.StaleAfter,
	}, log)
	documentService := documentapp.NewDocumentService(documentRepo, objectStorage, propertyService, processor,
		documentapp.ServiceConfig{
			MaxUploadSize: cfg.Document.MaxUploadSize,
			PresignExpiry: cfg.Storage.PresignExpiry,
		}, log)
	communicationService := recordapp.NewCommunicationService(communicationRepo, propertyService)
	decisionService := recordapp.NewDecisionService(decisionRepo, propertyService)
	registryService := recordapp.NewRegistryService(registryRepo, propertyService)
	learningService := learningapp.NewLearningService(glossary, progressRepo, log)
	budgetService := forgeapp.NewBudgetService(budgetRepo, forge.BudgetLimits{
		TokenLimit:     cfg.Forge.DefaultMonthlyTokenLimit,
		AlertThreshold: cfg.Forge.DefaultAlertThreshold,
	})
	ticketService := forgeapp.NewTicketService(ticketRepo, cfg.Forge.TicketKeyPrefix, log)
	executionService := forgeapp.NewExecutionService(ticketRepo, executionRepo, budgetService, log)
	runnerKeyService := forgeapp.NewRunnerKeyService(runnerKeyRepo, log)

	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("keystone.business"),
			Logger:        log,
			GaugeProvider: telemetry.NewGormGaugeProvider(db.DB),
		})
		if err != nil {
			log.Warn("Business metrics disabled", zap.Error(err))
		} else {
			processor.SetMetrics(businessMetrics)
			invitationService.SetMetrics(businessMetrics)
			executionService.SetMetrics(businessMetrics)
			businessMetrics.StartPeriodicCollection(ctx, time.Minute)
		}
	}

	sweeper, err := scheduler.New(scheduler.Config{
		Enabled:    cfg.Scheduler.Enabled,
		JobTimeout: cfg.Scheduler.JobTimeout,
		RunOnStart: true,
	}, log,
		scheduler.InvitationExpiryJob(invitationService, cfg.Scheduler.InvitationExpiryPeriod),
		scheduler.StaleDocumentJob(processor, cfg.Scheduler.StaleDocumentPeriod),
	)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validations", zap.Error(err))
	}

	checks := map[string]handler.Pinger{
		"database": handler.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	inviteLimiter := middleware.NewRateLimiter(cfg.HTTP.InviteRateLimitRequests, cfg.HTTP.InviteRateLimitWindow)
	defer inviteLimiter.Stop()

	engine := router.New(router.Dependencies{
		Config: cfg,
		Logger: log,
		Handlers: router.Handlers{
			System: handler.NewSystemHandler(handler.SystemConfig{
				Version:        version,
				Checks:         checks,
				ForgeAdminRole: cfg.Auth.ForgeAdminRole,
			}, revocations, log),
			Portfolio:     handler.NewPortfolioHandler(portfolioService),
			Invitation:    handler.NewInvitationHandler(invitationService),
			Property:      handler.NewPropertyHandler(propertyService),
			Document:      handler.NewDocumentHandler(documentService),
			Communication: handler.NewCommunicationHandler(communicationService),
			Decision:      handler.NewDecisionHandler(decisionService),
			Registry:      handler.NewRegistryHandler(registryService),
			Wealth:        handler.NewWealthHandler(journeyService),
			Learning:      handler.NewLearningHandler(learningService),
			Forge:         handler.NewForgeHandler(ticketService, executionService, budgetService, runnerKeyService),
		},
		Verifier:      verifier,
		Revocations:   revocations,
		Access:        portfolioService,
		Runners:       runnerKeyService,
		RateLimiter:   rateLimiter,
		InviteLimiter: inviteLimiter,
		MeterProvider: meterProvider,
		Prometheus:    middleware.NewPrometheusMetrics("keystone"),
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sweeper.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	// In-flight extraction runs finish or hit their own timeout
	if err := processor.Wait(shutdownCtx); err != nil {
		log.Warn("Document processing still running at shutdown", zap.Error(err))
	}
	if businessMetrics != nil {
		businessMetrics.Stop()
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		bootLog.Warn("Log provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3 storage, or process memory for local development
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (documentapp.ObjectStorage, error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn("Using in-memory object storage; uploads are lost on restart")
		return storage.NewInMemoryObjectStorage(cfg.App.PublicURL), nil
	}
	s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.CreateBucket {
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
	}
	return s3, nil
}

// newExtractor returns the Messages API extractor, or the placeholder stub for development
func newExtractor(cfg *config.Config) (documentapp.Extractor, error) {
	if cfg.Extraction.Provider == "stub" {
		return extraction.NewStubExtractor(), nil
	}
	return extraction.NewAnthropicExtractor(extraction.Config{
		BaseURL:        cfg.Extraction.BaseURL,
		APIKey:         cfg.Extraction.APIKey,
		Model:          cfg.Extraction.Model,
		APIVersion:     cfg.Extraction.APIVersion,
		MaxTokens:      cfg.Extraction.MaxTokens,
		Timeout:        cfg.Extraction.Timeout,
		MaxResponseLen: cfg.Extraction.MaxResponseLen,
	})
}
