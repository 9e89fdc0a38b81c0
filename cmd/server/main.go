package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	activityapp "github.com/hrms/backend/internal/application/activity"
	attendanceapp "github.com/hrms/backend/internal/application/attendance"
	dashboardapp "github.com/hrms/backend/internal/application/dashboard"
	expenseapp "github.com/hrms/backend/internal/application/expense"
	payrollapp "github.com/hrms/backend/internal/application/payroll"
	standupapp "github.com/hrms/backend/internal/application/standup"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/infrastructure/auth"
	"github.com/hrms/backend/internal/infrastructure/cache"
	"github.com/hrms/backend/internal/infrastructure/config"
	"github.com/hrms/backend/internal/infrastructure/event"
	"github.com/hrms/backend/internal/infrastructure/logger"
	"github.com/hrms/backend/internal/infrastructure/migration"
	"github.com/hrms/backend/internal/infrastructure/persistence"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"github.com/hrms/backend/internal/infrastructure/scheduler"
	"github.com/hrms/backend/internal/infrastructure/telemetry"
	"github.com/hrms/backend/internal/interfaces/http/handler"
	"github.com/hrms/backend/internal/interfaces/http/middleware"
	"github.com/hrms/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Initialize logger
	log := logger.New(cfg.Log, cfg.App.Env)

	// Export logs over OTLP alongside the local output
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log = logProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting HRMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	domainMetrics, err := telemetry.NewAttendanceMetrics(meterProvider.Meter("hrms-backend/attendance"), log)
	if err != nil {
		log.Fatal("Failed to create attendance metrics", zap.Error(err))
	}

	// Apply pending migrations before the connection pool opens
	if cfg.App.AutoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Initialize database connection with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if err := persistence.VerifySchema(db.DB, models.All()...); err != nil {
		log.Fatal("Database schema is out of date, run the migrations", zap.Error(err))
	}

	// Key-value stores: Redis with an in-memory fallback
	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to create key-value stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing key-value stores", zap.Error(err))
		}
	}()

	calendar, err := attendance.NewCalendar(cfg.Attendance.Timezone)
	if err != nil {
		log.Fatal("Invalid attendance timezone", zap.Error(err))
	}

	// Initialize repositories
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	breakRepo := persistence.NewGormBreakRepository(db.DB)
	standupRepo := persistence.NewGormStandupRepository(db.DB)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	accrualRepo := persistence.NewGormAccrualRepository(db.DB)
	revenueRepo := persistence.NewGormRevenueRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)

	// Event bus: activity log and dashboard invalidation react to domain events
	eventBus := event.NewInMemoryEventBus(log, event.WithDeliveryObserver(domainMetrics.ObserveDelivery))
	idempotencyCfg := shared.IdempotencyConfig{
		Enabled: cfg.Event.IdempotencyEnabled,
		TTL:     cfg.Event.IdempotencyTTL,
	}
	idempotencyMetrics := &event.IdempotencyMetrics{}
	for _, h := range []shared.EventHandler{
		activityapp.NewRecorder(activityRepo, calendar.Location(), log),
		dashboardapp.NewInvalidator(stores.Versions, log),
	} {
		eventBus.Subscribe(event.NewIdempotentHandler(h, stores.Events, log,
			event.WithIdempotencyConfig(idempotencyCfg),
			event.WithIdempotencyMetrics(idempotencyMetrics),
		))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Initialize services
	attendanceService := attendanceapp.NewService(
		sessionRepo,
		breakRepo,
		persistence.NewGormAttendanceTransactionScope(db.DB),
		calendar,
		attendanceapp.Config{
			SubtractBreaks: cfg.Attendance.SubtractBreaks,
			SweepBatchSize: cfg.Attendance.SweepBatchSize,
		},
		log,
	)
	attendanceService.SetEventPublisher(eventBus)

	policy, err := payroll.PolicyByName(cfg.Payroll.AllocationStrategy)
	if err != nil {
		log.Fatal("Invalid payroll allocation strategy", zap.Error(err))
	}
	payrollService := payrollapp.NewService(
		accrualRepo,
		revenueRepo,
		payoutRepo,
		persistence.NewGormPayrollTransactionScope(db.DB),
		policy,
		log,
	)
	payrollService.SetEventPublisher(eventBus)

	standupService := standupapp.NewService(standupRepo, calendar, log)
	expenseService := expenseapp.NewService(expenseRepo, calendar, log)
	activityService := activityapp.NewService(activityRepo)
	dashboardService := dashboardapp.NewService(stores.Versions)

	// Background stale-session sweep
	var (
		jobScheduler *scheduler.Scheduler
		cronTrigger  *scheduler.CronTrigger
	)
	if cfg.Scheduler.Enabled && cfg.Attendance.SweepEnabled {
		jobScheduler, err = scheduler.NewScheduler(cfg.Scheduler, log)
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		jobScheduler.Register(scheduler.JobTypeStaleSessionSweep, scheduler.NewSweepExecutor(
			attendanceService,
			func(ctx context.Context, r *attendanceapp.SweepResult, elapsed time.Duration) {
				domainMetrics.ObserveSweep(ctx, r.Scanned, r.Closed, r.Failed, elapsed)
			},
			log,
		))
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}

		cronTrigger = scheduler.NewCronTrigger(jobScheduler, calendar.Location(), log)
		if err := cronTrigger.Schedule(cfg.Attendance.SweepSchedule, scheduler.JobTypeStaleSessionSweep); err != nil {
			log.Fatal("Failed to schedule stale session sweep", zap.Error(err))
		}
		if err := cronTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		log.Info("Stale session sweep scheduled", zap.Time("next_run", cronTrigger.Next()))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. Recovery - Catch panics
	// 2. RequestID - Generate/propagate request ID
	// 3. Logger - Log requests
	// 4. Tracing - One span per request, marked failed on 4xx/5xx
	// 5. Metrics - Request count, latency and sizes
	// 6. Security and CORS headers
	// 7. BodyLimit - Limit request body size
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       meterProvider.IsEnabled(),
		Logger:        log,
	}))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(
		cfg.HTTP.CORSAllowOrigins,
		cfg.HTTP.CORSAllowMethods,
		cfg.HTTP.CORSAllowHeaders,
	)))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Probes (outside API versioning and authentication)
	healthHandler := handler.NewHealthHandler(cfg.App.Name, telemetry.ServiceVersion).
		AddCheck("database", db.Ping).
		AddCheck("schema", func(context.Context) error {
			return persistence.VerifySchema(db.DB, models.All()...)
		}).
		AddCheck("redis", stores.Ping)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	jwtConfig := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
	jwtConfig.Logger = log
	r.Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.TracingAttributeInjector(),
	)

	idempotent := middleware.Idempotency(stores.Requests, cfg.Attendance.IdempotencyTTL)
	for _, group := range router.DomainGroups(router.Handlers{
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Payroll:    handler.NewPayrollHandler(payrollService),
		Standup:    handler.NewStandupHandler(standupService),
		Expense:    handler.NewExpenseHandler(expenseService),
		Activity:   handler.NewActivityHandler(activityService, dashboardService),
	}, idempotent) {
		r.Register(group)
	}
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cronTrigger != nil {
		if err := cronTrigger.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping cron trigger", zap.Error(err))
		}
	}
	if jobScheduler != nil {
		if err := jobScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	stats := idempotencyMetrics.Stats()
	log.Info("Server exited gracefully",
		zap.Int64("events_processed", stats.EventsProcessed),
		zap.Int64("events_duplicate", stats.EventsDuplicate),
		zap.Int64("events_failed", stats.EventsFailed),
	)
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log exporter", zap.Error(err))
	}
}

// runMigrations applies every pending SQL migration
func runMigrations(cfg *config.Config, log *zap.Logger) error {
	m, err := migration.NewFromURL(cfg.Database.DSN(), cfg.App.MigrationsPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return m.Up()
}
