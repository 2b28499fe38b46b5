package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	attributionapp "github.com/winroom/backend/internal/application/attribution"
	eventapp "github.com/winroom/backend/internal/application/event"
	financeapp "github.com/winroom/backend/internal/application/finance"
	installmentapp "github.com/winroom/backend/internal/application/installment"
	ledgerapp "github.com/winroom/backend/internal/application/ledger"
	objectionapp "github.com/winroom/backend/internal/application/objection"
	queueapp "github.com/winroom/backend/internal/application/queue"
	reportingapp "github.com/winroom/backend/internal/application/reporting"
	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/infrastructure/auth"
	"github.com/winroom/backend/internal/infrastructure/cache"
	"github.com/winroom/backend/internal/infrastructure/config"
	"github.com/winroom/backend/internal/infrastructure/event"
	"github.com/winroom/backend/internal/infrastructure/logger"
	"github.com/winroom/backend/internal/infrastructure/persistence"
	"github.com/winroom/backend/internal/infrastructure/scheduler"
	"github.com/winroom/backend/internal/interfaces/http/handler"
	"github.com/winroom/backend/internal/interfaces/http/middleware"
	"github.com/winroom/backend/internal/interfaces/http/router"
)

//	@title			Win Room API
//	@version		1.0
//	@description	Sales attribution and financial ledger backend: claim queue, attribution shares, finance approval, installment plans and objections.

//	@contact.name	API Support
//	@contact.email	support@winroom.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting Win Room Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Business thresholds
	ledger.JackpotThresholdUSD = decimal.NewFromInt(cfg.Ledger.JackpotThresholdUSD)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	queueItemRepo := persistence.NewGormQueueItemRepository(db.DB)
	claimRepo := persistence.NewGormClaimRepository(db.DB)
	streakRepo := persistence.NewGormStreakCounterRepository(db.DB)
	attributionRepo := persistence.NewGormAttributionRepository(db.DB)
	planRepo := persistence.NewGormInstallmentPlanRepository(db.DB)
	metricsRepo := persistence.NewGormSaleMetricsRepository(db.DB)
	adjustedRepo := persistence.NewGormAdjustedMetricsRepository(db.DB)
	objectionRepo := persistence.NewGormObjectionRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types. Registration
	// fails if a versioned event is missing part of its upgrader chain.
	eventSerializer := event.NewEventSerializer(log)
	if err := event.RegisterAllEvents(eventSerializer); err != nil {
		log.Fatal("Failed to register domain events", zap.Error(err))
	}

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Inject outbox publisher into repositories that save aggregates with events
	queueItemRepo.SetOutboxEventSaver(outboxPublisher)
	claimRepo.SetOutboxEventSaver(outboxPublisher)
	streakRepo.SetOutboxEventSaver(outboxPublisher)
	attributionRepo.SetOutboxEventSaver(outboxPublisher)
	planRepo.SetOutboxEventSaver(outboxPublisher)
	metricsRepo.SetOutboxEventSaver(outboxPublisher)
	objectionRepo.SetOutboxEventSaver(outboxPublisher)

	// Transaction scopes share the same outbox publisher so events written
	// inside a transaction commit or roll back with the business rows
	queueScope := persistence.NewGormQueueTransactionScope(db.DB)
	queueScope.SetOutboxEventSaver(outboxPublisher)
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)
	ledgerScope.SetOutboxEventSaver(outboxPublisher)
	financeScope := persistence.NewGormFinanceTransactionScope(db.DB)
	financeScope.SetOutboxEventSaver(outboxPublisher)
	objectionScope := persistence.NewGormObjectionTransactionScope(db.DB)
	objectionScope.SetOutboxEventSaver(outboxPublisher)

	// Initialize application services
	queueService := queueapp.NewQueueService(queueItemRepo, claimRepo, metricsRepo, log)
	claimService := queueapp.NewClaimService(queueScope, log)
	attributionService := attributionapp.NewAttributionService(attributionRepo, claimRepo, log)
	financeService := financeapp.NewFinanceService(financeScope, log)
	installmentService := installmentapp.NewInstallmentService(planRepo, claimRepo, attributionRepo, log)
	metricsService := ledgerapp.NewMetricsService(ledgerScope, log)
	adjustmentService := ledgerapp.NewAdjustmentService(ledgerScope, log)
	refundService := ledgerapp.NewRefundService(ledgerScope, log)
	objectionService := objectionapp.NewObjectionService(objectionScope, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Lead counts come from the CRM; no provider is wired yet, so
	// conversion fields in seller stats stay empty
	statsService := reportingapp.NewStatsService(
		attributionRepo, adjustedRepo, queueItemRepo, objectionRepo, nil, log,
	)

	// JWT service for token validation
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Idempotency store for event handlers: Redis when reachable, in-memory otherwise
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Streak milestones award the achievement at most once per counter value
	streakReachedHandler := queueapp.NewStreakReachedHandler(log, idempotencyStore)
	eventBus.Subscribe(streakReachedHandler)

	log.Info("Event handlers registered",
		zap.Strings("streak_reached_events", streakReachedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize and start outbox processor for guaranteed event delivery
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Start the overdue installment sweep
	sweepScheduler := scheduler.NewOverdueSweepScheduler(installmentService, log, scheduler.OverdueSweepSchedulerConfig{
		Enabled:      cfg.Sweep.Enabled,
		Interval:     cfg.Sweep.CheckInterval,
		SweepTimeout: 5 * time.Minute,
	})
	if err := sweepScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start overdue sweep scheduler", zap.Error(err))
	}
	defer func() {
		if err := sweepScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping overdue sweep scheduler", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	queueHandler := handler.NewQueueHandler(queueService, claimService)
	attributionHandler := handler.NewAttributionHandler(attributionService)
	financeHandler := handler.NewFinanceHandler(financeService)
	installmentHandler := handler.NewInstallmentHandler(installmentService)
	ledgerHandler := handler.NewLedgerHandler(metricsService, adjustmentService, refundService)
	objectionHandler := handler.NewObjectionHandler(objectionService)
	reportingHandler := handler.NewReportingHandler(statsService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Per-seller token bucket on claim attempts so a hot sale cannot be
	// hammered by a single seller's retry loop
	claimLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)

	staffOnly := middleware.RequireRoles(auth.RoleStaff, auth.RoleAdmin)
	financeOnly := middleware.RequireRoles(auth.RoleFinance, auth.RoleAdmin)
	adminOnly := middleware.RequireRoles(auth.RoleAdmin)

	// Queue domain (pending sales, exclusion, manual entry)
	queueRoutes := router.NewDomainGroup("queue", "/queue")
	queueRoutes.POST("", staffOnly, queueHandler.ManualEnqueue)
	queueRoutes.GET("", queueHandler.ListPending)
	queueRoutes.GET("/sales/:sale_id", queueHandler.GetBySaleID)
	queueRoutes.POST("/sales/:sale_id/restore", staffOnly, queueHandler.Restore)
	queueRoutes.POST("/:id/exclude", staffOnly, queueHandler.Exclude)
	queueRoutes.PUT("/:id/metrics", staffOnly, ledgerHandler.EditMetrics)

	// Claims domain (claiming, seller views, margin adjustments)
	claimRoutes := router.NewDomainGroup("claims", "/claims")
	claimRoutes.POST("", middleware.RateLimitBySeller(claimLimiter), queueHandler.Claim)
	claimRoutes.GET("/mine", queueHandler.ListMyClaims)
	claimRoutes.GET("/sales/:sale_id", queueHandler.GetClaim)
	claimRoutes.POST("/:id/adjustments", staffOnly, ledgerHandler.AddAdjustment)
	claimRoutes.GET("/:id/adjustments", ledgerHandler.ListAdjustments)
	claimRoutes.DELETE("/:id/adjustments", staffOnly, ledgerHandler.ClearAdjustments)
	claimRoutes.GET("/:id/adjusted-metrics", ledgerHandler.GetAdjustedMetrics)

	// Attribution domain (share splits and reassignment)
	attributionRoutes := router.NewDomainGroup("attribution", "/attributions")
	attributionRoutes.POST("/split", staffOnly, attributionHandler.Split)
	attributionRoutes.POST("/reassign", staffOnly, attributionHandler.Reassign)
	attributionRoutes.GET("/sales/:sale_id", attributionHandler.GetBySaleID)

	// Metrics read side
	metricsRoutes := router.NewDomainGroup("metrics", "/metrics")
	metricsRoutes.GET("/sales/:sale_id", ledgerHandler.GetMetrics)

	// Finance domain (approval gate)
	financeRoutes := router.NewDomainGroup("finance", "/finance")
	financeRoutes.Use(financeOnly)
	financeRoutes.PUT("/queue/:id", financeHandler.UpdateQueueFinance)
	financeRoutes.PUT("/claims/:id", financeHandler.UpdateClaimFinance)
	financeRoutes.GET("/claims", financeHandler.ListAwaitingReview)

	// Refunds (full or partial)
	refundRoutes := router.NewDomainGroup("refund", "/refunds")
	refundRoutes.POST("", financeOnly, ledgerHandler.ApplyRefund)

	// Installment domain (plans, payments, tolerance)
	installmentRoutes := router.NewDomainGroup("installment", "/installments")
	installmentRoutes.POST("", staffOnly, installmentHandler.CreatePlan)
	installmentRoutes.GET("", installmentHandler.ListByStatus)
	installmentRoutes.GET("/dashboard", installmentHandler.Dashboard)
	installmentRoutes.GET("/sales/:sale_id", installmentHandler.GetBySaleID)
	installmentRoutes.POST("/sweep-overdue", adminOnly, installmentHandler.SweepOverdue)
	installmentRoutes.POST("/payments/:id/submit", installmentHandler.SubmitPayment)
	installmentRoutes.POST("/payments/:id/confirm", financeOnly, installmentHandler.ConfirmPayment)
	installmentRoutes.POST("/payments/:id/reject", financeOnly, installmentHandler.RejectPayment)
	installmentRoutes.POST("/payments/:id/tolerance", financeOnly, installmentHandler.AddTolerance)
	installmentRoutes.POST("/:id/freeze", financeOnly, installmentHandler.Freeze)
	installmentRoutes.POST("/:id/unfreeze", financeOnly, installmentHandler.Unfreeze)
	installmentRoutes.POST("/:id/cancel", financeOnly, installmentHandler.Cancel)

	// Objection domain (disputes and admin resolution)
	objectionRoutes := router.NewDomainGroup("objection", "/objections")
	objectionRoutes.POST("", objectionHandler.Raise)
	objectionRoutes.GET("", objectionHandler.ListPending)
	objectionRoutes.GET("/:id", objectionHandler.GetByID)
	objectionRoutes.POST("/:id/resolve", adminOnly, objectionHandler.Resolve)

	// Reporting domain
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/sellers", reportingHandler.SellerStats)
	reportRoutes.GET("/overview", reportingHandler.Overview)

	// System routes, including the outbox dead-letter admin surface
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	outboxRoutes := systemRoutes.Group("outbox", "/outbox")
	outboxRoutes.Use(adminOnly)
	outboxRoutes.GET("/dead", outboxHandler.GetDeadLetterEntries)
	outboxRoutes.POST("/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	outboxRoutes.GET("/stats", outboxHandler.GetStats)
	outboxRoutes.GET("/:id", outboxHandler.GetEntry)
	outboxRoutes.POST("/:id/retry", outboxHandler.RetryDeadEntry)

	// Register all domain groups
	r.Register(queueRoutes).
		Register(claimRoutes).
		Register(attributionRoutes).
		Register(metricsRoutes).
		Register(financeRoutes).
		Register(refundRoutes).
		Register(installmentRoutes).
		Register(objectionRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
