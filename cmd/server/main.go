package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/renovabill/backend/internal/application/billing"
	collaboratorapp "github.com/renovabill/backend/internal/application/collaborator"
	"github.com/renovabill/backend/internal/infrastructure/config"
	"github.com/renovabill/backend/internal/infrastructure/logger"
	"github.com/renovabill/backend/internal/infrastructure/persistence"
	"github.com/renovabill/backend/internal/infrastructure/telemetry"
	"github.com/renovabill/backend/internal/interfaces/http/handler"
	"github.com/renovabill/backend/internal/interfaces/http/middleware"
	"github.com/renovabill/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			RenovaBill API
//	@version		1.0
//	@description	Billing backend for energy renovation work: collaborator rates, monthly invoicing and government funding claims

//	@host		localhost:8080
//	@BasePath	/api/v1

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

	log.Info("Starting RenovaBill backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing (optional, OTLP over gRPC)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Register database tracing when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: cfg.App.Env == "production",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	collaboratorRepo := persistence.NewGormCollaboratorRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	monthlyInvoiceRepo := persistence.NewGormMonthlyInvoiceRepository(db.DB)
	governmentInvoiceRepo := persistence.NewGormGovernmentInvoiceRepository(db.DB)

	// Initialize application services
	collaboratorService := collaboratorapp.NewCollaboratorService(collaboratorRepo)
	activityService := billingapp.NewActivityService(activityRepo, collaboratorRepo, int32(cfg.Billing.CurrencyPrecision), log)
	invoiceService := billingapp.NewInvoiceService(monthlyInvoiceRepo, activityRepo, collaboratorRepo, log)
	governmentService := billingapp.NewGovernmentInvoiceService(governmentInvoiceRepo, cfg.Billing.PaymentLag(), log)
	statisticsService := billingapp.NewStatisticsService(monthlyInvoiceRepo, governmentInvoiceRepo)

	// Initialize HTTP handlers
	collaboratorHandler := handler.NewCollaboratorHandler(collaboratorService)
	activityHandler := handler.NewActivityHandler(activityService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, statisticsService)
	governmentHandler := handler.NewGovernmentInvoiceHandler(governmentService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register JSON tag names for validation error messages
	middleware.SetupValidator()

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
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Collaborator routes
	collaboratorRoutes := router.NewDomainGroup("collaborators", "/collaborators")
	collaboratorRoutes.POST("", collaboratorHandler.Create)
	collaboratorRoutes.GET("", collaboratorHandler.List)
	collaboratorRoutes.GET("/:id", collaboratorHandler.GetByID)
	collaboratorRoutes.PATCH("/:id", collaboratorHandler.Update)
	collaboratorRoutes.POST("/:id/deactivate", collaboratorHandler.Deactivate)
	collaboratorRoutes.POST("/:id/reactivate", collaboratorHandler.Reactivate)

	// Billable activity routes
	activityRoutes := router.NewDomainGroup("activities", "/activities")
	activityRoutes.POST("", activityHandler.Record)
	activityRoutes.GET("", activityHandler.List)
	activityRoutes.GET("/:id", activityHandler.GetByID)

	// Monthly invoice routes
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.POST("/bill", invoiceHandler.Bill)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/:id", invoiceHandler.GetByID)
	invoiceRoutes.POST("/:id/send", invoiceHandler.MarkSent)
	invoiceRoutes.POST("/:id/pay", invoiceHandler.MarkPaid)

	// Government claim routes
	governmentRoutes := router.NewDomainGroup("government-invoices", "/government-invoices")
	governmentRoutes.POST("", governmentHandler.Submit)
	governmentRoutes.GET("", governmentHandler.List)
	governmentRoutes.GET("/:id", governmentHandler.GetByID)
	governmentRoutes.POST("/:id/transition", governmentHandler.Transition)

	// Statistics routes
	statisticsRoutes := router.NewDomainGroup("statistics", "/statistics")
	statisticsRoutes.GET("/monthly", invoiceHandler.MonthlyStatistics)
	statisticsRoutes.GET("/government", invoiceHandler.GovernmentStatistics)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(collaboratorRoutes).
		Register(activityRoutes).
		Register(invoiceRoutes).
		Register(governmentRoutes).
		Register(statisticsRoutes).
		Register(systemRoutes)

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
