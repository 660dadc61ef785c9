package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"library-lending/internal/adapters/http/middleware"
	"library-lending/internal/adapters/http/routes"
	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/config"
	"library-lending/internal/core/services"
	"library-lending/internal/pkg/logger"
	"library-lending/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "library-lending/docs" // Swagger docs
)

// @title Library Lending API
// @version 1.0
// @description Multi-tenant library lending service

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.AppMode)
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		zapLogger.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		zapLogger.Fatal("❌ Failed to auto migrate", zap.Error(err))
	}
	zapLogger.Info("✅ Database migration completed")

	// Demo data for local development
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			zapLogger.Warn("⚠️ Failed to seed demo data", zap.Error(err))
		}
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	lendingMetrics := metrics.NewLendingMetrics(registry)

	// Initialize services
	store := repositories.NewStore(db)
	ledger := services.NewLendingLedger(store, lendingMetrics, zapLogger)
	loanService := services.NewLoanService(store, ledger, lendingMetrics, zapLogger)
	catalogService := services.NewCatalogService(store, zapLogger)
	authService := services.NewAuthService(store.Repos().Librarians, cfg, zapLogger)

	// Overdue sweep
	cronService, err := services.NewCronService(ledger, lendingMetrics, zapLogger, cfg.Jobs.OverdueSweepCron)
	if err != nil {
		zapLogger.Fatal("❌ Failed to schedule jobs", zap.Error(err))
	}
	cronService.SweepOverdue()
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Library Lending API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, cfg, routes.Dependencies{
		Auth:     authService,
		Catalog:  catalogService,
		Loans:    loanService,
		Gatherer: registry,
		Ping:     config.HealthCheck,
		Logger:   zapLogger,
	})

	// Graceful shutdown
	go gracefulShutdown(app, zapLogger)

	// Start server
	zapLogger.Info("🚀 Server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Error("❌ Failed to start server", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Error("❌ Error during shutdown", zap.Error(err))
	}
	logger.Info("✅ Server stopped gracefully")
}
