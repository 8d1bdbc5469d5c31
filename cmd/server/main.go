package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/pkg/config"
	"kamgar-sahayak/backend/pkg/di"
	"kamgar-sahayak/backend/pkg/logger"
	"kamgar-sahayak/backend/pkg/observability"
	"kamgar-sahayak/backend/pkg/router"
	"kamgar-sahayak/backend/pkg/secrets"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logConfig.Level = level
	}
	logConfig.JSON = os.Getenv("LOG_FORMAT") != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "version", os.Getenv("APP_VERSION"))

	cfg := config.New()

	// Pull the JWT secret from Vault when one is configured. The env var
	// remains the fallback for local development.
	if err := secrets.Init(log); err != nil {
		log.Warn("Secrets manager unavailable, using environment values", "error", err.Error())
	} else {
		cfg.JWT.Secret = secrets.GetSecretWithDefault(context.Background(), "jwt_secret", cfg.JWT.Secret)
	}

	// Tracing and metrics
	shutdownTracing, err := observability.SetupTracing("kamgar-sahayak-backend")
	if err != nil {
		log.Warn("Tracing setup failed", "error", err.Error())
	} else {
		defer shutdownTracing()
	}

	metrics, err := observability.SetupMetrics()
	if err != nil {
		log.LogError(err, "Failed to set up metrics")
		os.Exit(1)
	}

	// Initialize database. DB_DISABLED=true runs on in-memory stores,
	// used for local development without Postgres.
	var db *gorm.DB
	if os.Getenv("DB_DISABLED") == "true" {
		log.Warn("Database disabled, running with in-memory stores")
	} else {
		db, err = config.NewDB()
		if err != nil {
			log.LogError(err, "Failed to initialize database")
			os.Exit(1)
		}

		if err := db.AutoMigrate(&models.QueryLog{}, &models.AdminUser{}); err != nil {
			log.LogError(err, "Failed to migrate database")
			os.Exit(1)
		}
	}

	// Initialize dependency injection container
	container := di.New(db, log, metrics)
	container.HealthChecker.Start()

	// Initialize the router. Schema validation is installed before route
	// registration so it sits in every route's handler chain.
	r := router.New(container)
	if schemaPath := os.Getenv("OPENAPI_SCHEMA_PATH"); schemaPath != "" {
		r.AddOpenAPIValidation(schemaPath)
	}
	r.SetupRoutes()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r.Engine,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited gracefully")
}
