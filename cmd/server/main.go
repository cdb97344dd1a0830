package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/bonfire-demo/backend/internal/metrics"
	"github.com/anonto42/bonfire-demo/backend/internal/repositories"
	"github.com/anonto42/bonfire-demo/backend/internal/router"
	"github.com/anonto42/bonfire-demo/backend/internal/seed"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/anonto42/bonfire-demo/backend/internal/validators"
	"github.com/anonto42/bonfire-demo/backend/pkg/config"
	"github.com/anonto42/bonfire-demo/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.Env)
	appLog := logger.Component(log, "server")

	// Select the entity store
	store, closeStore, err := openStore(cfg, logger.Component(log, "database"))
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize storage")
	}
	defer closeStore()

	bonfireService := services.NewBonfireService(store, logger.Component(log, "bonfire"))
	authService, err := services.NewAuthService(bonfireService, cfg.JWTSecret, logger.Component(log, "auth"))
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize auth service")
	}

	if cfg.SeedMockData {
		seeder := seed.NewSeeder(bonfireService, 0, logger.Component(log, "seed"))
		if _, err := seeder.Run(context.Background()); err != nil {
			appLog.WithError(err).Fatal("Failed to seed mock data")
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Validator
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e, logger.Component(log, "http"))

	// Setup routes and dependencies
	err = router.SetupRoutes(e, router.Dependencies{
		Bonfire:          bonfireService,
		Auth:             authService,
		DefaultLoginMode: cfg.APIMode,
		Log:              logger.Component(log, "router"),
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to configure routes")
	}

	metricsServer := startMetricsServer(cfg.MetricsPort, appLog)

	// Start server
	go func() {
		appLog.WithField("port", cfg.Port).Info("Server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Fatal("Server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		appLog.WithError(err).Error("Server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			appLog.WithError(err).Error("Metrics server shutdown failed")
		}
	}
}

// openStore returns the configured Store and a function releasing its connections.
func openStore(cfg *config.Config, log *logrus.Entry) (repositories.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Info("Using in-memory storage; data is lost on restart")
		return repositories.NewMemStorage(), func() {}, nil
	case config.StorageDatabase:
		// Initialize database connections
		db, err := config.InitDB(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.Migrate(db.Postgres); err != nil {
			db.CloseDB()
			return nil, nil, err
		}
		log.Info("PostgreSQL auto-migrations completed.")
		return repositories.NewDatabaseStore(db.Postgres, db.Mongo.Database(cfg.MongoDatabase)), db.CloseDB, nil
	default:
		return nil, nil, errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
	}
}

func startMetricsServer(port string, log *logrus.Entry) *http.Server {
	if port == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("port", port).Info("Metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()
	return srv
}
