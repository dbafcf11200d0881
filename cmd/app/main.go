package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/cmd"
	api "backoffice/internal/adapters/in/http"
	"backoffice/internal/adapters/out/postgres"
	"backoffice/internal/logging"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(configs.LogLevel).With("service", "backoffice")
	slog.SetDefault(logger)

	db, caps := openDatabase(configs, logger)

	app := cmd.NewCompositionRoot(configs, db, caps, logger)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("Failed to close connections", "error", err)
		}
	}()

	ctx := context.Background()
	e, err := api.NewRouter(ctx, app.CreateServer(), api.RouterConfig{
		JWTSecret: []byte(configs.JWTSecret),
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	jobManager, err := app.CreateJobManager(ctx)
	if err != nil {
		log.Fatalf("jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("jobs: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + configs.HTTPPort,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("Back office listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown", "error", err)
	}
	jobManager.StopAll()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Back office stopped")
}

func openDatabase(configs cmd.Config, logger *slog.Logger) (*gorm.DB, postgres.SchemaCapabilities) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dsn := postgres.DSN(configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)
	db, err := postgres.Open(ctx, configs.DBDriver, dsn)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err = postgres.Migrate(ctx, db, configs.DBAssignmentTables); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	caps := postgres.DetectCapabilities(ctx, db)
	logger.Info("Database ready", "assignment_junctions", caps.AssignmentJunctions)
	return db, caps
}
