/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the fleet roster & certification server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (FLEET_* environment, then flags)
  2. Build the zap logger
  3. Build the roster calendar from the configured anchor
  4. Initialize SQLite store and seed default categories
  5. Start the expiry alert scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080, env FLEET_PORT)
  -db      SQLite database path (default: fleet.db, env FLEET_DB_PATH)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the alert scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/fleet.db"

  # Run with in-memory database and JSON logs
  FLEET_LOG_FORMAT=json ./server -db=":memory:"

  # Alternate roster anchor
  FLEET_ANCHOR_CODE=RP1/2024 FLEET_ANCHOR_START=2024-01-06 ./server

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/fleet-engine/api"
	"github.com/warp/fleet-engine/config"
	"github.com/warp/fleet-engine/logging"
	"github.com/warp/fleet-engine/roster"
	"github.com/warp/fleet-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	rosterCfg, err := cfg.RosterConfig()
	if err != nil {
		return err
	}
	calendar, err := roster.NewCalculator(rosterCfg)
	if err != nil {
		return err
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, calendar, logger)
	if err := handler.SeedCategoriesIfEmpty(context.Background()); err != nil {
		logger.Warn("failed to seed categories", zap.Error(err))
	}

	scheduler := api.NewExpiryAlertScheduler(store, store, calendar, logger)
	scheduler.CheckInterval = cfg.AlertInterval
	scheduler.Enabled = cfg.AlertEnabled
	scheduler.Start()
	defer scheduler.Stop()

	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		Production:     cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		current := calendar.Current(time.Now())
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.DBPath),
			zap.String("env", cfg.Env),
			zap.String("roster_period", current.DisplayCode()),
			zap.Int("days_remaining", current.DaysRemaining),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
