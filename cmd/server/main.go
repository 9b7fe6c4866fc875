/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Warp Session Engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config (flag/env via cleanenv)
  2. Set up structured logging for the environment
  3. Initialize SQLite store
  4. Optionally load the quota catalog document
  5. Configure HTTP router and start with graceful shutdown

CONFIGURATION:
  -config          Path to YAML config (or CONFIG_PATH env)
  ENV              local | dev | prod (controls log handler/level)
  STORAGE_PATH     SQLite database path, ":memory:" supported
  CATALOG_PATH     Optional service-definition JSON to load at boot

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration loading
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/session-engine/api"
	"github.com/warp/session-engine/catalog"
	"github.com/warp/session-engine/config"
	"github.com/warp/session-engine/store/sqlite"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	log.Info("starting session-engine",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.StoragePath))

	store, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to initialize database", slog.Any("err", err))
		os.Exit(1)
	}
	defer store.Close()

	if cfg.CatalogPath != "" {
		data, err := os.ReadFile(cfg.CatalogPath)
		if err != nil {
			log.Error("failed to read catalog", slog.Any("err", err))
			os.Exit(1)
		}
		n, err := catalog.Load(context.Background(), store, data)
		if err != nil {
			log.Error("failed to load catalog", slog.Any("err", err))
			os.Exit(1)
		}
		log.Info("catalog loaded", slog.Int("definitions", n))
	}

	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", slog.String("addr", cfg.HTTPServer.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
