package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trading-journal/internal/analytics"
	"trading-journal/internal/api"
	"trading-journal/internal/config"
	"trading-journal/internal/database"
	"trading-journal/internal/ledger"
	"trading-journal/internal/logger"
	"trading-journal/internal/trace"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	if err := trace.Init(cfg.Tracing, version); err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	db, err := database.NewDatabase(&cfg, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	log.Info("Database opened and schema migrated", zap.String("dsn", cfg.Database.DSN))

	if cfg.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	l := ledger.New(db, log)
	server, err := api.NewServer(&cfg, analytics.NewEngine(log, l), l, log, version)
	if err != nil {
		log.Fatal("Failed to create API server", zap.Error(err))
	}
	server.Start()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	log.Info("Shutdown signal received, gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Error("API server shutdown failed", zap.Error(err))
	}
	if err := trace.Shutdown(ctx); err != nil {
		log.Error("Tracing shutdown failed", zap.Error(err))
	}

	log.Info("Journal server has been shut down.")
}
