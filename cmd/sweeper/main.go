package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/quickpoll/internal/adapters/repository"
	"github.com/vncsmyrnk/quickpoll/internal/config"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
	"github.com/vncsmyrnk/quickpoll/internal/core/services"
)

// sweeper runs a single expiry sweep and exits, for use from cron when the
// server's own sweeper is not enough.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	logger := cfg.NewLogger(os.Stderr)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := repository.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	sweeper := services.NewSweepService(store.Polls, ports.SystemClock, cfg.SweepInterval, logger)

	logger.Info("starting expiry sweep")
	deleted, err := sweeper.SweepOnce(ctx)
	if err != nil {
		logger.Error("expiry sweep failed", "error", err)
		store.Close()
		os.Exit(1)
	}
	logger.Info("expiry sweep completed", "deleted", deleted)
}
