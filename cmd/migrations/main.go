package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/quickpoll/internal/adapters/repository"
	"github.com/vncsmyrnk/quickpoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/quickpoll/internal/config"
)

// Usage: migrations [flags] [up|down]
//
// "up" (the default) applies every pending migration. "down" reverts the
// latest PostgreSQL migration.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	logger := cfg.NewLogger(os.Stderr)

	direction := "up"
	if len(cfg.Args) > 0 {
		direction = cfg.Args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, direction, logger); err != nil {
		logger.Error("migration failed", "direction", direction, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, direction string, logger *slog.Logger) error {
	switch direction {
	case "up":
		// Open applies pending migrations before returning.
		store, err := repository.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("migrations applied", "database", cfg.DatabaseType)
		return nil

	case "down":
		if cfg.DatabaseType != config.DatabasePostgres {
			return fmt.Errorf("rollback is not supported on %s", cfg.DatabaseType)
		}
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := postgres.Rollback(ctx, db)
		if err != nil {
			return err
		}
		if version == "" {
			logger.Info("nothing to roll back")
			return nil
		}
		logger.Info("migration reverted", "version", version)
		return nil

	default:
		return fmt.Errorf("unknown direction %q (want up or down)", direction)
	}
}
