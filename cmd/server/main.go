package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/vncsmyrnk/quickpoll/internal/adapters/chart"
	"github.com/vncsmyrnk/quickpoll/internal/adapters/handler/http"
	"github.com/vncsmyrnk/quickpoll/internal/adapters/repository"
	"github.com/vncsmyrnk/quickpoll/internal/config"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
	"github.com/vncsmyrnk/quickpoll/internal/core/services"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	pollService := services.NewPollService(store.Polls, chart.NewSVGRenderer(), ports.SystemClock, logger)
	voteService := services.NewVoteService(store.Polls, store.Votes, logger)
	sweeper := services.NewSweepService(store.Polls, ports.SystemClock, cfg.SweepInterval, logger)

	handler := http.NewHandler(
		http.RouterConfig{
			APIPrefix:  cfg.APIPrefix,
			Endpoints:  cfg.Endpoints,
			TrustProxy: cfg.TrustProxy,
		},
		http.NewPollHandler(pollService, logger),
		http.NewVoteHandler(voteService, logger),
		logger,
	)
	server := &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr, "public_url", cfg.PublicURL, "database", cfg.DatabaseType)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("gracefully shutting down")
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", "error", err)
	}
	wg.Wait()
}
