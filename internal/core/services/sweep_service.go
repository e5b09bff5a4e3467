package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

// DefaultSweepInterval is how often expired polls are purged.
const DefaultSweepInterval = time.Hour

type sweepService struct {
	pollRepo ports.PollRepository
	clock    ports.Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewSweepService(pollRepo ports.PollRepository, clock ports.Clock, interval time.Duration, logger *slog.Logger) ports.Sweeper {
	if clock == nil {
		clock = ports.SystemClock
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &sweepService{
		pollRepo: pollRepo,
		clock:    clock,
		interval: interval,
		logger:   resolveLogger(logger),
	}
}

func (s *sweepService) SweepOnce(ctx context.Context) (int64, error) {
	deleted, err := s.pollRepo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired polls: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("deleted expired polls", "count", deleted)
	}
	return deleted, nil
}

// Run never gives up on errors: a failed sweep is logged and the next tick
// tries again. Missed ticks are dropped, not caught up.
func (s *sweepService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("expiry sweeper started",
		"interval", s.interval.String(),
		"next_run", humanize.Time(s.clock.Now().Add(s.interval)),
	)

	for {
		if _, err := s.SweepOnce(ctx); err != nil {
			s.logger.Error("expiry sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}
