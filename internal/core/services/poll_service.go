package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

type pollService struct {
	repo   ports.PollRepository
	chart  ports.ChartRenderer
	clock  ports.Clock
	logger *slog.Logger
}

func NewPollService(repo ports.PollRepository, chart ports.ChartRenderer, clock ports.Clock, logger *slog.Logger) ports.PollService {
	if clock == nil {
		clock = ports.SystemClock
	}
	return &pollService{
		repo:   repo,
		chart:  chart,
		clock:  clock,
		logger: resolveLogger(logger),
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	if err := domain.ValidateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := domain.ValidatePollType(input.Type); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	expiry, err := domain.ResolveExpiry(now, input.TimeoutAt, input.DeleteAt)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateOptions(input.Options); err != nil {
		return nil, err
	}

	poll, err := s.repo.CreateWithOptions(ctx, domain.NewPoll{
		Title:     input.Title,
		Type:      input.Type,
		CreatedAt: now,
		Expiry:    expiry,
		Options:   input.Options,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("poll created",
		"poll_id", poll.ID,
		"poll_type", poll.Type.String(),
		"options", len(poll.Options),
		"delete_at", poll.DeleteAt,
	)
	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id int64) (*domain.Poll, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pollService) ListPolls(ctx context.Context) ([]*domain.Poll, error) {
	return s.repo.List(ctx)
}

func (s *pollService) GetOption(ctx context.Context, id int64) (*domain.PollOption, error) {
	return s.repo.GetOption(ctx, id)
}

// GetResults returns the vote count of every option of the poll, zero counts
// included.
func (s *pollService) GetResults(ctx context.Context, pollID int64) ([]domain.OptionCount, error) {
	if _, err := s.repo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return s.repo.CountVotes(ctx, pollID)
}

func (s *pollService) RenderChart(ctx context.Context, pollID int64) ([]byte, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountVotes(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, domain.ErrPollNotFound
	}

	svg, err := s.chart.RenderBarChart(poll.Title, counts)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart for poll %d: %w", pollID, err)
	}
	return svg, nil
}
