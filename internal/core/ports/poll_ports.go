package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
)

type PollRepository interface {
	// CreateWithOptions persists the poll and all of its options atomically.
	CreateWithOptions(ctx context.Context, poll domain.NewPoll) (*domain.Poll, error)
	GetByID(ctx context.Context, id int64) (*domain.Poll, error)
	List(ctx context.Context) ([]*domain.Poll, error)
	GetOption(ctx context.Context, id int64) (*domain.PollOption, error)
	CountVotes(ctx context.Context, pollID int64) ([]domain.OptionCount, error)
	// DeleteExpired removes every poll with delete_at <= now, cascading to
	// options and votes, and returns the number of polls removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CreatePollInput struct {
	Title     string
	Type      domain.PollType
	TimeoutAt *time.Time
	DeleteAt  *time.Time
	Options   []string
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id int64) (*domain.Poll, error)
	ListPolls(ctx context.Context) ([]*domain.Poll, error)
	GetOption(ctx context.Context, id int64) (*domain.PollOption, error)
	GetResults(ctx context.Context, pollID int64) ([]domain.OptionCount, error)
	RenderChart(ctx context.Context, pollID int64) ([]byte, error)
}

// ChartRenderer draws aggregated results.
type ChartRenderer interface {
	RenderBarChart(caption string, counts []domain.OptionCount) ([]byte, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock reads the wall clock in UTC.
var SystemClock Clock = systemClock{}
