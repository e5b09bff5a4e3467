package services

import (
	"context"
	"net/netip"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
)

type mockPollRepo struct {
	mock.Mock
}

func (m *mockPollRepo) CreateWithOptions(ctx context.Context, poll domain.NewPoll) (*domain.Poll, error) {
	args := m.Called(ctx, poll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *mockPollRepo) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *mockPollRepo) List(ctx context.Context) ([]*domain.Poll, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Poll), args.Error(1)
}

func (m *mockPollRepo) GetOption(ctx context.Context, id int64) (*domain.PollOption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PollOption), args.Error(1)
}

func (m *mockPollRepo) CountVotes(ctx context.Context, pollID int64) ([]domain.OptionCount, error) {
	args := m.Called(ctx, pollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OptionCount), args.Error(1)
}

func (m *mockPollRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockVoteRepo struct {
	mock.Mock
}

func (m *mockVoteRepo) SaveVote(ctx context.Context, optionID int64, voter netip.Prefix) (*domain.PollVote, error) {
	args := m.Called(ctx, optionID, voter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PollVote), args.Error(1)
}

func (m *mockVoteRepo) GetByVoterAndOption(ctx context.Context, voter netip.Prefix, optionID int64) ([]domain.PollVote, error) {
	args := m.Called(ctx, voter, optionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PollVote), args.Error(1)
}

func (m *mockVoteRepo) HasVotedInPoll(ctx context.Context, voter netip.Prefix, pollID int64) (bool, error) {
	args := m.Called(ctx, voter, pollID)
	return args.Bool(0), args.Error(1)
}

func (m *mockVoteRepo) GetPollTypeForOption(ctx context.Context, optionID int64) (domain.PollType, error) {
	args := m.Called(ctx, optionID)
	return args.Get(0).(domain.PollType), args.Error(1)
}

type mockChart struct {
	mock.Mock
}

func (m *mockChart) RenderBarChart(caption string, counts []domain.OptionCount) ([]byte, error) {
	args := m.Called(caption, counts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
