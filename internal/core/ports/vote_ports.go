package ports

import (
	"context"
	"net/netip"

	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
)

// VoteRepository holds the narrow vote primitives. SaveVote does not check
// eligibility; VoteService does that before calling it.
type VoteRepository interface {
	SaveVote(ctx context.Context, optionID int64, voter netip.Prefix) (*domain.PollVote, error)
	GetByVoterAndOption(ctx context.Context, voter netip.Prefix, optionID int64) ([]domain.PollVote, error)
	HasVotedInPoll(ctx context.Context, voter netip.Prefix, pollID int64) (bool, error)
	GetPollTypeForOption(ctx context.Context, optionID int64) (domain.PollType, error)
}

type VoteInput struct {
	OptionID int64
	Voter    netip.Prefix
}

type VoteService interface {
	CheckAndCast(ctx context.Context, input VoteInput) (*domain.PollVote, error)
}
