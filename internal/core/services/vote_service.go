package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	logger   *slog.Logger
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, logger *slog.Logger) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		logger:   resolveLogger(logger),
	}
}

// CheckAndCast records a vote if the voter is still eligible for the option.
//
// A vote for the same option is rejected whatever the poll type, and that
// check runs first. The poll type is only looked up when it passes; a
// single-type poll then rejects voters who already hold a vote on any other
// option of the poll.
//
// The check and the insert are separate statements. Storage enforces
// uniqueness of (option, voter), so a concurrent duplicate for the same option
// still ends as ErrAlreadyVotedForOption. Two concurrent first votes for
// different options of a single-type poll are not serialized.
func (s *voteService) CheckAndCast(ctx context.Context, input ports.VoteInput) (*domain.PollVote, error) {
	option, err := s.pollRepo.GetOption(ctx, input.OptionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.voteRepo.GetByVoterAndOption(ctx, input.Voter, option.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, domain.ErrAlreadyVotedForOption
	}

	pollType, err := s.voteRepo.GetPollTypeForOption(ctx, option.ID)
	if err != nil {
		return nil, err
	}
	if pollType == domain.PollTypeSingle {
		voted, err := s.voteRepo.HasVotedInPoll(ctx, input.Voter, option.PollID)
		if err != nil {
			return nil, err
		}
		if voted {
			return nil, domain.ErrSingleVoteOnly
		}
	}

	vote, err := s.voteRepo.SaveVote(ctx, option.ID, input.Voter)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn("concurrent duplicate vote rejected by storage",
				"option_id", option.ID,
				"poll_id", option.PollID,
			)
			return nil, domain.ErrAlreadyVotedForOption
		}
		return nil, err
	}

	return vote, nil
}
