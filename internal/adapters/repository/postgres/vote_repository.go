package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/netip"

	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) SaveVote(ctx context.Context, optionID int64, voter netip.Prefix) (*domain.PollVote, error) {
	query := `
		INSERT INTO poll_vote (option_id, ip_address)
		VALUES ($1, $2)
		RETURNING id, option_id, ip_address, created_at
	`
	vote, err := scanVote(r.db.QueryRowContext(ctx, query, optionID, voter.String()))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrOptionNotFound
		}
		return nil, fmt.Errorf("failed to save vote: %w", classify(err))
	}
	return vote, nil
}

func (r *voteRepository) GetByVoterAndOption(ctx context.Context, voter netip.Prefix, optionID int64) ([]domain.PollVote, error) {
	query := `
		SELECT id, option_id, ip_address, created_at
		FROM poll_vote
		WHERE option_id = $1 AND ip_address = $2
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, optionID, voter.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", classify(err))
	}
	defer rows.Close()

	var votes []domain.PollVote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, *vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", classify(err))
	}
	return votes, nil
}

func (r *voteRepository) HasVotedInPoll(ctx context.Context, voter netip.Prefix, pollID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM poll_vote v
			JOIN poll_option o ON o.id = v.option_id
			WHERE o.poll_id = $1 AND v.ip_address = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, pollID, voter.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", classify(err))
	}
	return exists, nil
}

func (r *voteRepository) GetPollTypeForOption(ctx context.Context, optionID int64) (domain.PollType, error) {
	query := `
		SELECT p.poll_type
		FROM poll p
		JOIN poll_option o ON o.poll_id = p.id
		WHERE o.id = $1
	`
	var pollType string
	err := r.db.QueryRowContext(ctx, query, optionID).Scan(&pollType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrOptionNotFound
		}
		return 0, fmt.Errorf("failed to get poll type: %w", classify(err))
	}
	return domain.ParsePollType(pollType)
}

func scanVote(row rowScanner) (*domain.PollVote, error) {
	var (
		vote domain.PollVote
		addr string
	)
	if err := row.Scan(&vote.ID, &vote.OptionID, &addr, &vote.CreatedAt); err != nil {
		return nil, err
	}
	voter, err := domain.ParseVoter(addr)
	if err != nil {
		return nil, err
	}
	vote.Voter = voter
	vote.CreatedAt = vote.CreatedAt.UTC()
	return &vote, nil
}
