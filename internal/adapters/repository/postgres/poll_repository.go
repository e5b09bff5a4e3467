package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

const pollColumns = `id, title, poll_type, created_at, timeout_at, delete_at`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) CreateWithOptions(ctx context.Context, in domain.NewPoll) (*domain.Poll, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO poll (title, poll_type, created_at, timeout_at, delete_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + pollColumns
	poll, err := scanPoll(tx.QueryRowContext(ctx, queryPoll,
		in.Title, in.Type.String(), in.CreatedAt, in.Expiry.TimeoutAt, in.Expiry.DeleteAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert poll: %w", classify(err))
	}

	queryOption := `
		INSERT INTO poll_option (poll_id, name)
		VALUES ($1, $2)
		RETURNING id, poll_id, name
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare option statement: %w", classify(err))
	}
	defer stmt.Close()

	poll.Options = make([]domain.PollOption, 0, len(in.Options))
	for _, name := range in.Options {
		var opt domain.PollOption
		if err := stmt.QueryRowContext(ctx, poll.ID, name).Scan(&opt.ID, &opt.PollID, &opt.Name); err != nil {
			return nil, fmt.Errorf("failed to insert option: %w", classify(err))
		}
		poll.Options = append(poll.Options, opt)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", classify(err))
	}

	return poll, nil
}

func (r *pollRepository) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	queryPoll := `SELECT ` + pollColumns + ` FROM poll WHERE id = $1`

	poll, err := scanPoll(r.db.QueryRowContext(ctx, queryPoll, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", classify(err))
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return poll, nil
}

func (r *pollRepository) List(ctx context.Context) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM poll ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", classify(err))
	}
	defer rows.Close()

	polls := []*domain.Poll{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", classify(err))
	}
	return polls, nil
}

func (r *pollRepository) GetOption(ctx context.Context, id int64) (*domain.PollOption, error) {
	query := `SELECT id, poll_id, name FROM poll_option WHERE id = $1`

	var opt domain.PollOption
	err := r.db.QueryRowContext(ctx, query, id).Scan(&opt.ID, &opt.PollID, &opt.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOptionNotFound
		}
		return nil, fmt.Errorf("failed to get poll option: %w", classify(err))
	}
	return &opt, nil
}

func (r *pollRepository) CountVotes(ctx context.Context, pollID int64) ([]domain.OptionCount, error) {
	query := `
		SELECT o.poll_id, o.id, o.name, COUNT(v.id)
		FROM poll_option o
		LEFT JOIN poll_vote v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.poll_id, o.id, o.name
		ORDER BY o.id
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", classify(err))
	}
	defer rows.Close()

	counts := []domain.OptionCount{}
	for rows.Next() {
		var c domain.OptionCount
		if err := rows.Scan(&c.PollID, &c.OptionID, &c.OptionName, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", classify(err))
	}
	return counts, nil
}

func (r *pollRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM poll WHERE delete_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired polls: %w", classify(err))
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted poll count: %w", err)
	}
	return deleted, nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID int64) ([]domain.PollOption, error) {
	queryOptions := `
		SELECT id, poll_id, name
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", classify(err))
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", classify(err))
	}
	return options, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*domain.Poll, error) {
	var (
		poll     domain.Poll
		pollType string
	)
	err := row.Scan(&poll.ID, &poll.Title, &pollType, &poll.CreatedAt, &poll.TimeoutAt, &poll.DeleteAt)
	if err != nil {
		return nil, err
	}
	if poll.Type, err = domain.ParsePollType(pollType); err != nil {
		return nil, err
	}
	poll.CreatedAt = poll.CreatedAt.UTC()
	poll.TimeoutAt = poll.TimeoutAt.UTC()
	poll.DeleteAt = poll.DeleteAt.UTC()
	return &poll, nil
}
