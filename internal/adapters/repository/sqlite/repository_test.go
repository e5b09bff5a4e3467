package sqlite

import (
	"context"
	"database/sql"
	"net/netip"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "quickpoll.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func newPoll(title string, pollType domain.PollType, createdAt time.Time, lifetime time.Duration, options ...string) domain.NewPoll {
	return domain.NewPoll{
		Title:     title,
		Type:      pollType,
		CreatedAt: createdAt,
		Expiry: domain.Expiry{
			TimeoutAt: createdAt.Add(lifetime),
			DeleteAt:  createdAt.Add(lifetime),
		},
		Options: options,
	}
}

func TestCreateWithOptions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	poll, err := repo.CreateWithOptions(ctx, newPoll("Dinner", domain.PollTypeMultiple, now, time.Hour, "A", "B", "C"))
	require.NoError(t, err)

	assert.NotZero(t, poll.ID)
	assert.Equal(t, "Dinner", poll.Title)
	assert.Equal(t, domain.PollTypeMultiple, poll.Type)
	assert.Equal(t, now, poll.CreatedAt)
	assert.Equal(t, now.Add(time.Hour), poll.TimeoutAt)
	assert.Equal(t, now.Add(time.Hour), poll.DeleteAt)
	require.Len(t, poll.Options, 3)
	for i, name := range []string{"A", "B", "C"} {
		assert.Equal(t, name, poll.Options[i].Name)
		assert.Equal(t, poll.ID, poll.Options[i].PollID)
	}

	fetched, err := repo.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, poll, fetched)
}

func TestCreateWithOptionsRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()

	// The second option violates UNIQUE (poll_id, name) after the poll row
	// was already inserted inside the transaction.
	_, err := repo.CreateWithOptions(ctx, newPoll("Broken", domain.PollTypeSingle, time.Now(), time.Hour, "A", "A"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	polls, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, polls)

	var options int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM poll_option`).Scan(&options))
	assert.Zero(t, options)
}

func TestGetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetOption(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)

	_, err = NewVoteRepository(db).GetPollTypeForOption(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)
}

func TestListPolls(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := repo.CreateWithOptions(ctx, newPoll("First", domain.PollTypeSingle, now, time.Hour, "A", "B"))
	require.NoError(t, err)
	second, err := repo.CreateWithOptions(ctx, newPoll("Second", domain.PollTypeMultiple, now.Add(time.Second), time.Hour, "A", "B"))
	require.NoError(t, err)

	polls, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 2)
	assert.Equal(t, first.ID, polls[0].ID)
	assert.Equal(t, second.ID, polls[1].ID)
	assert.Empty(t, polls[0].Options)
}

func TestVotes(t *testing.T) {
	db := setupTestDB(t)
	polls := NewPollRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()
	voter := netip.MustParsePrefix("192.0.2.7/32")
	other := netip.MustParsePrefix("2001:db8::1/128")

	poll, err := polls.CreateWithOptions(ctx, newPoll("Lunch", domain.PollTypeSingle, time.Now(), time.Hour, "Pizza", "Sushi"))
	require.NoError(t, err)
	pizza, sushi := poll.Options[0], poll.Options[1]

	pollType, err := votes.GetPollTypeForOption(ctx, pizza.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PollTypeSingle, pollType)

	voted, err := votes.HasVotedInPoll(ctx, voter, poll.ID)
	require.NoError(t, err)
	assert.False(t, voted)

	vote, err := votes.SaveVote(ctx, pizza.ID, voter)
	require.NoError(t, err)
	assert.NotZero(t, vote.ID)
	assert.Equal(t, pizza.ID, vote.OptionID)
	assert.Equal(t, voter, vote.Voter)

	_, err = votes.SaveVote(ctx, sushi.ID, other)
	require.NoError(t, err)

	found, err := votes.GetByVoterAndOption(ctx, voter, pizza.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, vote.ID, found[0].ID)

	found, err = votes.GetByVoterAndOption(ctx, voter, sushi.ID)
	require.NoError(t, err)
	assert.Empty(t, found)

	voted, err = votes.HasVotedInPoll(ctx, voter, poll.ID)
	require.NoError(t, err)
	assert.True(t, voted)

	_, err = votes.SaveVote(ctx, pizza.ID, voter)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = votes.SaveVote(ctx, 9999, voter)
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)
}

func TestCountVotes(t *testing.T) {
	db := setupTestDB(t)
	polls := NewPollRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	poll, err := polls.CreateWithOptions(ctx, newPoll("Colour", domain.PollTypeMultiple, time.Now(), time.Hour, "Red", "Green", "Blue"))
	require.NoError(t, err)

	for _, addr := range []string{"10.0.0.1/32", "10.0.0.2/32"} {
		_, err := votes.SaveVote(ctx, poll.Options[0].ID, netip.MustParsePrefix(addr))
		require.NoError(t, err)
	}
	_, err = votes.SaveVote(ctx, poll.Options[1].ID, netip.MustParsePrefix("10.0.0.1/32"))
	require.NoError(t, err)

	counts, err := polls.CountVotes(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, counts, 3)
	assert.Equal(t, domain.OptionCount{PollID: poll.ID, OptionID: poll.Options[0].ID, OptionName: "Red", Count: 2}, counts[0])
	assert.Equal(t, int64(1), counts[1].Count)
	assert.Equal(t, int64(0), counts[2].Count)

	counts, err = polls.CountVotes(ctx, poll.ID+100)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	polls := NewPollRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	expired, err := polls.CreateWithOptions(ctx, newPoll("Old", domain.PollTypeSingle, now.Add(-2*time.Hour), time.Hour, "A", "B"))
	require.NoError(t, err)
	boundary, err := polls.CreateWithOptions(ctx, newPoll("Boundary", domain.PollTypeSingle, now.Add(-time.Hour), time.Hour, "A", "B"))
	require.NoError(t, err)
	alive, err := polls.CreateWithOptions(ctx, newPoll("Fresh", domain.PollTypeSingle, now, time.Hour, "A", "B"))
	require.NoError(t, err)

	_, err = votes.SaveVote(ctx, expired.Options[0].ID, netip.MustParsePrefix("10.0.0.1/32"))
	require.NoError(t, err)

	deleted, err := polls.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = polls.GetByID(ctx, expired.ID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
	_, err = polls.GetByID(ctx, boundary.ID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
	_, err = polls.GetOption(ctx, expired.Options[0].ID)
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)

	var remainingVotes int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM poll_vote`).Scan(&remainingVotes))
	assert.Zero(t, remainingVotes)

	_, err = polls.GetByID(ctx, alive.ID)
	assert.NoError(t, err)

	deleted, err = polls.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, Migrate(context.Background(), db))
}

func TestFarFutureExpiryRoundTrips(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	farAway := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)

	onlyDelete := newPoll("Centuries", domain.PollTypeSingle, now, time.Hour, "A", "B")
	onlyDelete.Expiry.DeleteAt = farAway
	first, err := repo.CreateWithOptions(ctx, onlyDelete)
	require.NoError(t, err)
	assert.Equal(t, farAway, first.DeleteAt)

	both := newPoll("Also centuries", domain.PollTypeMultiple, now, time.Hour, "A", "B")
	both.Expiry = domain.Expiry{TimeoutAt: farAway, DeleteAt: farAway}
	second, err := repo.CreateWithOptions(ctx, both)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, farAway, fetched.TimeoutAt)
	assert.Equal(t, farAway, fetched.DeleteAt)

	deleted, err := repo.DeleteExpired(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)

	polls, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, polls, 2)
}
