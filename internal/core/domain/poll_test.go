package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollTypeText(t *testing.T) {
	var got struct {
		Type PollType `json:"poll_type"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"poll_type":"multiple"}`), &got))
	assert.Equal(t, PollTypeMultiple, got.Type)

	err := json.Unmarshal([]byte(`{"poll_type":"ranked"}`), &got)
	assert.Error(t, err)

	out, err := json.Marshal(Poll{Type: PollTypeSingle})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"poll_type":"single"`)

	_, err = json.Marshal(Poll{})
	assert.Error(t, err)
}

func TestErrorClasses(t *testing.T) {
	assert.ErrorIs(t, ErrPollNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrOptionNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrAlreadyVotedForOption, ErrConflict)
	assert.ErrorIs(t, ErrSingleVoteOnly, ErrConflict)
	assert.NotErrorIs(t, ErrSingleVoteOnly, ErrNotFound)
}

func TestPollWireNames(t *testing.T) {
	out, err := json.Marshal(Poll{
		ID:      1,
		Title:   "T",
		Type:    PollTypeMultiple,
		Options: []PollOption{{ID: 2, PollID: 1, Name: "A"}},
	})
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &fields))
	for _, key := range []string{"id", "title", "poll_type", "created_at", "timeout_at", "delete_at", "poll_options"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "pollType")
}
