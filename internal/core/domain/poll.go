package domain

import (
	"fmt"
	"time"
)

// PollType decides how many votes a single voter may hold in a poll.
type PollType uint8

const (
	// PollTypeSingle allows one vote per voter across all options.
	PollTypeSingle PollType = iota + 1
	// PollTypeMultiple allows one vote per voter per option.
	PollTypeMultiple
)

func (t PollType) String() string {
	switch t {
	case PollTypeSingle:
		return "single"
	case PollTypeMultiple:
		return "multiple"
	default:
		return fmt.Sprintf("PollType(%d)", uint8(t))
	}
}

// ParsePollType maps the storage and wire encoding back to a PollType.
func ParsePollType(s string) (PollType, error) {
	switch s {
	case "single":
		return PollTypeSingle, nil
	case "multiple":
		return PollTypeMultiple, nil
	default:
		return 0, fmt.Errorf("unknown poll type %q", s)
	}
}

func (t PollType) MarshalText() ([]byte, error) {
	if t != PollTypeSingle && t != PollTypeMultiple {
		return nil, fmt.Errorf("unknown poll type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *PollType) UnmarshalText(text []byte) error {
	parsed, err := ParsePollType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Poll struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Type      PollType     `json:"poll_type"`
	CreatedAt time.Time    `json:"created_at"`
	TimeoutAt time.Time    `json:"timeout_at"`
	DeleteAt  time.Time    `json:"delete_at"`
	Options   []PollOption `json:"poll_options,omitempty"`
}

type PollOption struct {
	ID     int64  `json:"id"`
	PollID int64  `json:"poll_id"`
	Name   string `json:"name"`
}

// NewPoll is a validated poll that has not been persisted yet.
type NewPoll struct {
	Title     string
	Type      PollType
	CreatedAt time.Time
	Expiry    Expiry
	Options   []string
}
