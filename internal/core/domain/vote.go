package domain

import (
	"net/netip"
	"time"
)

// PollVote is immutable once recorded. It only disappears when its poll is
// swept.
type PollVote struct {
	ID        int64        `json:"id"`
	OptionID  int64        `json:"option_id"`
	Voter     netip.Prefix `json:"ip_address"`
	CreatedAt time.Time    `json:"created_at"`
}
