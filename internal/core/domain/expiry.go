package domain

import "time"

// DefaultLifetime is how long a poll accepts votes and stays around when the
// creator does not say otherwise.
const DefaultLifetime = 30 * time.Minute

// Expiry holds the resolved voting cutoff and hard deletion time of a poll.
type Expiry struct {
	TimeoutAt time.Time
	DeleteAt  time.Time
}

// ResolveExpiry validates optional client overrides against now and fills in
// the defaults. The timeout defaults to now+DefaultLifetime and the deletion
// time defaults to the effective timeout, so deleteAt >= timeoutAt always
// holds for the result.
func ResolveExpiry(now time.Time, timeoutOverride, deleteOverride *time.Time) (Expiry, error) {
	timeout := now.Add(DefaultLifetime)
	if timeoutOverride != nil {
		if timeoutOverride.Before(now) {
			return Expiry{}, invalid("timeout is in the past")
		}
		timeout = *timeoutOverride
	}

	deleteAt := timeout
	if deleteOverride != nil {
		if deleteOverride.Before(timeout) {
			return Expiry{}, invalid("delete time precedes timeout")
		}
		deleteAt = *deleteOverride
	}

	return Expiry{TimeoutAt: timeout, DeleteAt: deleteAt}, nil
}
