package domain

import "errors"

// Error classes. Concrete errors report their class through errors.Is so
// callers never have to compare messages.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("storage unavailable")
	ErrInternal    = errors.New("internal server error")
)

var (
	ErrPollNotFound   error = notFoundError("no such poll")
	ErrOptionNotFound error = notFoundError("no such poll option")

	ErrAlreadyVotedForOption error = conflictError("already voted for this option")
	ErrSingleVoteOnly        error = conflictError("poll does not allow multiple votes")
)

// ValidationError rejects bad input. Reason is safe to show to clients.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

type conflictError string

func (e conflictError) Error() string { return string(e) }

func (e conflictError) Is(target error) bool { return target == ErrConflict }
