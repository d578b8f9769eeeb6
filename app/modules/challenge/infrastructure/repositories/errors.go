package challengedb

import "errors"

var (
	// ErrNotFound is returned when a requested entry does not exist.
	ErrNotFound = errors.New("entry not found")
	// ErrRatingNotFound is returned when an entry has no automated rating.
	// Callers treat this as a valid state, not a failure.
	ErrRatingNotFound = errors.New("rating not found")
	// ErrDuplicateVote is returned when a voter already voted the same
	// dimension on the same entry.
	ErrDuplicateVote = errors.New("vote already cast")
)
