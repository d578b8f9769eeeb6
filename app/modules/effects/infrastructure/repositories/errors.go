package effectsdb

import "errors"

var (
	// ErrNotFound is returned when a requested campaign does not exist.
	ErrNotFound = errors.New("campaign not found")
)
