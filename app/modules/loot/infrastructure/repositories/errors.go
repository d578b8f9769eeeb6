package lootdb

import "errors"

// Sentinel errors for the repository layer. These represent
// infrastructure-level conditions callers may want to handle specially
// (not business-domain errors).
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPoolNotFound indicates no loot table matches the requested name.
	ErrPoolNotFound = errors.New("loot table not found")

	// ErrChestAlreadyOpened indicates the single-use flip matched no rows
	// because the chest instance was already consumed.
	ErrChestAlreadyOpened = errors.New("chest already opened")

	// ErrNoRowsAffected indicates an UPDATE/DELETE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
