package lootdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Repository defines the contract for loot persistence. All methods take a
// bun.IDB so callers can pass either the root *bun.DB or a transaction.
//
// Error semantics:
//   - ErrNotFound / ErrPoolNotFound: record does not exist
//   - ErrChestAlreadyOpened: single-use flip matched no rows
//   - Other errors: infrastructure failures (connection, query errors)
type Repository interface {
	// GetPool loads a loot table by name and maps it onto the domain
	// RewardPool. Pools with no weight map get the default rarity weights.
	GetPool(ctx context.Context, db bun.IDB, name string) (*loottypes.RewardPool, error)

	// GetPoolByEnemyType loads the most recently authored loot table for an
	// enemy type.
	GetPoolByEnemyType(ctx context.Context, db bun.IDB, enemyType string) (*loottypes.RewardPool, error)

	// RecentGrants returns the newest-first grant history for a recipient.
	RecentGrants(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, limit int) ([]loottypes.GrantRecord, error)

	// SaveGrant persists one granted reward and returns the stored record.
	SaveGrant(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, itemID sharedtypes.ItemID, tier loottypes.RarityTier) (*loottypes.GrantRecord, error)

	// GetItem loads a catalog item.
	GetItem(ctx context.Context, db bun.IDB, itemID sharedtypes.ItemID) (*Item, error)

	// GetChestByType loads the authored definition for a chest tier.
	GetChestByType(ctx context.Context, db bun.IDB, chestType loottypes.ChestTier) (*Chest, error)

	// GetUserChest loads a chest instance with its definition.
	GetUserChest(ctx context.Context, db bun.IDB, id uuid.UUID) (*UserChest, error)

	// MarkChestOpened flips the single-use flag. Returns
	// ErrChestAlreadyOpened when the chest was already consumed, making
	// the check-and-flip atomic under a transaction.
	MarkChestOpened(ctx context.Context, db bun.IDB, id uuid.UUID) error

	// CreateUserChest mints a new unopened chest instance for a recipient.
	CreateUserChest(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, chestID int64) (*UserChest, error)

	// UnopenedChests lists a recipient's unopened chests, newest first.
	UnopenedChests(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, limit int) ([]UserChest, error)

	// HasChestSince reports whether the recipient already received a chest
	// of the given tier at or after the cutoff. Used by the daily grant.
	HasChestSince(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, chestType loottypes.ChestTier, since time.Time) (bool, error)

	// AddFunds credits bonus currency and experience to the recipient's
	// wallet, creating the wallet row on first touch.
	AddFunds(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, funds, xp int) error
}
