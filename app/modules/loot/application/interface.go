package lootservice

import (
	"context"

	"github.com/google/uuid"

	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	lootdb "github.com/Amberfall-Games/emberquest/app/modules/loot/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Service is the loot module contract consumed by transports.
type Service interface {
	// RollLoot rolls, grants, and notifies one reward from the named pool.
	// A nil success value is the valid "no loot this time" outcome.
	RollLoot(ctx context.Context, userID sharedtypes.UserID, poolName string) (results.OperationResult[*loottypes.RewardResult, error], error)

	// RollFightLoot is RollLoot with the pool resolved by enemy type.
	RollFightLoot(ctx context.Context, userID sharedtypes.UserID, enemyType string) (results.OperationResult[*loottypes.RewardResult, error], error)

	// OpenChest opens a chest instance: tier-scaled rolls plus flat bonuses.
	OpenChest(ctx context.Context, userID sharedtypes.UserID, userChestID uuid.UUID) (results.OperationResult[*loottypes.ChestOpenResult, error], error)

	// GrantDailyChest mints the daily login chest, once per UTC day.
	GrantDailyChest(ctx context.Context, userID sharedtypes.UserID) (results.OperationResult[*lootdb.UserChest, error], error)

	// ListUnopenedChests lists the recipient's unopened chests.
	ListUnopenedChests(ctx context.Context, userID sharedtypes.UserID) ([]lootdb.UserChest, error)
}

var _ Service = (*LootService)(nil)
