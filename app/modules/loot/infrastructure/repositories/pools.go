package lootdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// LootRepository is the bun-backed implementation of Repository.
type LootRepository struct{}

var _ Repository = (*LootRepository)(nil)

// NewRepository returns the bun-backed loot repository.
func NewRepository() *LootRepository { return &LootRepository{} }

func (r *LootRepository) GetPool(ctx context.Context, db bun.IDB, name string) (*loottypes.RewardPool, error) {
	table := new(LootTable)
	err := db.NewSelect().
		Model(table).
		Where("name = ?", name).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, fmt.Errorf("failed to get loot table %q: %w", name, err)
	}
	return mapPool(table), nil
}

func (r *LootRepository) GetPoolByEnemyType(ctx context.Context, db bun.IDB, enemyType string) (*loottypes.RewardPool, error) {
	table := new(LootTable)
	err := db.NewSelect().
		Model(table).
		Where("enemy_type = ?", enemyType).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, fmt.Errorf("failed to get loot table for enemy type %q: %w", enemyType, err)
	}
	return mapPool(table), nil
}

// mapPool converts a stored loot table onto the domain pool. Unknown tier
// keys in the jsonb maps are carried through; Validate rejects them before
// any roll. A missing weight map falls back to the global defaults.
func mapPool(table *LootTable) *loottypes.RewardPool {
	pool := &loottypes.RewardPool{
		Name:    table.Name,
		Items:   make(map[loottypes.RarityTier][]sharedtypes.ItemID, len(table.Items)),
		Weights: make(map[loottypes.RarityTier]float64, len(table.Weights)),
	}
	for tier, ids := range table.Items {
		items := make([]sharedtypes.ItemID, len(ids))
		for i, id := range ids {
			items[i] = sharedtypes.ItemID(id)
		}
		pool.Items[loottypes.RarityTier(tier)] = items
	}
	if len(table.Weights) == 0 {
		for tier, w := range loottypes.DefaultRarityWeights {
			pool.Weights[tier] = w
		}
		return pool
	}
	for tier, w := range table.Weights {
		pool.Weights[loottypes.RarityTier(tier)] = w
	}
	return pool
}

func (r *LootRepository) GetItem(ctx context.Context, db bun.IDB, itemID sharedtypes.ItemID) (*Item, error) {
	item := new(Item)
	err := db.NewSelect().
		Model(item).
		Where("id = ?", itemID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item %q: %w", itemID, err)
	}
	return item, nil
}
