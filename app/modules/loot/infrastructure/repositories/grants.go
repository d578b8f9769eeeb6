package lootdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

func (r *LootRepository) RecentGrants(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, limit int) ([]loottypes.GrantRecord, error) {
	var rows []InventoryGrant
	err := db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent grants for %s: %w", userID, err)
	}

	records := make([]loottypes.GrantRecord, len(rows))
	for i, row := range rows {
		records[i] = loottypes.GrantRecord{
			ID:        row.ID,
			UserID:    row.UserID,
			Item:      row.ItemID,
			Tier:      row.Rarity,
			GrantedAt: row.CreatedAt,
		}
	}
	return records, nil
}

func (r *LootRepository) SaveGrant(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, itemID sharedtypes.ItemID, tier loottypes.RarityTier) (*loottypes.GrantRecord, error) {
	row := &InventoryGrant{
		UserID: userID,
		ItemID: itemID,
		Rarity: tier,
	}
	if _, err := db.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save grant for %s: %w", userID, err)
	}
	return &loottypes.GrantRecord{
		ID:        row.ID,
		UserID:    row.UserID,
		Item:      row.ItemID,
		Tier:      row.Rarity,
		GrantedAt: row.CreatedAt,
	}, nil
}

func (r *LootRepository) AddFunds(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, funds, xp int) error {
	wallet := &Wallet{
		UserID: userID,
		Funds:  int64(funds),
		XP:     int64(xp),
	}
	_, err := db.NewInsert().
		Model(wallet).
		On("CONFLICT (user_id) DO UPDATE").
		Set("funds = w.funds + EXCLUDED.funds").
		Set("xp = w.xp + EXCLUDED.xp").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to credit wallet for %s: %w", userID, err)
	}
	return nil
}
