package lootdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

func (r *LootRepository) GetChestByType(ctx context.Context, db bun.IDB, chestType loottypes.ChestTier) (*Chest, error) {
	chest := new(Chest)
	err := db.NewSelect().
		Model(chest).
		Where("chest_type = ?", chestType).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chest definition %q: %w", chestType, err)
	}
	return chest, nil
}

func (r *LootRepository) GetUserChest(ctx context.Context, db bun.IDB, id uuid.UUID) (*UserChest, error) {
	userChest := new(UserChest)
	err := db.NewSelect().
		Model(userChest).
		Relation("Chest").
		Where("uc.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user chest %s: %w", id, err)
	}
	return userChest, nil
}

func (r *LootRepository) MarkChestOpened(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	res, err := db.NewUpdate().
		Model((*UserChest)(nil)).
		Set("opened = ?", true).
		Where("id = ?", id).
		Where("opened = ?", false).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark chest %s opened: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for chest %s: %w", id, err)
	}
	if affected == 0 {
		return ErrChestAlreadyOpened
	}
	return nil
}

func (r *LootRepository) CreateUserChest(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, chestID int64) (*UserChest, error) {
	userChest := &UserChest{
		UserID:  userID,
		ChestID: chestID,
	}
	if _, err := db.NewInsert().Model(userChest).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create user chest for %s: %w", userID, err)
	}
	return userChest, nil
}

func (r *LootRepository) UnopenedChests(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, limit int) ([]UserChest, error) {
	var chests []UserChest
	err := db.NewSelect().
		Model(&chests).
		Relation("Chest").
		Where("uc.user_id = ?", userID).
		Where("uc.opened = ?", false).
		Order("uc.created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unopened chests for %s: %w", userID, err)
	}
	return chests, nil
}

func (r *LootRepository) HasChestSince(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, chestType loottypes.ChestTier, since time.Time) (bool, error) {
	exists, err := db.NewSelect().
		Model((*UserChest)(nil)).
		Join("JOIN chests AS c ON c.id = uc.chest_id").
		Where("uc.user_id = ?", userID).
		Where("c.chest_type = ?", chestType).
		Where("uc.created_at >= ?", since).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check chest grant for %s: %w", userID, err)
	}
	return exists, nil
}
