package lootdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Item is a catalog row for a grantable reward item.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:it"`

	ID     sharedtypes.ItemID `bun:"id,pk"`
	Name   string             `bun:"name,notnull"`
	Emoji  string             `bun:"emoji"`
	Icon   string             `bun:"icon"`
	Rarity loottypes.RarityTier `bun:"rarity,notnull"`
}

// LootTable is an authored reward pool: per-tier item id lists plus a
// tier weight map, both stored as jsonb.
type LootTable struct {
	bun.BaseModel `bun:"table:loot_tables,alias:lt"`

	ID        int64                `bun:"id,pk,autoincrement"`
	Name      string               `bun:"name,notnull,unique"`
	EnemyType string               `bun:"enemy_type,nullzero"`
	Items     map[string][]string  `bun:"items,type:jsonb,notnull"`
	Weights   map[string]float64   `bun:"weights,type:jsonb"`
	CreatedAt time.Time            `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Chest is an authored chest definition: tier, pool, roll count and
// flat bonuses.
type Chest struct {
	bun.BaseModel `bun:"table:chests,alias:c"`

	ID            int64               `bun:"id,pk,autoincrement"`
	ChestType     loottypes.ChestTier `bun:"chest_type,notnull,unique"`
	LootTableName string              `bun:"loot_table_name,notnull"`
	ItemCount     int                 `bun:"item_count,notnull,default:1"`
	BonusFunds    int                 `bun:"bonus_funds,notnull,default:0"`
	BonusXP       int                 `bun:"bonus_xp,notnull,default:0"`
}

// UserChest is one chest instance owned by a recipient. Opened is the
// single-use flag; flipping it is the unit of mutual exclusion for
// concurrent opens.
type UserChest struct {
	bun.BaseModel `bun:"table:user_chests,alias:uc"`

	ID        uuid.UUID          `bun:"id,pk,type:uuid"`
	UserID    sharedtypes.UserID `bun:"user_id,notnull"`
	ChestID   int64              `bun:"chest_id,notnull"`
	Opened    bool               `bun:"opened,notnull,default:false"`
	CreatedAt time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Chest *Chest `bun:"rel:belongs-to,join:chest_id=id"`
}

var _ bun.BeforeInsertHook = (*UserChest)(nil)

func (uc *UserChest) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if uc.ID == uuid.Nil {
		uc.ID = uuid.New()
	}
	return nil
}

// InventoryGrant is the immutable audit row for one granted reward. The
// most recent rows double as smart-drop history.
type InventoryGrant struct {
	bun.BaseModel `bun:"table:inventory_grants,alias:ig"`

	ID        uuid.UUID            `bun:"id,pk,type:uuid"`
	UserID    sharedtypes.UserID   `bun:"user_id,notnull"`
	ItemID    sharedtypes.ItemID   `bun:"item_id,notnull"`
	Rarity    loottypes.RarityTier `bun:"rarity,notnull"`
	CreatedAt time.Time            `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*InventoryGrant)(nil)

func (g *InventoryGrant) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Wallet tracks a recipient's soft currency and experience totals.
type Wallet struct {
	bun.BaseModel `bun:"table:player_wallets,alias:w"`

	UserID    sharedtypes.UserID `bun:"user_id,pk"`
	Funds     int64              `bun:"funds,notnull,default:0"`
	XP        int64              `bun:"xp,notnull,default:0"`
	UpdatedAt time.Time          `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
