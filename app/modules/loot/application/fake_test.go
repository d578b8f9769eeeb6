package lootservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	lootdb "github.com/Amberfall-Games/emberquest/app/modules/loot/infrastructure/repositories"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// ------------------------
// Fake Loot Repo
// ------------------------

type FakeLootRepo struct {
	trace []string

	GetPoolFunc            func(ctx context.Context, db bun.IDB, name string) (*loottypes.RewardPool, error)
	GetPoolByEnemyTypeFunc func(ctx context.Context, db bun.IDB, enemyType string) (*loottypes.RewardPool, error)
	RecentGrantsFunc       func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, limit int) ([]loottypes.GrantRecord, error)
	SaveGrantFunc          func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, itemID sharedtypes.ItemID, tier loottypes.RarityTier) (*loottypes.GrantRecord, error)
	GetItemFunc            func(ctx context.Context, db bun.IDB, itemID sharedtypes.ItemID) (*lootdb.Item, error)
	GetChestByTypeFunc     func(ctx context.Context, db bun.IDB, chestType loottypes.ChestTier) (*lootdb.Chest, error)
	GetUserChestFunc       func(ctx context.Context, db bun.IDB, id uuid.UUID) (*lootdb.UserChest, error)
	MarkChestOpenedFunc    func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	CreateUserChestFunc    func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, chestID int64) (*lootdb.UserChest, error)
	UnopenedChestsFunc     func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, limit int) ([]lootdb.UserChest, error)
	HasChestSinceFunc      func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, chestType loottypes.ChestTier, since time.Time) (bool, error)
	AddFundsFunc           func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, funds, xp int) error
}

func NewFakeLootRepo() *FakeLootRepo {
	return &FakeLootRepo{trace: []string{}}
}

func (f *FakeLootRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLootRepo) GetPool(ctx context.Context, db bun.IDB, name string) (*loottypes.RewardPool, error) {
	f.record("GetPool")
	if f.GetPoolFunc != nil {
		return f.GetPoolFunc(ctx, db, name)
	}
	return nil, lootdb.ErrPoolNotFound
}

func (f *FakeLootRepo) GetPoolByEnemyType(ctx context.Context, db bun.IDB, enemyType string) (*loottypes.RewardPool, error) {
	f.record("GetPoolByEnemyType")
	if f.GetPoolByEnemyTypeFunc != nil {
		return f.GetPoolByEnemyTypeFunc(ctx, db, enemyType)
	}
	return nil, lootdb.ErrPoolNotFound
}

func (f *FakeLootRepo) RecentGrants(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, limit int) ([]loottypes.GrantRecord, error) {
	f.record("RecentGrants")
	if f.RecentGrantsFunc != nil {
		return f.RecentGrantsFunc(ctx, db, userID, limit)
	}
	return nil, nil
}

func (f *FakeLootRepo) SaveGrant(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, itemID sharedtypes.ItemID, tier loottypes.RarityTier) (*loottypes.GrantRecord, error) {
	f.record("SaveGrant")
	if f.SaveGrantFunc != nil {
		return f.SaveGrantFunc(ctx, db, userID, itemID, tier)
	}
	return &loottypes.GrantRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Item:      itemID,
		Tier:      tier,
		GrantedAt: time.Now(),
	}, nil
}

func (f *FakeLootRepo) GetItem(ctx context.Context, db bun.IDB, itemID sharedtypes.ItemID) (*lootdb.Item, error) {
	f.record("GetItem")
	if f.GetItemFunc != nil {
		return f.GetItemFunc(ctx, db, itemID)
	}
	return &lootdb.Item{ID: itemID, Name: string(itemID)}, nil
}

func (f *FakeLootRepo) GetChestByType(ctx context.Context, db bun.IDB, chestType loottypes.ChestTier) (*lootdb.Chest, error) {
	f.record("GetChestByType")
	if f.GetChestByTypeFunc != nil {
		return f.GetChestByTypeFunc(ctx, db, chestType)
	}
	return nil, lootdb.ErrNotFound
}

func (f *FakeLootRepo) GetUserChest(ctx context.Context, db bun.IDB, id uuid.UUID) (*lootdb.UserChest, error) {
	f.record("GetUserChest")
	if f.GetUserChestFunc != nil {
		return f.GetUserChestFunc(ctx, db, id)
	}
	return nil, lootdb.ErrNotFound
}

func (f *FakeLootRepo) MarkChestOpened(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("MarkChestOpened")
	if f.MarkChestOpenedFunc != nil {
		return f.MarkChestOpenedFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeLootRepo) CreateUserChest(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, chestID int64) (*lootdb.UserChest, error) {
	f.record("CreateUserChest")
	if f.CreateUserChestFunc != nil {
		return f.CreateUserChestFunc(ctx, db, userID, chestID)
	}
	return &lootdb.UserChest{
		ID:      uuid.New(),
		UserID:  userID,
		ChestID: chestID,
	}, nil
}

func (f *FakeLootRepo) UnopenedChests(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, limit int) ([]lootdb.UserChest, error) {
	f.record("UnopenedChests")
	if f.UnopenedChestsFunc != nil {
		return f.UnopenedChestsFunc(ctx, db, userID, limit)
	}
	return nil, nil
}

func (f *FakeLootRepo) HasChestSince(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, chestType loottypes.ChestTier, since time.Time) (bool, error) {
	f.record("HasChestSince")
	if f.HasChestSinceFunc != nil {
		return f.HasChestSinceFunc(ctx, db, userID, chestType, since)
	}
	return false, nil
}

func (f *FakeLootRepo) AddFunds(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, funds, xp int) error {
	f.record("AddFunds")
	if f.AddFundsFunc != nil {
		return f.AddFundsFunc(ctx, db, userID, funds, xp)
	}
	return nil
}

// Trace returns a copy of the recorded call sequence for assertions.
func (f *FakeLootRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ lootdb.Repository = (*FakeLootRepo)(nil)

// ------------------------
// Fixed randomness
// ------------------------

// fixedRand replays scripted float and int draws, repeating the final
// value once the script runs out.
type fixedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *fixedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[min(r.fi, len(r.floats)-1)]
	r.fi++
	return v
}

func (r *fixedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[min(r.ii, len(r.ints)-1)]
	r.ii++
	if v >= n {
		return n - 1
	}
	return v
}
