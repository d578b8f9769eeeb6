package lootservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"

	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	lootdb "github.com/Amberfall-Games/emberquest/app/modules/loot/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// streakLength is how many identical common grants in a row trigger the
// smart-drop upgrade.
const streakLength = 3

// resolveRarity draws one tier from the weight map, with probability
// proportional to weight. Tiers are walked in the fixed caller-supplied
// order, subtracting each weight from a uniform draw in [0, totalWeight).
//
// If floating-point drift leaves the remainder positive after the walk,
// the last tier in the order is returned as a deterministic fallback
// rather than failing at runtime. That masks a class of rounding bugs,
// which is why the branch is tested explicitly.
func resolveRarity(weights map[loottypes.RarityTier]float64, order []loottypes.RarityTier, rnd func() float64) (loottypes.RarityTier, error) {
	var total float64
	for _, tier := range order {
		if w := weights[tier]; w > 0 {
			total += w
		}
	}
	if total <= 0 || len(order) == 0 {
		return "", &loottypes.ConfigError{Reason: "no tier has a positive weight"}
	}

	roll := rnd() * total
	for _, tier := range order {
		w := weights[tier]
		if w <= 0 {
			continue
		}
		roll -= w
		if roll <= 0 {
			return tier, nil
		}
	}

	// Rounding drift fallback.
	return order[len(order)-1], nil
}

// upgradeForStreak applies smart-drop protection: a common roll is lifted
// one tier when the three most recent grants (newest first) are the same
// item and all common. Non-common rolls are never touched, and the upgrade
// is a single step, never a re-roll.
func upgradeForStreak(recent []loottypes.GrantRecord, rolled loottypes.RarityTier) (loottypes.RarityTier, bool) {
	if rolled != loottypes.TierCommon {
		return rolled, false
	}
	if len(recent) < streakLength {
		return rolled, false
	}

	streakItem := recent[0].Item
	for _, record := range recent[:streakLength] {
		if record.Item != streakItem || record.Tier != loottypes.TierCommon {
			return rolled, false
		}
	}

	upgraded, ok := rolled.Next()
	if !ok {
		return rolled, false
	}
	return upgraded, true
}

// rollOnce performs one full pure roll against a pool: weighted tier draw,
// smart-drop upgrade, item pick with empty-bucket fallback. A nil result
// means "no loot this time" (the pool had no items to give), which is a
// valid silent outcome, not an error.
func rollOnce(pool *loottypes.RewardPool, recent []loottypes.GrantRecord, rng Rand) (*loottypes.RewardResult, error) {
	if err := pool.Validate(); err != nil {
		return nil, err
	}

	rolled, err := resolveRarity(pool.Weights, pool.TierOrder(), rng.Float64)
	if err != nil {
		return nil, err
	}

	tier, upgraded := upgradeForStreak(recent, rolled)

	items := pool.Items[tier]
	if len(items) == 0 {
		// Empty bucket: fall back to the common list. An upgrade that lands
		// in an empty bucket falls back too and loses the upgrade.
		tier = loottypes.TierCommon
		upgraded = false
		items = pool.Items[loottypes.TierCommon]
		if len(items) == 0 {
			return nil, nil
		}
	}

	item := items[rng.IntN(len(items))]
	return &loottypes.RewardResult{
		Item:     item,
		Tier:     tier,
		Upgraded: upgraded,
	}, nil
}

// RollLoot rolls one reward for the recipient from the named pool, grants
// it, and sends a fire-and-forget notification. A nil success value means
// the roll legitimately produced no loot.
func (s *LootService) RollLoot(
	ctx context.Context,
	userID sharedtypes.UserID,
	poolName string,
) (results.OperationResult[*loottypes.RewardResult, error], error) {
	return withTelemetry(s, ctx, "RollLoot", userID, func(ctx context.Context) (results.OperationResult[*loottypes.RewardResult, error], error) {
		pool, err := s.repo.GetPool(ctx, s.db, poolName)
		if err != nil {
			if errors.Is(err, lootdb.ErrPoolNotFound) {
				s.logger.WarnContext(ctx, "No loot table found",
					slog.String("pool", poolName),
					slog.String("user_id", string(userID)),
				)
				return results.DegradedResult[*loottypes.RewardResult, error](nil, "loot table not found"), nil
			}
			return results.OperationResult[*loottypes.RewardResult, error]{}, fmt.Errorf("failed to load pool: %w", err)
		}

		drop, degradedReason, err := s.rollAndGrant(ctx, s.db, userID, pool)
		if err != nil {
			return results.OperationResult[*loottypes.RewardResult, error]{}, err
		}
		if degradedReason != "" {
			return results.DegradedResult[*loottypes.RewardResult, error](drop, degradedReason), nil
		}
		return results.SuccessResult[*loottypes.RewardResult, error](drop), nil
	})
}

// RollFightLoot rolls one reward for the recipient after a fight,
// resolving the pool by the defeated enemy's type instead of by name.
// Everything past pool resolution is the same path as RollLoot.
func (s *LootService) RollFightLoot(
	ctx context.Context,
	userID sharedtypes.UserID,
	enemyType string,
) (results.OperationResult[*loottypes.RewardResult, error], error) {
	return withTelemetry(s, ctx, "RollFightLoot", userID, func(ctx context.Context) (results.OperationResult[*loottypes.RewardResult, error], error) {
		pool, err := s.repo.GetPoolByEnemyType(ctx, s.db, enemyType)
		if err != nil {
			if errors.Is(err, lootdb.ErrPoolNotFound) {
				s.logger.WarnContext(ctx, "No loot table found for enemy type",
					slog.String("enemy_type", enemyType),
					slog.String("user_id", string(userID)),
				)
				return results.DegradedResult[*loottypes.RewardResult, error](nil, "loot table not found"), nil
			}
			return results.OperationResult[*loottypes.RewardResult, error]{}, fmt.Errorf("failed to load pool: %w", err)
		}

		drop, degradedReason, err := s.rollAndGrant(ctx, s.db, userID, pool)
		if err != nil {
			return results.OperationResult[*loottypes.RewardResult, error]{}, err
		}
		if degradedReason != "" {
			return results.DegradedResult[*loottypes.RewardResult, error](drop, degradedReason), nil
		}
		return results.SuccessResult[*loottypes.RewardResult, error](drop), nil
	})
}

// rollAndGrant is the shared roll-grant-notify path used by single rolls
// and chest opens. The returned reason is non-empty when the roll had to
// proceed without reward history.
func (s *LootService) rollAndGrant(
	ctx context.Context,
	db bun.IDB,
	userID sharedtypes.UserID,
	pool *loottypes.RewardPool,
) (*loottypes.RewardResult, string, error) {
	var degradedReason string

	recent, err := s.repo.RecentGrants(ctx, db, userID, s.historyWindow)
	if err != nil {
		// Losing history only disables the streak-breaker; the roll itself
		// must still happen. Mark the outcome as degraded instead of failing.
		s.logger.WarnContext(ctx, "Reward history unavailable, rolling without smart-drop protection",
			slog.String("user_id", string(userID)),
			slog.Any("error", err),
		)
		recent = nil
		degradedReason = "reward history unavailable"
	}

	drop, err := rollOnce(pool, recent, s.rng)
	if err != nil {
		return nil, "", err
	}
	if drop == nil {
		s.logger.InfoContext(ctx, "Roll produced no loot",
			slog.String("pool", pool.Name),
			slog.String("user_id", string(userID)),
		)
		s.metrics.RecordEmptyPool(ctx, pool.Name)
		return nil, degradedReason, nil
	}

	if drop.Upgraded {
		s.logger.InfoContext(ctx, "Smart-drop protection upgraded roll",
			slog.String("user_id", string(userID)),
			slog.String("tier", string(drop.Tier)),
		)
	}

	if item, err := s.repo.GetItem(ctx, db, drop.Item); err == nil {
		drop.Name = item.Name
	} else if !errors.Is(err, lootdb.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to load item: %w", err)
	}

	if _, err := s.repo.SaveGrant(ctx, db, userID, drop.Item, drop.Tier); err != nil {
		return nil, "", fmt.Errorf("failed to grant reward: %w", err)
	}

	s.metrics.RecordRoll(ctx, pool.Name, string(drop.Tier), drop.Upgraded)
	s.notifier.Notify(ctx, userID, "loot_drop", "You found loot!", fmt.Sprintf("%s %s", drop.Tier, drop.Name))

	return drop, degradedReason, nil
}
