package lootservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Amberfall-Games/emberquest/app/eventbus"
	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	lootdb "github.com/Amberfall-Games/emberquest/app/modules/loot/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Service-level chest failures returned inside failure results.
var (
	// ErrChestNotOwned is returned when a recipient tries to open a chest
	// instance that belongs to someone else.
	ErrChestNotOwned = errors.New("chest is not owned by this user")
)

// chestOpenedEvent is the wire shape published after a successful open.
type chestOpenedEvent struct {
	UserID    sharedtypes.UserID `json:"user_id"`
	ChestID   uuid.UUID          `json:"chest_id"`
	ChestType string             `json:"chest_type"`
	Items     int                `json:"items"`
	Funds     int                `json:"bonus_funds"`
	XP        int                `json:"bonus_xp"`
}

// OpenChest opens one chest instance: N independent rolls against the
// chest's pool plus flat tier bonuses. The already-opened check and the
// flag flip happen inside one transaction, so two concurrent opens of the
// same chest cannot both succeed.
func (s *LootService) OpenChest(
	ctx context.Context,
	userID sharedtypes.UserID,
	userChestID uuid.UUID,
) (results.OperationResult[*loottypes.ChestOpenResult, error], error) {
	openTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*loottypes.ChestOpenResult, error], error) {
		userChest, err := s.repo.GetUserChest(ctx, db, userChestID)
		if err != nil {
			if errors.Is(err, lootdb.ErrNotFound) {
				return results.FailureResult[*loottypes.ChestOpenResult, error](lootdb.ErrNotFound), nil
			}
			return results.OperationResult[*loottypes.ChestOpenResult, error]{}, fmt.Errorf("failed to load chest: %w", err)
		}
		if userChest.UserID != userID {
			return results.FailureResult[*loottypes.ChestOpenResult, error](ErrChestNotOwned), nil
		}

		// Flip the single-use flag first; a concurrent open loses here.
		if err := s.repo.MarkChestOpened(ctx, db, userChestID); err != nil {
			if errors.Is(err, lootdb.ErrChestAlreadyOpened) {
				return results.FailureResult[*loottypes.ChestOpenResult, error](lootdb.ErrChestAlreadyOpened), nil
			}
			return results.OperationResult[*loottypes.ChestOpenResult, error]{}, fmt.Errorf("failed to mark chest opened: %w", err)
		}

		def := userChest.Chest
		if def == nil {
			return results.OperationResult[*loottypes.ChestOpenResult, error]{}, fmt.Errorf("chest %s has no definition", userChestID)
		}
		definition := &loottypes.ChestDefinition{
			Tier:          def.ChestType,
			PoolName:      def.LootTableName,
			ItemCount:     def.ItemCount,
			BonusCurrency: def.BonusFunds,
			BonusXP:       def.BonusXP,
		}
		if err := definition.Validate(); err != nil {
			return results.OperationResult[*loottypes.ChestOpenResult, error]{}, err
		}

		pool, err := s.repo.GetPool(ctx, db, definition.PoolName)
		if err != nil {
			return results.OperationResult[*loottypes.ChestOpenResult, error]{}, fmt.Errorf("failed to load pool: %w", err)
		}

		result := &loottypes.ChestOpenResult{
			ChestID:       userChest.ID,
			Tier:          definition.Tier,
			Items:         make([]loottypes.RewardResult, 0, definition.ItemCount),
			BonusCurrency: definition.BonusCurrency,
			BonusXP:       definition.BonusXP,
		}

		degraded := ""
		for i := 0; i < definition.ItemCount; i++ {
			drop, reason, err := s.rollAndGrant(ctx, db, userID, pool)
			if err != nil {
				return results.OperationResult[*loottypes.ChestOpenResult, error]{}, err
			}
			if reason != "" {
				degraded = reason
			}
			if drop != nil {
				result.Items = append(result.Items, *drop)
			}
		}

		if definition.BonusCurrency > 0 || definition.BonusXP > 0 {
			if err := s.repo.AddFunds(ctx, db, userID, definition.BonusCurrency, definition.BonusXP); err != nil {
				return results.OperationResult[*loottypes.ChestOpenResult, error]{}, err
			}
		}

		if degraded != "" {
			return results.DegradedResult[*loottypes.ChestOpenResult, error](result, degraded), nil
		}
		return results.SuccessResult[*loottypes.ChestOpenResult, error](result), nil
	}

	return withTelemetry(s, ctx, "OpenChest", userID, func(ctx context.Context) (results.OperationResult[*loottypes.ChestOpenResult, error], error) {
		result, err := runInTx(s, ctx, openTx)
		if err != nil || !result.IsSuccess() {
			return result, err
		}

		opened := *result.Success
		s.metrics.RecordChestOpened(ctx, string(opened.Tier), len(opened.Items))
		s.notifier.Notify(ctx, userID, "chest_opened", "Chest Opened",
			fmt.Sprintf("You received %d items.", len(opened.Items)))
		s.publishChestOpened(ctx, userID, opened)

		return result, nil
	})
}

// publishChestOpened emits the domain event. Event delivery is best
// effort; the open already committed.
func (s *LootService) publishChestOpened(ctx context.Context, userID sharedtypes.UserID, opened *loottypes.ChestOpenResult) {
	if s.eventBus == nil {
		return
	}
	payload, err := json.Marshal(chestOpenedEvent{
		UserID:    userID,
		ChestID:   opened.ChestID,
		ChestType: string(opened.Tier),
		Items:     len(opened.Items),
		Funds:     opened.BonusCurrency,
		XP:        opened.BonusXP,
	})
	if err != nil {
		return
	}
	msg := message.NewMessage("", payload)
	msg.Metadata.Set("subject", eventbus.ChestOpenedSubject)
	if err := s.eventBus.Publish(ctx, eventbus.RewardStream, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish chest opened event",
			slog.String("user_id", string(userID)),
			slog.Any("error", err),
		)
	}
}

// GrantDailyChest mints the daily login chest for the recipient, at most
// once per UTC day. A degraded success with a nil chest means the grant
// already happened today.
func (s *LootService) GrantDailyChest(
	ctx context.Context,
	userID sharedtypes.UserID,
) (results.OperationResult[*lootdb.UserChest, error], error) {
	grantTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*lootdb.UserChest, error], error) {
		dayStart := time.Now().UTC().Truncate(24 * time.Hour)
		chestType := loottypes.ChestTier(s.dailyChestType)

		already, err := s.repo.HasChestSince(ctx, db, userID, chestType, dayStart)
		if err != nil {
			return results.OperationResult[*lootdb.UserChest, error]{}, fmt.Errorf("failed to check daily chest: %w", err)
		}
		if already {
			return results.DegradedResult[*lootdb.UserChest, error](nil, "daily chest already granted"), nil
		}

		chest, err := s.repo.GetChestByType(ctx, db, chestType)
		if err != nil {
			if errors.Is(err, lootdb.ErrNotFound) {
				return results.FailureResult[*lootdb.UserChest, error](fmt.Errorf("no chest definition for tier %q", chestType)), nil
			}
			return results.OperationResult[*lootdb.UserChest, error]{}, err
		}

		userChest, err := s.repo.CreateUserChest(ctx, db, userID, chest.ID)
		if err != nil {
			return results.OperationResult[*lootdb.UserChest, error]{}, err
		}
		return results.SuccessResult[*lootdb.UserChest, error](userChest), nil
	}

	return withTelemetry(s, ctx, "GrantDailyChest", userID, func(ctx context.Context) (results.OperationResult[*lootdb.UserChest, error], error) {
		result, err := runInTx(s, ctx, grantTx)
		if err != nil || !result.IsSuccess() || result.IsDegraded() {
			return result, err
		}
		s.notifier.Notify(ctx, userID, "daily_chest", "Daily Chest", "Your daily login chest is waiting.")
		return result, nil
	})
}

// ListUnopenedChests returns the recipient's unopened chests, newest
// first, capped at 50.
func (s *LootService) ListUnopenedChests(ctx context.Context, userID sharedtypes.UserID) ([]lootdb.UserChest, error) {
	return s.repo.UnopenedChests(ctx, s.db, userID, 50)
}
