package effectsservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	effecttypes "github.com/Amberfall-Games/emberquest/app/modules/effects/domain"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Clamp bounds for aggregated multipliers. Buff-style multipliers never
// drop below neutral; the debuff multiplier stays inside [0.1, 1] so
// stacked debuffs cannot null damage out entirely.
const (
	minBuffMultiplier   = 1.0
	minDebuffMultiplier = 0.1
	maxDebuffMultiplier = 1.0
)

// foldEffects aggregates effect records into one modifier set. The fold
// is commutative: multipliers multiply, additive terms add, and clamps
// apply once at the end, so row order never changes the outcome. Records
// with an unknown kind are skipped and reported through onUnknown.
func foldEffects(records []effecttypes.EffectRecord, onUnknown func(kind effecttypes.EffectKind)) effecttypes.ResolvedModifierSet {
	set := effecttypes.IdentityModifierSet()

	for _, record := range records {
		switch record.Kind {
		case effecttypes.KindXPMultiplier:
			set.XPMultiplier *= record.Magnitude
		case effecttypes.KindCurrencyMultiplier:
			set.CurrencyMultiplier *= record.Magnitude
		case effecttypes.KindDropRateBoost:
			set.DropRateBonus += record.Magnitude
		case effecttypes.KindDamageBuff:
			set.DamageBuff *= record.Magnitude
		case effecttypes.KindDamageDebuff:
			set.DamageDebuff *= record.Magnitude
		case effecttypes.KindBonusScore:
			set.BonusScore += record.Magnitude
		default:
			if onUnknown != nil {
				onUnknown(record.Kind)
			}
		}
	}

	if set.XPMultiplier < minBuffMultiplier {
		set.XPMultiplier = minBuffMultiplier
	}
	if set.CurrencyMultiplier < minBuffMultiplier {
		set.CurrencyMultiplier = minBuffMultiplier
	}
	if set.DamageBuff < minBuffMultiplier {
		set.DamageBuff = minBuffMultiplier
	}
	if set.DamageDebuff < minDebuffMultiplier {
		set.DamageDebuff = minDebuffMultiplier
	}
	if set.DamageDebuff > maxDebuffMultiplier {
		set.DamageDebuff = maxDebuffMultiplier
	}

	return set
}

// Resolve aggregates every effect live for the recipient right now into
// one modifier set. No active effects is the common case and resolves to
// the identity set, not an error.
func (s *EffectsService) Resolve(
	ctx context.Context,
	userID sharedtypes.UserID,
) (results.OperationResult[effecttypes.ResolvedModifierSet, error], error) {
	return withTelemetry(s, ctx, "ResolveModifiers", userID, func(ctx context.Context) (results.OperationResult[effecttypes.ResolvedModifierSet, error], error) {
		records, err := s.repo.ActiveEffects(ctx, s.db, userID, s.now())
		if err != nil {
			return results.OperationResult[effecttypes.ResolvedModifierSet, error]{}, fmt.Errorf("failed to load active effects: %w", err)
		}

		set := foldEffects(records, func(kind effecttypes.EffectKind) {
			s.logger.WarnContext(ctx, "Skipping effect with unknown kind",
				slog.String("kind", string(kind)),
				slog.String("user_id", string(userID)),
			)
			s.metrics.RecordUnknownEffectKind(ctx, string(kind))
		})

		s.metrics.RecordResolve(ctx, len(records))
		return results.SuccessResult[effecttypes.ResolvedModifierSet, error](set), nil
	})
}

// ResolveAt is Resolve pinned to an explicit instant. Used by replay and
// audit paths that need yesterday's modifiers.
func (s *EffectsService) ResolveAt(
	ctx context.Context,
	userID sharedtypes.UserID,
	at time.Time,
) (results.OperationResult[effecttypes.ResolvedModifierSet, error], error) {
	return withTelemetry(s, ctx, "ResolveModifiersAt", userID, func(ctx context.Context) (results.OperationResult[effecttypes.ResolvedModifierSet, error], error) {
		records, err := s.repo.ActiveEffects(ctx, s.db, userID, at)
		if err != nil {
			return results.OperationResult[effecttypes.ResolvedModifierSet, error]{}, fmt.Errorf("failed to load active effects: %w", err)
		}

		set := foldEffects(records, func(kind effecttypes.EffectKind) {
			s.logger.WarnContext(ctx, "Skipping effect with unknown kind",
				slog.String("kind", string(kind)),
				slog.String("user_id", string(userID)),
			)
			s.metrics.RecordUnknownEffectKind(ctx, string(kind))
		})

		s.metrics.RecordResolve(ctx, len(records))
		return results.SuccessResult[effecttypes.ResolvedModifierSet, error](set), nil
	})
}

// ActiveCampaigns lists the campaigns live right now, soonest-ending
// first. Rows are re-checked with LiveAt so a switched-off campaign never
// reaches a caller, whatever store served the rows.
func (s *EffectsService) ActiveCampaigns(ctx context.Context) ([]effecttypes.Campaign, error) {
	now := s.now()
	rows, err := s.repo.ActiveCampaigns(ctx, s.db, now)
	if err != nil {
		return nil, err
	}

	campaigns := make([]effecttypes.Campaign, 0, len(rows))
	for _, campaign := range rows {
		if campaign.LiveAt(now) {
			campaigns = append(campaigns, campaign)
		}
	}
	return campaigns, nil
}
