package effectsdb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	effecttypes "github.com/Amberfall-Games/emberquest/app/modules/effects/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// EffectsRepository is the bun-backed implementation of Repository.
type EffectsRepository struct{}

var _ Repository = (*EffectsRepository)(nil)

// NewRepository returns the bun-backed effects repository.
func NewRepository() *EffectsRepository { return &EffectsRepository{} }

func (r *EffectsRepository) ActiveEffects(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, at time.Time) ([]effecttypes.EffectRecord, error) {
	var rows []CampaignEffect
	err := db.NewSelect().
		Model(&rows).
		Join("JOIN campaigns AS cp ON cp.id = ce.campaign_id").
		Where("cp.active").
		// Window bounds are inclusive on both ends.
		Where("cp.starts_at <= ? AND cp.ends_at >= ?", at, at).
		// A row-level window, when present, narrows the campaign window.
		Where("(ce.starts_at IS NULL OR ce.starts_at <= ?)", at).
		Where("(ce.ends_at IS NULL OR ce.ends_at >= ?)", at).
		Where("(ce.scope = ? OR (ce.scope = ? AND ce.user_id = ?))",
			effecttypes.ScopeGlobal, effecttypes.ScopeUser, userID).
		Order("ce.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query active effects: %w", err)
	}

	records := make([]effecttypes.EffectRecord, len(rows))
	for i, row := range rows {
		records[i] = effecttypes.EffectRecord{
			ID:         row.ID,
			CampaignID: row.CampaignID,
			Kind:       row.Kind,
			Magnitude:  row.Magnitude,
			Scope:      row.Scope,
			UserID:     row.UserID,
			StartsAt:   row.StartsAt,
			EndsAt:     row.EndsAt,
		}
	}
	return records, nil
}

func (r *EffectsRepository) ActiveCampaigns(ctx context.Context, db bun.IDB, at time.Time) ([]effecttypes.Campaign, error) {
	var rows []Campaign
	err := db.NewSelect().
		Model(&rows).
		Where("active").
		Where("starts_at <= ? AND ends_at >= ?", at, at).
		Order("ends_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query active campaigns: %w", err)
	}

	campaigns := make([]effecttypes.Campaign, len(rows))
	for i, row := range rows {
		campaigns[i] = effecttypes.Campaign{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Active:      row.Active,
			StartsAt:    row.StartsAt,
			EndsAt:      row.EndsAt,
		}
	}
	return campaigns, nil
}
