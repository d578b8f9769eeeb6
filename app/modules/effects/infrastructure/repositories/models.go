package effectsdb

import (
	"time"

	"github.com/uptrace/bun"

	effecttypes "github.com/Amberfall-Games/emberquest/app/modules/effects/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Campaign is an authored event window.
type Campaign struct {
	bun.BaseModel `bun:"table:campaigns,alias:cp"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull,unique"`
	Description string    `bun:"description,nullzero"`
	Active      bool      `bun:"active,notnull,default:true"`
	StartsAt    time.Time `bun:"starts_at,notnull"`
	EndsAt      time.Time `bun:"ends_at,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// CampaignEffect is one effect row attached to a campaign. Kind is stored
// as raw text so rows written by a newer binary survive in an older one.
// StartsAt/EndsAt, when set, narrow the campaign window for this row.
type CampaignEffect struct {
	bun.BaseModel `bun:"table:campaign_effects,alias:ce"`

	ID         int64                   `bun:"id,pk,autoincrement"`
	CampaignID int64                   `bun:"campaign_id,notnull"`
	Kind       effecttypes.EffectKind  `bun:"kind,notnull"`
	Magnitude  float64                 `bun:"magnitude,notnull"`
	Scope      effecttypes.EffectScope `bun:"scope,notnull,default:'global'"`
	UserID     sharedtypes.UserID      `bun:"user_id,nullzero"`
	StartsAt   time.Time               `bun:"starts_at,nullzero"`
	EndsAt     time.Time               `bun:"ends_at,nullzero"`

	Campaign *Campaign `bun:"rel:belongs-to,join:campaign_id=id"`
}
