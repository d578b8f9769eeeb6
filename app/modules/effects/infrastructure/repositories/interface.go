package effectsdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	effecttypes "github.com/Amberfall-Games/emberquest/app/modules/effects/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Repository is the campaign effects data access contract.
type Repository interface {
	// ActiveEffects returns the effect rows live at the given instant for
	// the given recipient: every global effect plus the user-scoped ones
	// addressed to them.
	ActiveEffects(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, at time.Time) ([]effecttypes.EffectRecord, error)

	// ActiveCampaigns returns the campaigns whose window contains the
	// given instant, soonest-ending first.
	ActiveCampaigns(ctx context.Context, db bun.IDB, at time.Time) ([]effecttypes.Campaign, error)
}
