package effectsservice

import (
	"context"
	"time"

	effecttypes "github.com/Amberfall-Games/emberquest/app/modules/effects/domain"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Service is the effects module contract consumed by transports and by
// the other reward modules.
type Service interface {
	// Resolve aggregates the recipient's live effects into one modifier set.
	Resolve(ctx context.Context, userID sharedtypes.UserID) (results.OperationResult[effecttypes.ResolvedModifierSet, error], error)

	// ResolveAt is Resolve at an explicit instant.
	ResolveAt(ctx context.Context, userID sharedtypes.UserID, at time.Time) (results.OperationResult[effecttypes.ResolvedModifierSet, error], error)

	// ActiveCampaigns lists campaigns currently in their window.
	ActiveCampaigns(ctx context.Context) ([]effecttypes.Campaign, error)
}

var _ Service = (*EffectsService)(nil)
