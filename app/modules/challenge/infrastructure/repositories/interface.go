package challengedb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Repository is the challenge scoring data access contract.
type Repository interface {
	// CreateEntry stores a new submission.
	CreateEntry(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, category, title string) (*challengetypes.Entry, error)

	// GetEntry loads one submission.
	GetEntry(ctx context.Context, db bun.IDB, entryID uuid.UUID) (*challengetypes.Entry, error)

	// EntriesSince returns entries created at or after the given instant,
	// oldest first, optionally filtered to one category.
	EntriesSince(ctx context.Context, db bun.IDB, since time.Time, category string) ([]challengetypes.Entry, error)

	// CastVote records one community vote. Double votes on the same
	// dimension return ErrDuplicateVote.
	CastVote(ctx context.Context, db bun.IDB, entryID uuid.UUID, voterID sharedtypes.UserID, kind challengetypes.VoteKind) error

	// VoteCounts returns the total vote count per entry for the given set.
	// Entries with no votes are absent from the map.
	VoteCounts(ctx context.Context, db bun.IDB, entryIDs []uuid.UUID) (map[uuid.UUID]int, error)

	// SaveRating upserts the automated rating for an entry. Metric values
	// are clamped to [0, 100] before they are stored.
	SaveRating(ctx context.Context, db bun.IDB, entryID uuid.UUID, model string, metrics challengetypes.AIMetricVector) error

	// FindRating loads the automated rating for an entry, or
	// ErrRatingNotFound when none exists.
	FindRating(ctx context.Context, db bun.IDB, entryID uuid.UUID) (challengetypes.AIMetricVector, error)

	// FindRatings loads ratings for a set of entries. Unrated entries are
	// absent from the map.
	FindRatings(ctx context.Context, db bun.IDB, entryIDs []uuid.UUID) (map[uuid.UUID]challengetypes.AIMetricVector, error)
}
