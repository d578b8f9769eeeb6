package challengedb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// ChallengeEntry is one submission row.
type ChallengeEntry struct {
	bun.BaseModel `bun:"table:challenge_entries,alias:en"`

	ID        uuid.UUID          `bun:"id,pk,type:uuid"`
	UserID    sharedtypes.UserID `bun:"user_id,notnull"`
	Category  string             `bun:"category,nullzero"`
	Title     string             `bun:"title,nullzero"`
	CreatedAt time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*ChallengeEntry)(nil)

func (e *ChallengeEntry) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ChallengeVote is one community vote. A voter casts at most one vote per
// dimension per entry; the unique index enforces it.
type ChallengeVote struct {
	bun.BaseModel `bun:"table:challenge_votes,alias:cv"`

	ID        uuid.UUID          `bun:"id,pk,type:uuid"`
	EntryID   uuid.UUID          `bun:"entry_id,notnull,type:uuid"`
	VoterID   sharedtypes.UserID `bun:"voter_id,notnull"`
	Kind      string             `bun:"kind,notnull"`
	CreatedAt time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*ChallengeVote)(nil)

func (v *ChallengeVote) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// RatingResult is the automated quality rating for one entry, one row per
// entry, metric dimensions as jsonb.
type RatingResult struct {
	bun.BaseModel `bun:"table:rating_results,alias:rr"`

	EntryID   uuid.UUID          `bun:"entry_id,pk,type:uuid"`
	Metrics   map[string]float64 `bun:"metrics,type:jsonb,notnull"`
	Model     string             `bun:"model,nullzero"`
	CreatedAt time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
