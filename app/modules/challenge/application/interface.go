package challengeservice

import (
	"context"

	"github.com/google/uuid"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Service is the challenge module contract consumed by transports.
type Service interface {
	// SubmitEntry stores a new submission.
	SubmitEntry(ctx context.Context, userID sharedtypes.UserID, category, title string) (results.OperationResult[*challengetypes.Entry, error], error)

	// CastVote records one community vote on an entry.
	CastVote(ctx context.Context, voterID sharedtypes.UserID, entryID uuid.UUID, kind challengetypes.VoteKind) (results.OperationResult[bool, error], error)

	// RecordRating upserts an entry's automated rating.
	RecordRating(ctx context.Context, entryID uuid.UUID, model string, metrics challengetypes.AIMetricVector) (results.OperationResult[bool, error], error)

	// ScoreEntry computes one entry's fused score.
	ScoreEntry(ctx context.Context, entryID uuid.UUID) (results.OperationResult[challengetypes.EntryScore, error], error)

	// WeeklyLeaderboard ranks the current weekly window, best first.
	WeeklyLeaderboard(ctx context.Context, category string, limit int) (results.OperationResult[[]challengetypes.RankedEntry, error], error)

	// EntryRank finds one entry's rank on the current weekly board, global
	// unless category narrows it.
	EntryRank(ctx context.Context, entryID uuid.UUID, category string) (results.OperationResult[challengetypes.RankedEntry, error], error)
}

var _ Service = (*ChallengeService)(nil)
