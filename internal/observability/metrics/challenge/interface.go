// Package challengemetrics records score-fusion and leaderboard telemetry.
package challengemetrics

import (
	"context"
	"time"
)

// ChallengeMetrics is implemented by the prometheus recorder and a no-op for tests.
type ChallengeMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)

	// RecordFusion counts one composite-score computation, split by whether
	// an AI rating was present or the score degraded to community-only.
	RecordFusion(ctx context.Context, hasAIRating bool)
	// RecordLeaderboardSize observes the candidate count per ranking.
	RecordLeaderboardSize(ctx context.Context, entries int)
}
