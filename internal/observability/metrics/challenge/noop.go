package challengemetrics

import (
	"context"
	"time"
)

type noop struct{}

// NewNoop returns a ChallengeMetrics that records nothing. Used in tests.
func NewNoop() ChallengeMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string)                 {}
func (noop) RecordOperationFailure(context.Context, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, time.Duration) {}
func (noop) RecordFusion(context.Context, bool)                             {}
func (noop) RecordLeaderboardSize(context.Context, int)                     {}
