// Package effectsmetrics records modifier-resolution telemetry.
package effectsmetrics

import (
	"context"
	"time"
)

// EffectsMetrics is implemented by the prometheus recorder and a no-op for tests.
type EffectsMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)

	// RecordResolve counts one fold over the active effect set.
	RecordResolve(ctx context.Context, effectCount int)
	// RecordUnknownEffectKind counts skipped effects whose kind the fold
	// does not recognize. A rising series here means bad campaign data.
	RecordUnknownEffectKind(ctx context.Context, kind string)
}
