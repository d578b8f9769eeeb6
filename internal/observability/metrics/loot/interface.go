// Package lootmetrics records reward-roll and chest-open telemetry.
package lootmetrics

import (
	"context"
	"time"
)

// LootMetrics is implemented by the prometheus recorder and a no-op for tests.
type LootMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)

	// RecordRoll counts one resolved roll by pool and final tier.
	RecordRoll(ctx context.Context, pool string, tier string, upgraded bool)
	// RecordEmptyPool counts a roll that found no items to hand out.
	RecordEmptyPool(ctx context.Context, pool string)
	// RecordChestOpened counts one chest open by tier with its item yield.
	RecordChestOpened(ctx context.Context, chestType string, items int)
}
