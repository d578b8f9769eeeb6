package lootmetrics

import (
	"context"
	"time"
)

type noop struct{}

// NewNoop returns a LootMetrics that records nothing. Used in tests.
func NewNoop() LootMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string)                {}
func (noop) RecordOperationSuccess(context.Context, string)                {}
func (noop) RecordOperationFailure(context.Context, string)                {}
func (noop) RecordOperationDuration(context.Context, string, time.Duration) {}
func (noop) RecordRoll(context.Context, string, string, bool)              {}
func (noop) RecordEmptyPool(context.Context, string)                       {}
func (noop) RecordChestOpened(context.Context, string, int)                {}
