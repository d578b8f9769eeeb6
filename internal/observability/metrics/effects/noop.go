package effectsmetrics

import (
	"context"
	"time"
)

type noop struct{}

// NewNoop returns an EffectsMetrics that records nothing. Used in tests.
func NewNoop() EffectsMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string)                 {}
func (noop) RecordOperationFailure(context.Context, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, time.Duration) {}
func (noop) RecordResolve(context.Context, int)                             {}
func (noop) RecordUnknownEffectKind(context.Context, string)                {}
