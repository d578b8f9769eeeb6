package effectsservice

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	effecttypes "github.com/Amberfall-Games/emberquest/app/modules/effects/domain"
	effectsdb "github.com/Amberfall-Games/emberquest/app/modules/effects/infrastructure/repositories"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
	effectsmetrics "github.com/Amberfall-Games/emberquest/internal/observability/metrics/effects"
)

type FakeEffectsRepo struct {
	trace []string

	ActiveEffectsFunc   func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, at time.Time) ([]effecttypes.EffectRecord, error)
	ActiveCampaignsFunc func(ctx context.Context, db bun.IDB, at time.Time) ([]effecttypes.Campaign, error)
}

func NewFakeEffectsRepo() *FakeEffectsRepo {
	return &FakeEffectsRepo{trace: []string{}}
}

func (f *FakeEffectsRepo) ActiveEffects(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, at time.Time) ([]effecttypes.EffectRecord, error) {
	f.trace = append(f.trace, "ActiveEffects")
	if f.ActiveEffectsFunc != nil {
		return f.ActiveEffectsFunc(ctx, db, userID, at)
	}
	return nil, nil
}

func (f *FakeEffectsRepo) ActiveCampaigns(ctx context.Context, db bun.IDB, at time.Time) ([]effecttypes.Campaign, error) {
	f.trace = append(f.trace, "ActiveCampaigns")
	if f.ActiveCampaignsFunc != nil {
		return f.ActiveCampaignsFunc(ctx, db, at)
	}
	return nil, nil
}

var _ effectsdb.Repository = (*FakeEffectsRepo)(nil)

// countingMetrics wraps the no-op recorder and counts unknown-kind skips.
type countingMetrics struct {
	effectsmetrics.EffectsMetrics
	unknownKinds []string
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{EffectsMetrics: effectsmetrics.NewNoop()}
}

func (m *countingMetrics) RecordUnknownEffectKind(_ context.Context, kind string) {
	m.unknownKinds = append(m.unknownKinds, kind)
}

func newTestService(repo effectsdb.Repository, metrics effectsmetrics.EffectsMetrics, opts ...Option) *EffectsService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	return NewEffectsService(repo, nil, logger, metrics, tracer, opts...)
}
