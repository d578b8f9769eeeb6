package effectsservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	effectsdb "github.com/Amberfall-Games/emberquest/app/modules/effects/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
	effectsmetrics "github.com/Amberfall-Games/emberquest/internal/observability/metrics/effects"
)

// EffectsService implements the Service interface.
type EffectsService struct {
	repo    effectsdb.Repository
	db      *bun.DB
	logger  *slog.Logger
	metrics effectsmetrics.EffectsMetrics
	tracer  trace.Tracer

	// now is the clock; tests pin it.
	now func() time.Time
}

// NewEffectsService creates a new EffectsService.
func NewEffectsService(
	repo effectsdb.Repository,
	db *bun.DB,
	logger *slog.Logger,
	metrics effectsmetrics.EffectsMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *EffectsService {
	s := &EffectsService{
		repo:    repo,
		db:      db,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option tunes an EffectsService.
type Option func(*EffectsService)

// WithClock substitutes the clock.
func WithClock(now func() time.Time) Option {
	return func(s *EffectsService) { s.now = now }
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *EffectsService,
	ctx context.Context,
	operationName string,
	userID sharedtypes.UserID,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("user_id", string(userID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("operation", operationName),
				slog.String("user_id", string(userID)),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("user_id", string(userID)),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}
