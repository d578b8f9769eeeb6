package challengeservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	challengedb "github.com/Amberfall-Games/emberquest/app/modules/challenge/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
	challengemetrics "github.com/Amberfall-Games/emberquest/internal/observability/metrics/challenge"
)

// ChallengeService implements the Service interface.
type ChallengeService struct {
	repo    challengedb.Repository
	db      *bun.DB
	logger  *slog.Logger
	metrics challengemetrics.ChallengeMetrics
	tracer  trace.Tracer

	scoring challengetypes.ScoringConfig

	// now is the clock; tests pin it.
	now func() time.Time
}

// NewChallengeService creates a new ChallengeService.
func NewChallengeService(
	repo challengedb.Repository,
	db *bun.DB,
	logger *slog.Logger,
	metrics challengemetrics.ChallengeMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *ChallengeService {
	s := &ChallengeService{
		repo:    repo,
		db:      db,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		scoring: challengetypes.DefaultScoringConfig(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option tunes a ChallengeService.
type Option func(*ChallengeService)

// WithScoringConfig substitutes the fusion weights and vote ceiling.
func WithScoringConfig(cfg challengetypes.ScoringConfig) Option {
	return func(s *ChallengeService) {
		if cfg.MaxVotesForNorm > 0 {
			s.scoring = cfg
		}
	}
}

// WithClock substitutes the clock.
func WithClock(now func() time.Time) Option {
	return func(s *ChallengeService) { s.now = now }
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ChallengeService,
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

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("user_id", string(userID)),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}
