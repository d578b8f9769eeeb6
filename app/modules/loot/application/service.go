package lootservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Amberfall-Games/emberquest/app/eventbus"
	lootdb "github.com/Amberfall-Games/emberquest/app/modules/loot/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/app/notifications"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
	lootmetrics "github.com/Amberfall-Games/emberquest/internal/observability/metrics/loot"
)

// Rand is the randomness source for rolls. Production uses math/rand/v2;
// tests substitute fixed sequences.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type stdRand struct{}

func (stdRand) Float64() float64 { return rand.Float64() }
func (stdRand) IntN(n int) int   { return rand.IntN(n) }

// LootService implements the Service interface.
type LootService struct {
	repo     lootdb.Repository
	db       *bun.DB
	eventBus eventbus.EventBus
	notifier notifications.Sink
	logger   *slog.Logger
	metrics  lootmetrics.LootMetrics
	tracer   trace.Tracer
	rng      Rand

	// historyWindow is how many recent grants the smart-drop guard reads.
	historyWindow int
	// dailyChestType is the chest tier handed out on daily login.
	dailyChestType string
}

// NewLootService creates a new LootService.
func NewLootService(
	repo lootdb.Repository,
	db *bun.DB,
	eventBus eventbus.EventBus,
	notifier notifications.Sink,
	logger *slog.Logger,
	metrics lootmetrics.LootMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *LootService {
	s := &LootService{
		repo:           repo,
		db:             db,
		eventBus:       eventBus,
		notifier:       notifier,
		logger:         logger,
		metrics:        metrics,
		tracer:         tracer,
		rng:            stdRand{},
		historyWindow:  3,
		dailyChestType: "wooden",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option tunes a LootService.
type Option func(*LootService)

// WithRand substitutes the randomness source.
func WithRand(rng Rand) Option {
	return func(s *LootService) { s.rng = rng }
}

// WithHistoryWindow sets the smart-drop history size.
func WithHistoryWindow(n int) Option {
	return func(s *LootService) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// WithDailyChestType sets the chest tier granted on daily login.
func WithDailyChestType(t string) Option {
	return func(s *LootService) {
		if t != "" {
			s.dailyChestType = t
		}
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LootService,
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

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *LootService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
