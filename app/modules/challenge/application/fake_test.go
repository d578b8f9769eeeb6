package challengeservice

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	challengedb "github.com/Amberfall-Games/emberquest/app/modules/challenge/infrastructure/repositories"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
	challengemetrics "github.com/Amberfall-Games/emberquest/internal/observability/metrics/challenge"
)

type FakeChallengeRepo struct {
	trace []string

	CreateEntryFunc  func(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, category, title string) (*challengetypes.Entry, error)
	GetEntryFunc     func(ctx context.Context, db bun.IDB, entryID uuid.UUID) (*challengetypes.Entry, error)
	EntriesSinceFunc func(ctx context.Context, db bun.IDB, since time.Time, category string) ([]challengetypes.Entry, error)
	CastVoteFunc     func(ctx context.Context, db bun.IDB, entryID uuid.UUID, voterID sharedtypes.UserID, kind challengetypes.VoteKind) error
	VoteCountsFunc   func(ctx context.Context, db bun.IDB, entryIDs []uuid.UUID) (map[uuid.UUID]int, error)
	SaveRatingFunc   func(ctx context.Context, db bun.IDB, entryID uuid.UUID, model string, metrics challengetypes.AIMetricVector) error
	FindRatingFunc   func(ctx context.Context, db bun.IDB, entryID uuid.UUID) (challengetypes.AIMetricVector, error)
	FindRatingsFunc  func(ctx context.Context, db bun.IDB, entryIDs []uuid.UUID) (map[uuid.UUID]challengetypes.AIMetricVector, error)
}

func NewFakeChallengeRepo() *FakeChallengeRepo {
	return &FakeChallengeRepo{trace: []string{}}
}

func (f *FakeChallengeRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeChallengeRepo) CreateEntry(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, category, title string) (*challengetypes.Entry, error) {
	f.record("CreateEntry")
	if f.CreateEntryFunc != nil {
		return f.CreateEntryFunc(ctx, db, userID, category, title)
	}
	return &challengetypes.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  category,
		Title:     title,
		CreatedAt: time.Now(),
	}, nil
}

func (f *FakeChallengeRepo) GetEntry(ctx context.Context, db bun.IDB, entryID uuid.UUID) (*challengetypes.Entry, error) {
	f.record("GetEntry")
	if f.GetEntryFunc != nil {
		return f.GetEntryFunc(ctx, db, entryID)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) EntriesSince(ctx context.Context, db bun.IDB, since time.Time, category string) ([]challengetypes.Entry, error) {
	f.record("EntriesSince")
	if f.EntriesSinceFunc != nil {
		return f.EntriesSinceFunc(ctx, db, since, category)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) CastVote(ctx context.Context, db bun.IDB, entryID uuid.UUID, voterID sharedtypes.UserID, kind challengetypes.VoteKind) error {
	f.record("CastVote")
	if f.CastVoteFunc != nil {
		return f.CastVoteFunc(ctx, db, entryID, voterID, kind)
	}
	return nil
}

func (f *FakeChallengeRepo) VoteCounts(ctx context.Context, db bun.IDB, entryIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	f.record("VoteCounts")
	if f.VoteCountsFunc != nil {
		return f.VoteCountsFunc(ctx, db, entryIDs)
	}
	return map[uuid.UUID]int{}, nil
}

func (f *FakeChallengeRepo) SaveRating(ctx context.Context, db bun.IDB, entryID uuid.UUID, model string, metrics challengetypes.AIMetricVector) error {
	f.record("SaveRating")
	if f.SaveRatingFunc != nil {
		return f.SaveRatingFunc(ctx, db, entryID, model, metrics)
	}
	return nil
}

func (f *FakeChallengeRepo) FindRating(ctx context.Context, db bun.IDB, entryID uuid.UUID) (challengetypes.AIMetricVector, error) {
	f.record("FindRating")
	if f.FindRatingFunc != nil {
		return f.FindRatingFunc(ctx, db, entryID)
	}
	return nil, challengedb.ErrRatingNotFound
}

func (f *FakeChallengeRepo) FindRatings(ctx context.Context, db bun.IDB, entryIDs []uuid.UUID) (map[uuid.UUID]challengetypes.AIMetricVector, error) {
	f.record("FindRatings")
	if f.FindRatingsFunc != nil {
		return f.FindRatingsFunc(ctx, db, entryIDs)
	}
	return map[uuid.UUID]challengetypes.AIMetricVector{}, nil
}

var _ challengedb.Repository = (*FakeChallengeRepo)(nil)

func newTestService(repo challengedb.Repository, opts ...Option) *ChallengeService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	return NewChallengeService(repo, nil, logger, challengemetrics.NewNoop(), tracer, opts...)
}
