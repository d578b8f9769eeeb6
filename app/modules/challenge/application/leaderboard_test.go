package challengeservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	challengedb "github.com/Amberfall-Games/emberquest/app/modules/challenge/infrastructure/repositories"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Thursday 2026-08-27; the window opened Monday 2026-08-24.
var testNow = time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC)

func pinnedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func weeklyEntry(userID sharedtypes.UserID, offset time.Duration) challengetypes.Entry {
	return challengetypes.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     gofakeit.Sentence(3),
		CreatedAt: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC).Add(offset),
	}
}

func TestWeeklyLeaderboard_RatedEntryOutranksPopularUnrated(t *testing.T) {
	entryX := weeklyEntry("user-x", 0)
	entryY := weeklyEntry("user-y", time.Hour)

	repo := NewFakeChallengeRepo()
	repo.EntriesSinceFunc = func(_ context.Context, _ bun.IDB, since time.Time, _ string) ([]challengetypes.Entry, error) {
		require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), since)
		return []challengetypes.Entry{entryX, entryY}, nil
	}
	repo.VoteCountsFunc = func(_ context.Context, _ bun.IDB, _ []uuid.UUID) (map[uuid.UUID]int, error) {
		return map[uuid.UUID]int{entryX.ID: 10, entryY.ID: 5}, nil
	}
	repo.FindRatingsFunc = func(_ context.Context, _ bun.IDB, _ []uuid.UUID) (map[uuid.UUID]challengetypes.AIMetricVector, error) {
		return map[uuid.UUID]challengetypes.AIMetricVector{
			entryY.ID: {challengetypes.MetricVisualAppeal: 80, challengetypes.MetricCreativity: 80},
		}, nil
	}

	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.WeeklyLeaderboard(context.Background(), "", 0)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	board := *result.Success
	require.Len(t, board, 2)
	require.Equal(t, entryY.ID, board[0].EntryID)
	require.Equal(t, 1, board[0].Rank)
	require.InDelta(t, 35, board[0].Score, 1e-9)
	require.Equal(t, entryX.ID, board[1].EntryID)
	require.Equal(t, 2, board[1].Rank)
	require.InDelta(t, 10, board[1].Score, 1e-9)
}

func TestWeeklyLeaderboard_EmptyWindow(t *testing.T) {
	repo := NewFakeChallengeRepo()
	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.WeeklyLeaderboard(context.Background(), "", 0)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Empty(t, *result.Success)
}

func TestWeeklyLeaderboard_LimitTruncates(t *testing.T) {
	entries := []challengetypes.Entry{
		weeklyEntry("a", 0), weeklyEntry("b", time.Hour), weeklyEntry("c", 2*time.Hour),
	}

	repo := NewFakeChallengeRepo()
	repo.EntriesSinceFunc = func(_ context.Context, _ bun.IDB, _ time.Time, _ string) ([]challengetypes.Entry, error) {
		return entries, nil
	}

	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.WeeklyLeaderboard(context.Background(), "", 2)
	require.NoError(t, err)
	require.Len(t, *result.Success, 2)
}

func TestWeeklyLeaderboard_CategoryFilterPassedThrough(t *testing.T) {
	repo := NewFakeChallengeRepo()
	var seenCategory string
	repo.EntriesSinceFunc = func(_ context.Context, _ bun.IDB, _ time.Time, category string) ([]challengetypes.Entry, error) {
		seenCategory = category
		return nil, nil
	}

	svc := newTestService(repo, WithClock(pinnedClock()))

	_, err := svc.WeeklyLeaderboard(context.Background(), "pixel-art", 0)
	require.NoError(t, err)
	require.Equal(t, "pixel-art", seenCategory)
}

func TestWeeklyLeaderboard_RatingStoreDownDegrades(t *testing.T) {
	entryX := weeklyEntry("user-x", 0)

	repo := NewFakeChallengeRepo()
	repo.EntriesSinceFunc = func(_ context.Context, _ bun.IDB, _ time.Time, _ string) ([]challengetypes.Entry, error) {
		return []challengetypes.Entry{entryX}, nil
	}
	repo.VoteCountsFunc = func(_ context.Context, _ bun.IDB, _ []uuid.UUID) (map[uuid.UUID]int, error) {
		return map[uuid.UUID]int{entryX.ID: 20}, nil
	}
	repo.FindRatingsFunc = func(_ context.Context, _ bun.IDB, _ []uuid.UUID) (map[uuid.UUID]challengetypes.AIMetricVector, error) {
		return nil, errors.New("rating store down")
	}

	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.WeeklyLeaderboard(context.Background(), "", 0)
	require.NoError(t, err)
	require.True(t, result.IsDegraded())
	require.Equal(t, "automated ratings unavailable", result.DegradedReason)

	board := *result.Success
	require.Len(t, board, 1)
	require.InDelta(t, 20, board[0].Score, 1e-9, "community-only score")
}

func TestEntryRank_FindsRow(t *testing.T) {
	entryX := weeklyEntry("user-x", 0)
	entryY := weeklyEntry("user-y", time.Hour)

	repo := NewFakeChallengeRepo()
	repo.GetEntryFunc = func(_ context.Context, _ bun.IDB, id uuid.UUID) (*challengetypes.Entry, error) {
		require.Equal(t, entryY.ID, id)
		return &entryY, nil
	}
	var seenCategory string
	repo.EntriesSinceFunc = func(_ context.Context, _ bun.IDB, _ time.Time, category string) ([]challengetypes.Entry, error) {
		seenCategory = category
		return []challengetypes.Entry{entryX, entryY}, nil
	}
	repo.VoteCountsFunc = func(_ context.Context, _ bun.IDB, _ []uuid.UUID) (map[uuid.UUID]int, error) {
		return map[uuid.UUID]int{entryX.ID: 50, entryY.ID: 10}, nil
	}

	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.EntryRank(context.Background(), entryY.ID, "")
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Equal(t, 2, result.Success.Rank)
	require.Empty(t, seenCategory, "the board is global by default")
}

func TestEntryRank_CategoryScopesBoard(t *testing.T) {
	entry := weeklyEntry("user-x", 0)
	entry.Category = "pixel-art"

	repo := NewFakeChallengeRepo()
	var seenCategory string
	repo.GetEntryFunc = func(_ context.Context, _ bun.IDB, _ uuid.UUID) (*challengetypes.Entry, error) {
		return &entry, nil
	}
	repo.EntriesSinceFunc = func(_ context.Context, _ bun.IDB, _ time.Time, category string) ([]challengetypes.Entry, error) {
		seenCategory = category
		return []challengetypes.Entry{entry}, nil
	}

	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.EntryRank(context.Background(), entry.ID, "pixel-art")
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Equal(t, 1, result.Success.Rank)
	require.Equal(t, "pixel-art", seenCategory)
}

func TestEntryRank_OutsideWindow(t *testing.T) {
	stale := challengetypes.Entry{
		ID:        uuid.New(),
		UserID:    "user-x",
		CreatedAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), // previous week
	}

	repo := NewFakeChallengeRepo()
	repo.GetEntryFunc = func(_ context.Context, _ bun.IDB, _ uuid.UUID) (*challengetypes.Entry, error) {
		return &stale, nil
	}

	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.EntryRank(context.Background(), stale.ID, "")
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	require.ErrorIs(t, *result.Failure, ErrEntryOutsideWindow)
}

func TestEntryRank_UnknownEntry(t *testing.T) {
	repo := NewFakeChallengeRepo() // default GetEntry returns ErrNotFound
	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.EntryRank(context.Background(), uuid.New(), "")
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	require.ErrorIs(t, *result.Failure, challengedb.ErrNotFound)
}

func TestScoreEntry_NoRatingIsDegraded(t *testing.T) {
	entry := weeklyEntry("user-x", 0)

	repo := NewFakeChallengeRepo()
	repo.GetEntryFunc = func(_ context.Context, _ bun.IDB, _ uuid.UUID) (*challengetypes.Entry, error) {
		return &entry, nil
	}
	repo.VoteCountsFunc = func(_ context.Context, _ bun.IDB, _ []uuid.UUID) (map[uuid.UUID]int, error) {
		return map[uuid.UUID]int{entry.ID: 30}, nil
	}

	svc := newTestService(repo, WithClock(pinnedClock()))

	result, err := svc.ScoreEntry(context.Background(), entry.ID)
	require.NoError(t, err)
	require.True(t, result.IsDegraded())
	require.Equal(t, "no automated rating", result.DegradedReason)
	require.InDelta(t, 30, result.Success.Final, 1e-9)
	require.False(t, result.Success.HasAIRating)
}

func TestCastVote_Duplicate(t *testing.T) {
	repo := NewFakeChallengeRepo()
	repo.CastVoteFunc = func(_ context.Context, _ bun.IDB, _ uuid.UUID, _ sharedtypes.UserID, _ challengetypes.VoteKind) error {
		return challengedb.ErrDuplicateVote
	}

	svc := newTestService(repo)

	result, err := svc.CastVote(context.Background(), "voter-1", uuid.New(), challengetypes.VoteAppeal)
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	require.ErrorIs(t, *result.Failure, challengedb.ErrDuplicateVote)
}
