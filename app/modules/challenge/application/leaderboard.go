package challengeservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	challengedb "github.com/Amberfall-Games/emberquest/app/modules/challenge/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Service-level ranking failures returned inside failure results.
var (
	// ErrEntryOutsideWindow is returned when an entry predates the current
	// weekly window and therefore has no rank this week.
	ErrEntryOutsideWindow = errors.New("entry is outside the current weekly window")
)

// ScoreEntry computes one entry's fused score. A missing automated rating
// is a degraded success: the score is still valid, community-only.
func (s *ChallengeService) ScoreEntry(
	ctx context.Context,
	entryID uuid.UUID,
) (results.OperationResult[challengetypes.EntryScore, error], error) {
	return withTelemetry(s, ctx, "ScoreEntry", "", func(ctx context.Context) (results.OperationResult[challengetypes.EntryScore, error], error) {
		entry, err := s.repo.GetEntry(ctx, s.db, entryID)
		if err != nil {
			if errors.Is(err, challengedb.ErrNotFound) {
				return results.FailureResult[challengetypes.EntryScore, error](challengedb.ErrNotFound), nil
			}
			return results.OperationResult[challengetypes.EntryScore, error]{}, err
		}

		counts, err := s.repo.VoteCounts(ctx, s.db, []uuid.UUID{entry.ID})
		if err != nil {
			return results.OperationResult[challengetypes.EntryScore, error]{}, fmt.Errorf("failed to count votes: %w", err)
		}

		metrics, err := s.repo.FindRating(ctx, s.db, entry.ID)
		if err != nil && !errors.Is(err, challengedb.ErrRatingNotFound) {
			return results.OperationResult[challengetypes.EntryScore, error]{}, fmt.Errorf("failed to load rating: %w", err)
		}

		score := fuseScore(entry.ID, counts[entry.ID], metrics, s.scoring)
		s.metrics.RecordFusion(ctx, score.HasAIRating)

		if !score.HasAIRating {
			return results.DegradedResult[challengetypes.EntryScore, error](score, "no automated rating"), nil
		}
		return results.SuccessResult[challengetypes.EntryScore, error](score), nil
	})
}

// WeeklyLeaderboard ranks every entry in the current weekly window,
// optionally filtered to one category, best first. When the rating store
// is unavailable the board degrades to community-only scores instead of
// going dark.
func (s *ChallengeService) WeeklyLeaderboard(
	ctx context.Context,
	category string,
	limit int,
) (results.OperationResult[[]challengetypes.RankedEntry, error], error) {
	return withTelemetry(s, ctx, "WeeklyLeaderboard", "", func(ctx context.Context) (results.OperationResult[[]challengetypes.RankedEntry, error], error) {
		ranked, degradedReason, err := s.rankWindow(ctx, category)
		if err != nil {
			return results.OperationResult[[]challengetypes.RankedEntry, error]{}, err
		}

		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}

		if degradedReason != "" {
			return results.DegradedResult[[]challengetypes.RankedEntry, error](ranked, degradedReason), nil
		}
		return results.SuccessResult[[]challengetypes.RankedEntry, error](ranked), nil
	})
}

// EntryRank finds one entry's rank on the current weekly board. The board
// is global unless category narrows it. The whole window is re-ranked; a
// rank is meaningless outside its full ordering.
func (s *ChallengeService) EntryRank(
	ctx context.Context,
	entryID uuid.UUID,
	category string,
) (results.OperationResult[challengetypes.RankedEntry, error], error) {
	return withTelemetry(s, ctx, "EntryRank", "", func(ctx context.Context) (results.OperationResult[challengetypes.RankedEntry, error], error) {
		entry, err := s.repo.GetEntry(ctx, s.db, entryID)
		if err != nil {
			if errors.Is(err, challengedb.ErrNotFound) {
				return results.FailureResult[challengetypes.RankedEntry, error](challengedb.ErrNotFound), nil
			}
			return results.OperationResult[challengetypes.RankedEntry, error]{}, err
		}
		if entry.CreatedAt.Before(WeekStartUTC(s.now())) {
			return results.FailureResult[challengetypes.RankedEntry, error](ErrEntryOutsideWindow), nil
		}

		ranked, degradedReason, err := s.rankWindow(ctx, category)
		if err != nil {
			return results.OperationResult[challengetypes.RankedEntry, error]{}, err
		}

		for _, row := range ranked {
			if row.EntryID == entryID {
				if degradedReason != "" {
					return results.DegradedResult[challengetypes.RankedEntry, error](row, degradedReason), nil
				}
				return results.SuccessResult[challengetypes.RankedEntry, error](row), nil
			}
		}
		return results.FailureResult[challengetypes.RankedEntry, error](ErrEntryOutsideWindow), nil
	})
}

// rankWindow scores and ranks the full current window for one category.
// The returned reason is non-empty when ratings could not be loaded and
// scores fell back to community-only.
func (s *ChallengeService) rankWindow(ctx context.Context, category string) ([]challengetypes.RankedEntry, string, error) {
	weekStart := WeekStartUTC(s.now())

	entries, err := s.repo.EntriesSince(ctx, s.db, weekStart, category)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list entries: %w", err)
	}
	if len(entries) == 0 {
		s.metrics.RecordLeaderboardSize(ctx, 0)
		return []challengetypes.RankedEntry{}, "", nil
	}

	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}

	counts, err := s.repo.VoteCounts(ctx, s.db, ids)
	if err != nil {
		return nil, "", fmt.Errorf("failed to count votes: %w", err)
	}

	degradedReason := ""
	ratings, err := s.repo.FindRatings(ctx, s.db, ids)
	if err != nil {
		// A dead rating store must not take the whole board down. Rank on
		// community votes alone and say so.
		s.logger.WarnContext(ctx, "Ratings unavailable, ranking on community votes only",
			slog.String("category", category),
			slog.Any("error", err),
		)
		ratings = nil
		degradedReason = "automated ratings unavailable"
	}

	scored := make([]scoredEntry, len(entries))
	for i, entry := range entries {
		score := fuseScore(entry.ID, counts[entry.ID], ratings[entry.ID], s.scoring)
		s.metrics.RecordFusion(ctx, score.HasAIRating)
		scored[i] = scoredEntry{entry: entry, score: score}
	}

	ranked := rankEntries(scored)
	s.metrics.RecordLeaderboardSize(ctx, len(ranked))
	return ranked, degradedReason, nil
}

// SubmitEntry stores a new challenge submission.
func (s *ChallengeService) SubmitEntry(
	ctx context.Context,
	userID sharedtypes.UserID,
	category, title string,
) (results.OperationResult[*challengetypes.Entry, error], error) {
	return withTelemetry(s, ctx, "SubmitEntry", userID, func(ctx context.Context) (results.OperationResult[*challengetypes.Entry, error], error) {
		entry, err := s.repo.CreateEntry(ctx, s.db, userID, category, title)
		if err != nil {
			return results.OperationResult[*challengetypes.Entry, error]{}, err
		}
		return results.SuccessResult[*challengetypes.Entry, error](entry), nil
	})
}

// CastVote records one community vote on an entry.
func (s *ChallengeService) CastVote(
	ctx context.Context,
	voterID sharedtypes.UserID,
	entryID uuid.UUID,
	kind challengetypes.VoteKind,
) (results.OperationResult[bool, error], error) {
	return withTelemetry(s, ctx, "CastVote", voterID, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if err := s.repo.CastVote(ctx, s.db, entryID, voterID, kind); err != nil {
			if errors.Is(err, challengedb.ErrDuplicateVote) {
				return results.FailureResult[bool, error](challengedb.ErrDuplicateVote), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
}

// RecordRating upserts an entry's automated rating. Metric values are
// clamped to the 0-100 scale at the storage boundary.
func (s *ChallengeService) RecordRating(
	ctx context.Context,
	entryID uuid.UUID,
	model string,
	metrics challengetypes.AIMetricVector,
) (results.OperationResult[bool, error], error) {
	return withTelemetry(s, ctx, "RecordRating", "", func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if err := s.repo.SaveRating(ctx, s.db, entryID, model, metrics); err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
}
