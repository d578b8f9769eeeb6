package challengeservice

import (
	"sort"
	"time"

	"github.com/google/uuid"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
)

// fuseScore combines one entry's community votes and automated rating
// into a single score on the 0-100 scale. A missing rating is a valid
// state: the community component then carries the full weight instead of
// the AI side contributing an implicit zero.
func fuseScore(entryID uuid.UUID, votes int, metrics challengetypes.AIMetricVector, cfg challengetypes.ScoringConfig) challengetypes.EntryScore {
	maxVotes := cfg.MaxVotesForNorm
	if maxVotes <= 0 {
		maxVotes = challengetypes.DefaultScoringConfig().MaxVotesForNorm
	}

	communityNorm := float64(votes) / float64(maxVotes) * 100
	if communityNorm > 100 {
		communityNorm = 100
	}
	if communityNorm < 0 {
		communityNorm = 0
	}

	score := challengetypes.EntryScore{
		EntryID:       entryID,
		CommunityNorm: communityNorm,
	}

	if len(metrics) == 0 {
		score.Final = communityNorm
		return score
	}

	score.HasAIRating = true
	score.AINorm = aiQualityScore(metrics)
	score.Final = communityNorm*cfg.CommunityWeight + score.AINorm*cfg.AIWeight
	return score
}

// aiQualityScore reduces a metric vector to one number. When either
// primary dimension is rated, only the two primaries count; a vector
// without primaries averages whatever dimensions it has.
func aiQualityScore(metrics challengetypes.AIMetricVector) float64 {
	visual := metrics[challengetypes.MetricVisualAppeal]
	creativity := metrics[challengetypes.MetricCreativity]
	if visual > 0 || creativity > 0 {
		return (visual + creativity) / 2
	}

	if len(metrics) == 0 {
		return 0
	}
	var sum float64
	for _, v := range metrics {
		sum += v
	}
	return sum / float64(len(metrics))
}

// WeekStartUTC returns the most recent Monday 00:00 UTC at or before t.
// This is the weekly leaderboard window boundary.
func WeekStartUTC(t time.Time) time.Time {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -daysSinceMonday)
}

// scoredEntry pairs an entry with its fused score for ranking.
type scoredEntry struct {
	entry challengetypes.Entry
	score challengetypes.EntryScore
}

// rankEntries orders scored entries best first and assigns 1-based ranks.
// Ordering compares the unrounded score descending, then creation time
// ascending, then entry id for a total order. Comparing unrounded keeps
// display rounding from ever flipping two ranks.
func rankEntries(scored []scoredEntry) []challengetypes.RankedEntry {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score.Final != scored[j].score.Final {
			return scored[i].score.Final > scored[j].score.Final
		}
		if !scored[i].entry.CreatedAt.Equal(scored[j].entry.CreatedAt) {
			return scored[i].entry.CreatedAt.Before(scored[j].entry.CreatedAt)
		}
		return scored[i].entry.ID.String() < scored[j].entry.ID.String()
	})

	ranked := make([]challengetypes.RankedEntry, len(scored))
	for i, s := range scored {
		ranked[i] = challengetypes.RankedEntry{
			Rank:      i + 1,
			EntryID:   s.entry.ID,
			UserID:    s.entry.UserID,
			Category:  s.entry.Category,
			Title:     s.entry.Title,
			Score:     s.score.Rounded(),
			CreatedAt: s.entry.CreatedAt,
		}
	}
	return ranked
}
