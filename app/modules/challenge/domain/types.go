// Package challengetypes defines the challenge scoring domain model:
// entries, vote tallies, AI metric vectors, fused scores, and ranked rows.
package challengetypes

import (
	"time"

	"github.com/google/uuid"

	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// VoteKind is one community vote dimension.
type VoteKind string

const (
	VoteAppeal     VoteKind = "appeal"
	VoteCreativity VoteKind = "creativity"
)

// Entry is one challenge submission eligible for scoring.
type Entry struct {
	ID        uuid.UUID
	UserID    sharedtypes.UserID
	Category  string
	Title     string
	CreatedAt time.Time
}

// AIMetricVector is the per-dimension automated rating for one entry.
// Keys are metric names; values are already clamped to [0, 100] at the
// storage boundary.
type AIMetricVector map[string]float64

// Primary metric names. When either is present the quality score uses
// only these two; otherwise it averages whatever dimensions exist.
const (
	MetricVisualAppeal = "visual_appeal"
	MetricCreativity   = "creativity"
)

// EntryScore is one entry's fused score with its components kept visible
// for display and debugging. Final is unrounded; rounding happens only
// at presentation.
type EntryScore struct {
	EntryID       uuid.UUID `json:"entry_id"`
	Final         float64   `json:"final"`
	CommunityNorm float64   `json:"community"`
	AINorm        float64   `json:"ai"`
	HasAIRating   bool      `json:"has_ai_rating"`
}

// Rounded returns the final score at two decimals for presentation.
// Ranking always compares the unrounded value.
func (s EntryScore) Rounded() float64 {
	return float64(int64(s.Final*100+0.5)) / 100
}

// RankedEntry is one leaderboard row.
type RankedEntry struct {
	Rank      int                `json:"rank"`
	EntryID   uuid.UUID          `json:"entry_id"`
	UserID    sharedtypes.UserID `json:"user_id"`
	Category  string             `json:"category,omitempty"`
	Title     string             `json:"title,omitempty"`
	Score     float64            `json:"score"`
	CreatedAt time.Time          `json:"created_at"`
}

// ScoringConfig carries the fusion weights and the vote normalization
// ceiling. Loaded from service configuration; defaults favor community
// sentiment 60/40.
type ScoringConfig struct {
	CommunityWeight float64
	AIWeight        float64
	MaxVotesForNorm int
}

// DefaultScoringConfig returns the standard 60/40 fusion at a 100 vote
// ceiling.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		CommunityWeight: 0.6,
		AIWeight:        0.4,
		MaxVotesForNorm: 100,
	}
}
