package challengedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// ChallengeRepository is the bun-backed implementation of Repository.
type ChallengeRepository struct{}

var _ Repository = (*ChallengeRepository)(nil)

// NewRepository returns the bun-backed challenge repository.
func NewRepository() *ChallengeRepository { return &ChallengeRepository{} }

func (r *ChallengeRepository) CreateEntry(ctx context.Context, db bun.IDB, userID sharedtypes.UserID, category, title string) (*challengetypes.Entry, error) {
	row := &ChallengeEntry{
		UserID:   userID,
		Category: category,
		Title:    title,
	}
	if _, err := db.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return mapEntry(row), nil
}

func (r *ChallengeRepository) GetEntry(ctx context.Context, db bun.IDB, entryID uuid.UUID) (*challengetypes.Entry, error) {
	row := new(ChallengeEntry)
	err := db.NewSelect().
		Model(row).
		Where("id = ?", entryID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry %s: %w", entryID, err)
	}
	return mapEntry(row), nil
}

func (r *ChallengeRepository) EntriesSince(ctx context.Context, db bun.IDB, since time.Time, category string) ([]challengetypes.Entry, error) {
	var rows []ChallengeEntry
	q := db.NewSelect().
		Model(&rows).
		Where("created_at >= ?", since).
		Order("created_at ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]challengetypes.Entry, len(rows))
	for i := range rows {
		entries[i] = *mapEntry(&rows[i])
	}
	return entries, nil
}

func mapEntry(row *ChallengeEntry) *challengetypes.Entry {
	return &challengetypes.Entry{
		ID:        row.ID,
		UserID:    row.UserID,
		Category:  row.Category,
		Title:     row.Title,
		CreatedAt: row.CreatedAt,
	}
}

func (r *ChallengeRepository) CastVote(ctx context.Context, db bun.IDB, entryID uuid.UUID, voterID sharedtypes.UserID, kind challengetypes.VoteKind) error {
	vote := &ChallengeVote{
		EntryID: entryID,
		VoterID: voterID,
		Kind:    string(kind),
	}
	if _, err := db.NewInsert().Model(vote).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		return fmt.Errorf("failed to cast vote: %w", err)
	}
	return nil
}

// isUniqueViolation detects the postgres unique constraint error for the
// one-vote-per-dimension index.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

func (r *ChallengeRepository) VoteCounts(ctx context.Context, db bun.IDB, entryIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(entryIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	var rows []struct {
		EntryID uuid.UUID `bun:"entry_id"`
		Count   int       `bun:"count"`
	}
	err := db.NewSelect().
		Model((*ChallengeVote)(nil)).
		Column("entry_id").
		ColumnExpr("count(*) AS count").
		Where("entry_id IN (?)", bun.In(entryIDs)).
		Group("entry_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.EntryID] = row.Count
	}
	return counts, nil
}

func (r *ChallengeRepository) SaveRating(ctx context.Context, db bun.IDB, entryID uuid.UUID, model string, metrics challengetypes.AIMetricVector) error {
	clamped := make(map[string]float64, len(metrics))
	for name, value := range metrics {
		clamped[name] = clampMetric(value)
	}

	rating := &RatingResult{
		EntryID: entryID,
		Metrics: clamped,
		Model:   model,
	}
	_, err := db.NewInsert().
		Model(rating).
		On("CONFLICT (entry_id) DO UPDATE").
		Set("metrics = EXCLUDED.metrics").
		Set("model = EXCLUDED.model").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

// clampMetric bounds a rating dimension to [0, 100]. Out-of-range model
// output is corrected at the storage boundary so every reader sees sane
// values.
func clampMetric(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (r *ChallengeRepository) FindRating(ctx context.Context, db bun.IDB, entryID uuid.UUID) (challengetypes.AIMetricVector, error) {
	row := new(RatingResult)
	err := db.NewSelect().
		Model(row).
		Where("entry_id = ?", entryID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating for entry %s: %w", entryID, err)
	}
	return challengetypes.AIMetricVector(row.Metrics), nil
}

func (r *ChallengeRepository) FindRatings(ctx context.Context, db bun.IDB, entryIDs []uuid.UUID) (map[uuid.UUID]challengetypes.AIMetricVector, error) {
	if len(entryIDs) == 0 {
		return map[uuid.UUID]challengetypes.AIMetricVector{}, nil
	}

	var rows []RatingResult
	err := db.NewSelect().
		Model(&rows).
		Where("entry_id IN (?)", bun.In(entryIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	ratings := make(map[uuid.UUID]challengetypes.AIMetricVector, len(rows))
	for _, row := range rows {
		ratings[row.EntryID] = challengetypes.AIMetricVector(row.Metrics)
	}
	return ratings, nil
}
