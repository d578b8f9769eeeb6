package challengemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating challenge tables...")

		queries := []string{
			`CREATE TABLE IF NOT EXISTS challenge_entries (
				id         uuid        PRIMARY KEY,
				user_id    text        NOT NULL,
				category   text        NULL,
				title      text        NULL,
				created_at timestamptz NOT NULL DEFAULT current_timestamp
			)`,
			`CREATE INDEX IF NOT EXISTS challenge_entries_window_idx
				ON challenge_entries (created_at, category)`,
			`CREATE TABLE IF NOT EXISTS challenge_votes (
				id         uuid        PRIMARY KEY,
				entry_id   uuid        NOT NULL REFERENCES challenge_entries (id),
				voter_id   text        NOT NULL,
				kind       text        NOT NULL,
				created_at timestamptz NOT NULL DEFAULT current_timestamp
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS challenge_votes_one_per_dimension_idx
				ON challenge_votes (entry_id, voter_id, kind)`,
			`CREATE TABLE IF NOT EXISTS rating_results (
				entry_id   uuid        PRIMARY KEY REFERENCES challenge_entries (id),
				metrics    jsonb       NOT NULL,
				model      text        NULL,
				created_at timestamptz NOT NULL DEFAULT current_timestamp
			)`,
		}
		for _, q := range queries {
			if _, err := db.NewRaw(q).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Challenge tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping challenge tables...")

		for _, table := range []string{"rating_results", "challenge_votes", "challenge_entries"} {
			if _, err := db.NewRaw("DROP TABLE IF EXISTS " + table).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Challenge tables dropped successfully!")
		return nil
	})
}
