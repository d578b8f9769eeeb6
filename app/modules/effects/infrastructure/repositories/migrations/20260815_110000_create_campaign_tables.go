package effectsmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating campaign tables...")

		queries := []string{
			`CREATE TABLE IF NOT EXISTS campaigns (
				id          bigserial   PRIMARY KEY,
				name        text        NOT NULL UNIQUE,
				description text        NULL,
				active      boolean     NOT NULL DEFAULT true,
				starts_at   timestamptz NOT NULL,
				ends_at     timestamptz NOT NULL,
				created_at  timestamptz NOT NULL DEFAULT current_timestamp
			)`,
			`CREATE TABLE IF NOT EXISTS campaign_effects (
				id          bigserial   PRIMARY KEY,
				campaign_id bigint      NOT NULL REFERENCES campaigns (id),
				kind        text        NOT NULL,
				magnitude   double precision NOT NULL,
				scope       text        NOT NULL DEFAULT 'global',
				user_id     text        NULL,
				starts_at   timestamptz NULL,
				ends_at     timestamptz NULL
			)`,
			`CREATE INDEX IF NOT EXISTS campaign_effects_campaign_idx
				ON campaign_effects (campaign_id)`,
			`CREATE INDEX IF NOT EXISTS campaigns_window_idx
				ON campaigns (starts_at, ends_at)`,
		}
		for _, q := range queries {
			if _, err := db.NewRaw(q).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Campaign tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping campaign tables...")

		for _, table := range []string{"campaign_effects", "campaigns"} {
			if _, err := db.NewRaw("DROP TABLE IF EXISTS " + table).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Campaign tables dropped successfully!")
		return nil
	})
}
