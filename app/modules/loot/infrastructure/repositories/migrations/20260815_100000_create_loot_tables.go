package lootmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating loot tables...")

		queries := []string{
			`CREATE TABLE IF NOT EXISTS items (
				id         text  PRIMARY KEY,
				name       text  NOT NULL,
				emoji      text  NULL,
				icon       text  NULL,
				rarity     text  NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS loot_tables (
				id         bigserial PRIMARY KEY,
				name       text      NOT NULL UNIQUE,
				enemy_type text      NULL,
				items      jsonb     NOT NULL,
				weights    jsonb     NULL,
				created_at timestamptz NOT NULL DEFAULT current_timestamp
			)`,
			`CREATE TABLE IF NOT EXISTS chests (
				id              bigserial PRIMARY KEY,
				chest_type      text      NOT NULL UNIQUE,
				loot_table_name text      NOT NULL,
				item_count      integer   NOT NULL DEFAULT 1,
				bonus_funds     integer   NOT NULL DEFAULT 0,
				bonus_xp        integer   NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS user_chests (
				id         uuid        PRIMARY KEY,
				user_id    text        NOT NULL,
				chest_id   bigint      NOT NULL REFERENCES chests (id),
				opened     boolean     NOT NULL DEFAULT false,
				created_at timestamptz NOT NULL DEFAULT current_timestamp
			)`,
			`CREATE INDEX IF NOT EXISTS user_chests_user_unopened_idx
				ON user_chests (user_id, created_at DESC) WHERE NOT opened`,
			`CREATE TABLE IF NOT EXISTS inventory_grants (
				id         uuid        PRIMARY KEY,
				user_id    text        NOT NULL,
				item_id    text        NOT NULL,
				rarity     text        NOT NULL,
				created_at timestamptz NOT NULL DEFAULT current_timestamp
			)`,
			`CREATE INDEX IF NOT EXISTS inventory_grants_user_recent_idx
				ON inventory_grants (user_id, created_at DESC)`,
			`CREATE TABLE IF NOT EXISTS player_wallets (
				user_id    text        PRIMARY KEY,
				funds      bigint      NOT NULL DEFAULT 0,
				xp         bigint      NOT NULL DEFAULT 0,
				updated_at timestamptz NOT NULL DEFAULT current_timestamp
			)`,
		}
		for _, q := range queries {
			if _, err := db.NewRaw(q).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Loot tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping loot tables...")

		for _, table := range []string{"player_wallets", "inventory_grants", "user_chests", "chests", "loot_tables", "items"} {
			if _, err := db.NewRaw("DROP TABLE IF EXISTS " + table).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Loot tables dropped successfully!")
		return nil
	})
}
