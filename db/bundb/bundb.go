package bundb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	challengedb "github.com/Amberfall-Games/emberquest/app/modules/challenge/infrastructure/repositories"
	effectsdb "github.com/Amberfall-Games/emberquest/app/modules/effects/infrastructure/repositories"
	lootdb "github.com/Amberfall-Games/emberquest/app/modules/loot/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/config"
)

// DBService bundles the bun connection with the per-module repositories.
type DBService struct {
	LootDB      lootdb.Repository
	EffectsDB   effectsdb.Repository
	ChallengeDB challengedb.Repository

	db *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the underlying connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService opens the Postgres connection and wires the module
// repositories. The driver is selectable so deployments already on pgx
// keep their pool settings.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	registerModels(db)

	return &DBService{
		LootDB:      lootdb.NewRepository(),
		EffectsDB:   effectsdb.NewRepository(),
		ChallengeDB: challengedb.NewRepository(),
		db:          db,
	}, nil
}

func pgConn(cfg config.PostgresConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "pgx":
		return sql.Open("pgx", cfg.DSN)
	case "", "pg", "pgdriver":
		return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN))), nil
	default:
		return nil, fmt.Errorf("unknown postgres driver %q", cfg.Driver)
	}
}

// registerModels tells bun about every relation used by the repositories.
func registerModels(db *bun.DB) {
	db.RegisterModel(
		(*lootdb.Item)(nil),
		(*lootdb.LootTable)(nil),
		(*lootdb.Chest)(nil),
		(*lootdb.UserChest)(nil),
		(*lootdb.InventoryGrant)(nil),
		(*lootdb.Wallet)(nil),
		(*effectsdb.Campaign)(nil),
		(*effectsdb.CampaignEffect)(nil),
		(*challengedb.ChallengeEntry)(nil),
		(*challengedb.ChallengeVote)(nil),
		(*challengedb.RatingResult)(nil),
	)
}
