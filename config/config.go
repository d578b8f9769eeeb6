package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Loot          LootConfig          `yaml:"loot"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
	// Driver selects the sql driver backing bun: "pgx" or "pg" (pgdriver).
	Driver string `yaml:"driver"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// ScoringConfig holds composite-score fusion settings for challenge
// leaderboards.
//
// CommunityWeight + AIWeight summing to 1.0 is a configuration contract,
// not a runtime-checked invariant: a mismatch is logged loudly at load
// time but does not fail startup.
type ScoringConfig struct {
	CommunityWeight float64 `yaml:"community_weight"`
	AIWeight        float64 `yaml:"ai_weight"`
	MaxVotesForNorm float64 `yaml:"max_votes_for_norm"`
}

// LootConfig holds loot/chest tuning.
type LootConfig struct {
	// HistoryWindow is how many recent grants the smart-drop guard inspects.
	HistoryWindow int `yaml:"history_window"`
	// DailyChestType is the chest tier granted on daily login.
	DailyChestType string `yaml:"daily_chest_type"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Postgres.Driver = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("SCORING_COMMUNITY_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.CommunityWeight = f
		}
	}
	if v := os.Getenv("SCORING_AI_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.AIWeight = f
		}
	}
	if v := os.Getenv("SCORING_MAX_VOTES_FOR_NORM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.MaxVotesForNorm = f
		}
	}

	cfg.applyDefaults()
	cfg.warnOnSuspectWeights()

	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	cfg.Postgres.Driver = os.Getenv("DATABASE_DRIVER")

	cfg.NATS.URL = os.Getenv("NATS_URL")
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}

	cfg.HTTP.Addr = os.Getenv("HTTP_ADDR")
	cfg.Observability.MetricsAddress = os.Getenv("METRICS_ADDRESS")
	cfg.Observability.Environment = os.Getenv("ENV")

	if v := os.Getenv("SCORING_COMMUNITY_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.CommunityWeight = f
		}
	}
	if v := os.Getenv("SCORING_AI_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.AIWeight = f
		}
	}
	if v := os.Getenv("SCORING_MAX_VOTES_FOR_NORM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.MaxVotesForNorm = f
		}
	}

	cfg.applyDefaults()
	cfg.warnOnSuspectWeights()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Postgres.Driver == "" {
		c.Postgres.Driver = "pgx"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Scoring.CommunityWeight == 0 && c.Scoring.AIWeight == 0 {
		c.Scoring.CommunityWeight = 0.6
		c.Scoring.AIWeight = 0.4
	}
	if c.Scoring.MaxVotesForNorm <= 0 {
		c.Scoring.MaxVotesForNorm = 100
	}
	if c.Loot.HistoryWindow <= 0 {
		c.Loot.HistoryWindow = 3
	}
	if c.Loot.DailyChestType == "" {
		c.Loot.DailyChestType = "wooden"
	}
}

// warnOnSuspectWeights logs when the fusion weights do not sum to 1.0.
// Startup continues either way; the sum is a documented contract only.
func (c *Config) warnOnSuspectWeights() {
	sum := c.Scoring.CommunityWeight + c.Scoring.AIWeight
	if sum < 0.999 || sum > 1.001 {
		slog.Warn("scoring weights do not sum to 1.0",
			slog.Float64("community_weight", c.Scoring.CommunityWeight),
			slog.Float64("ai_weight", c.Scoring.AIWeight),
			slog.Float64("sum", sum),
		)
	}
}
