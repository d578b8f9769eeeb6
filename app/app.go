// Package app wires configuration, storage, messaging, observability, and
// the reward modules into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"

	"github.com/Amberfall-Games/emberquest/api"
	"github.com/Amberfall-Games/emberquest/app/eventbus"
	challengeservice "github.com/Amberfall-Games/emberquest/app/modules/challenge/application"
	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	effectsservice "github.com/Amberfall-Games/emberquest/app/modules/effects/application"
	lootservice "github.com/Amberfall-Games/emberquest/app/modules/loot/application"
	"github.com/Amberfall-Games/emberquest/app/notifications"
	"github.com/Amberfall-Games/emberquest/config"
	"github.com/Amberfall-Games/emberquest/db/bundb"
	challengemetrics "github.com/Amberfall-Games/emberquest/internal/observability/metrics/challenge"
	effectsmetrics "github.com/Amberfall-Games/emberquest/internal/observability/metrics/effects"
	lootmetrics "github.com/Amberfall-Games/emberquest/internal/observability/metrics/loot"
)

// App holds the wired application.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry

	LootService      lootservice.Service
	EffectsService   effectsservice.Service
	ChallengeService challengeservice.Service

	db       *bundb.DBService
	eventBus eventbus.EventBus
	server   *http.Server
}

// NewApp initializes the application from configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("service", "emberquest"),
		slog.String("environment", cfg.Observability.Environment),
	)

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	var bus eventbus.EventBus
	var notifier notifications.Sink = notifications.NewNoopSink()
	if cfg.NATS.URL != "" {
		bus, err = eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize event bus: %w", err)
		}
		if err := bus.CreateStream(ctx, eventbus.NotificationStream, eventbus.NotificationSubject); err != nil {
			return nil, fmt.Errorf("failed to create notification stream: %w", err)
		}
		if err := bus.CreateStream(ctx, eventbus.RewardStream, eventbus.RewardGrantSubject); err != nil {
			return nil, fmt.Errorf("failed to create reward stream: %w", err)
		}
		notifier = notifications.NewBusSink(bus, logger)
	} else {
		logger.Warn("NATS URL not configured, notifications and events are disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	tracer := otel.Tracer("emberquest")

	lootSvc := lootservice.NewLootService(
		dbService.LootDB,
		dbService.GetDB(),
		bus,
		notifier,
		logger,
		lootmetrics.NewPrometheus(registry),
		tracer,
		lootservice.WithHistoryWindow(cfg.Loot.HistoryWindow),
		lootservice.WithDailyChestType(cfg.Loot.DailyChestType),
	)

	effectsSvc := effectsservice.NewEffectsService(
		dbService.EffectsDB,
		dbService.GetDB(),
		logger,
		effectsmetrics.NewPrometheus(registry),
		tracer,
	)

	challengeSvc := challengeservice.NewChallengeService(
		dbService.ChallengeDB,
		dbService.GetDB(),
		logger,
		challengemetrics.NewPrometheus(registry),
		tracer,
		challengeservice.WithScoringConfig(challengetypes.ScoringConfig{
			CommunityWeight: cfg.Scoring.CommunityWeight,
			AIWeight:        cfg.Scoring.AIWeight,
			MaxVotesForNorm: int(cfg.Scoring.MaxVotesForNorm),
		}),
	)

	handlers := api.NewHandlers(lootSvc, effectsSvc, challengeSvc, logger)

	return &App{
		Cfg:              cfg,
		Logger:           logger,
		Registry:         registry,
		LootService:      lootSvc,
		EffectsService:   effectsSvc,
		ChallengeService: challengeSvc,
		db:               dbService,
		eventBus:         bus,
		server: &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      handlers.Router(registry),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}, nil
}

// Run serves HTTP until the context is canceled, then shuts down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	return nil
}

// Close releases the messaging and database connections.
func (a *App) Close() {
	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			a.Logger.Error("Failed to close event bus", slog.Any("error", err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.Logger.Error("Failed to close database", slog.Any("error", err))
	}
}
