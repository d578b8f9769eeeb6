// Package api exposes the reward core over HTTP. Authentication happens
// upstream at the gateway; the acting user arrives in the X-User-ID header.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	challengeservice "github.com/Amberfall-Games/emberquest/app/modules/challenge/application"
	effectsservice "github.com/Amberfall-Games/emberquest/app/modules/effects/application"
	lootservice "github.com/Amberfall-Games/emberquest/app/modules/loot/application"
)

// Handlers carries the module services the HTTP layer dispatches to.
type Handlers struct {
	loot      lootservice.Service
	effects   effectsservice.Service
	challenge challengeservice.Service
	logger    *slog.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(
	loot lootservice.Service,
	effects effectsservice.Service,
	challenge challengeservice.Service,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		loot:      loot,
		effects:   effects,
		challenge: challenge,
		logger:    logger,
	}
}

// Router builds the chi router for the reward API.
func (h *Handlers) Router(registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireUser)

		r.Post("/loot/rolls", h.rollLoot)
		r.Post("/chests/daily", h.grantDailyChest)
		r.Post("/chests/{chestID}/open", h.openChest)
		r.Get("/chests/unopened", h.listUnopenedChests)

		r.Get("/modifiers", h.activeModifiers)
		r.Get("/campaigns/active", h.activeCampaigns)

		r.Post("/entries", h.submitEntry)
		r.Post("/entries/{entryID}/votes", h.castVote)
		r.Put("/entries/{entryID}/rating", h.recordRating)
		r.Get("/entries/{entryID}/score", h.scoreEntry)
		r.Get("/entries/{entryID}/rank", h.entryRank)
		r.Get("/leaderboard/weekly", h.weeklyLeaderboard)
	})

	return r
}
