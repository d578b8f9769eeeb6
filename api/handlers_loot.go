package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	lootservice "github.com/Amberfall-Games/emberquest/app/modules/loot/application"
	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	lootdb "github.com/Amberfall-Games/emberquest/app/modules/loot/infrastructure/repositories"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
)

type rollLootRequest struct {
	Pool      string `json:"pool"`
	EnemyType string `json:"enemy_type"`
}

func (h *Handlers) rollLoot(w http.ResponseWriter, r *http.Request) {
	var req rollLootRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	var (
		result results.OperationResult[*loottypes.RewardResult, error]
		err    error
	)
	switch {
	case req.Pool != "":
		result, err = h.loot.RollLoot(r.Context(), userFrom(r), req.Pool)
	case req.EnemyType != "":
		result, err = h.loot.RollFightLoot(r.Context(), userFrom(r), req.EnemyType)
	default:
		writeError(w, http.StatusBadRequest, "pool or enemy_type is required")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Roll loot failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "roll failed")
		return
	}
	if result.IsFailure() {
		writeError(w, http.StatusUnprocessableEntity, (*result.Failure).Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{Data: *result.Success, Degraded: result.DegradedReason})
}

func (h *Handlers) openChest(w http.ResponseWriter, r *http.Request) {
	chestID, err := uuid.Parse(chi.URLParam(r, "chestID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chest id")
		return
	}

	result, err := h.loot.OpenChest(r.Context(), userFrom(r), chestID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Open chest failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "open failed")
		return
	}
	if result.IsFailure() {
		failure := *result.Failure
		switch {
		case errors.Is(failure, lootdb.ErrNotFound):
			writeError(w, http.StatusNotFound, "chest not found")
		case errors.Is(failure, lootservice.ErrChestNotOwned):
			writeError(w, http.StatusForbidden, "chest not owned")
		case errors.Is(failure, lootdb.ErrChestAlreadyOpened):
			writeError(w, http.StatusConflict, "chest already opened")
		default:
			writeError(w, http.StatusUnprocessableEntity, failure.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, envelope{Data: *result.Success, Degraded: result.DegradedReason})
}

func (h *Handlers) grantDailyChest(w http.ResponseWriter, r *http.Request) {
	result, err := h.loot.GrantDailyChest(r.Context(), userFrom(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Grant daily chest failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "grant failed")
		return
	}
	if result.IsFailure() {
		writeError(w, http.StatusUnprocessableEntity, (*result.Failure).Error())
		return
	}
	if result.IsDegraded() {
		// Already granted today; not an error, nothing new to hand out.
		writeJSON(w, http.StatusOK, envelope{Degraded: result.DegradedReason})
		return
	}

	writeJSON(w, http.StatusCreated, envelope{Data: *result.Success})
}

func (h *Handlers) listUnopenedChests(w http.ResponseWriter, r *http.Request) {
	chests, err := h.loot.ListUnopenedChests(r.Context(), userFrom(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "List unopened chests failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: chests})
}
