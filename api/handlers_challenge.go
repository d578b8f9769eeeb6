package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	challengeservice "github.com/Amberfall-Games/emberquest/app/modules/challenge/application"
	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	challengedb "github.com/Amberfall-Games/emberquest/app/modules/challenge/infrastructure/repositories"
)

type submitEntryRequest struct {
	Category string `json:"category"`
	Title    string `json:"title"`
}

func (h *Handlers) submitEntry(w http.ResponseWriter, r *http.Request) {
	var req submitEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	result, err := h.challenge.SubmitEntry(r.Context(), userFrom(r), req.Category, req.Title)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Submit entry failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "submit failed")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Data: *result.Success})
}

type castVoteRequest struct {
	Kind string `json:"kind"`
}

func (h *Handlers) castVote(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	kind := challengetypes.VoteKind(req.Kind)
	if kind != challengetypes.VoteAppeal && kind != challengetypes.VoteCreativity {
		writeError(w, http.StatusBadRequest, "unknown vote kind")
		return
	}

	result, err := h.challenge.CastVote(r.Context(), userFrom(r), entryID, kind)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Cast vote failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "vote failed")
		return
	}
	if result.IsFailure() {
		if errors.Is(*result.Failure, challengedb.ErrDuplicateVote) {
			writeError(w, http.StatusConflict, "vote already cast")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, (*result.Failure).Error())
		return
	}
	writeJSON(w, http.StatusCreated, envelope{})
}

type recordRatingRequest struct {
	Model   string             `json:"model"`
	Metrics map[string]float64 `json:"metrics"`
}

func (h *Handlers) recordRating(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	var req recordRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Metrics) == 0 {
		writeError(w, http.StatusBadRequest, "metrics are required")
		return
	}

	result, err := h.challenge.RecordRating(r.Context(), entryID, req.Model, req.Metrics)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Record rating failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "rating failed")
		return
	}
	if result.IsFailure() {
		writeError(w, http.StatusUnprocessableEntity, (*result.Failure).Error())
		return
	}
	writeJSON(w, http.StatusOK, envelope{})
}

func (h *Handlers) scoreEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	result, err := h.challenge.ScoreEntry(r.Context(), entryID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Score entry failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "score failed")
		return
	}
	if result.IsFailure() {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: *result.Success, Degraded: result.DegradedReason})
}

func (h *Handlers) entryRank(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	result, err := h.challenge.EntryRank(r.Context(), entryID, r.URL.Query().Get("category"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Entry rank failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "rank failed")
		return
	}
	if result.IsFailure() {
		failure := *result.Failure
		switch {
		case errors.Is(failure, challengedb.ErrNotFound):
			writeError(w, http.StatusNotFound, "entry not found")
		case errors.Is(failure, challengeservice.ErrEntryOutsideWindow):
			writeError(w, http.StatusNotFound, "entry has no rank this week")
		default:
			writeError(w, http.StatusUnprocessableEntity, failure.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: *result.Success, Degraded: result.DegradedReason})
}

func (h *Handlers) weeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	result, err := h.challenge.WeeklyLeaderboard(r.Context(), r.URL.Query().Get("category"), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Weekly leaderboard failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "leaderboard failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: *result.Success, Degraded: result.DegradedReason})
}
