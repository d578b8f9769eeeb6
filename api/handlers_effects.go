package api

import (
	"log/slog"
	"net/http"
)

func (h *Handlers) activeModifiers(w http.ResponseWriter, r *http.Request) {
	result, err := h.effects.Resolve(r.Context(), userFrom(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Resolve modifiers failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "resolve failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: *result.Success, Degraded: result.DegradedReason})
}

func (h *Handlers) activeCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.effects.ActiveCampaigns(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "List campaigns failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: campaigns})
}
