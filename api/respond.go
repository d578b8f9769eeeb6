package api

import (
	"context"
	"encoding/json"
	"net/http"

	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

type contextKey string

const userIDKey contextKey = "user_id"

// requireUser pulls the acting user from the X-User-ID header set by the
// gateway. Requests without one are rejected before any handler runs.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, sharedtypes.UserID(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(r *http.Request) sharedtypes.UserID {
	userID, _ := r.Context().Value(userIDKey).(sharedtypes.UserID)
	return userID
}

// envelope is the uniform response body. Degraded successes carry the
// reason so clients can tell a full answer from a fallback one.
type envelope struct {
	Data     any    `json:"data,omitempty"`
	Degraded string `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg})
}
