package api

import (
	"net/http"
	"time"
)

// handlePreferences exposes the learned preference state for one session.
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	state, err := s.Prefs.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"session_id": sessionID,
		"state":      state,
		"stats":      state.Summarize(),
	})
}
