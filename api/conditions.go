package api

import (
	"net/http"
	"time"

	"github.com/chargewise/chargewise/core/tou"
)

// handleHealth reports service liveness and loaded data counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stationCount := 0
	if s.Directory != nil {
		stationCount = s.Directory.Len()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"stations_loaded": stationCount,
		"uptime_seconds":  int(time.Since(s.started).Seconds()),
	})
}

// handleCurrentConditions returns the weather snapshot, the modeled solar
// output and the rate currently in effect for both utilities.
func (s *Server) handleCurrentConditions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	now := time.Now()
	current := s.Weather.Current(r.Context())
	est := s.Solar.Estimate(now, current)

	pricing := map[string]any{}
	for _, u := range []tou.Utility{tou.LADWP, tou.SCE} {
		rate, period, err := tou.RateAt(u, now)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pricing[string(u)] = map[string]any{"rate": rate, "period": period}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"timestamp": now.UTC().Format(time.RFC3339),
		"weather":   current,
		"solar":     est,
		"pricing":   pricing,
	})
}
