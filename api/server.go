// Package api exposes the optimization core over HTTP. Handlers translate
// JSON requests into core calls; all computation lives in core packages.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/chargewise/chargewise/core/forecast"
	"github.com/chargewise/chargewise/core/logger"
	"github.com/chargewise/chargewise/core/metrics"
	"github.com/chargewise/chargewise/core/planner"
	"github.com/chargewise/chargewise/core/preference"
	"github.com/chargewise/chargewise/core/solar"
	"github.com/chargewise/chargewise/core/stations"
	infrastations "github.com/chargewise/chargewise/infra/stations"
	"github.com/chargewise/chargewise/infra/weather"
)

// Server bundles the core components behind the HTTP handlers.
type Server struct {
	Planner   *planner.Planner
	Prefs     preference.Store
	Weather   *weather.Client
	Solar     *solar.Estimator
	Forecast  forecast.Builder
	Directory *infrastations.Directory
	Ranker    stations.Ranker
	Sink      metrics.Sink
	Log       logger.Logger

	started time.Time
}

// Routes returns the API handler tree.
func (s *Server) Routes() http.Handler {
	s.started = time.Now()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/current-conditions", s.handleCurrentConditions)
	mux.HandleFunc("/api/optimize-session", s.handleOptimizeSession)
	mux.HandleFunc("/api/stations", s.handleStations)
	mux.HandleFunc("/api/stations/rank", s.handleRankStations)
	mux.HandleFunc("/api/route-optimization", s.handleRouteOptimization)
	mux.HandleFunc("/api/preferences", s.handlePreferences)
	return mux
}

func (s *Server) sink() metrics.Sink {
	if s.Sink == nil {
		return metrics.NopSink{}
	}
	return s.Sink
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"status":    "error",
		"message":   msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
