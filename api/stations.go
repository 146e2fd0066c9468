package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chargewise/chargewise/core/metrics"
	"github.com/chargewise/chargewise/core/model"
)

// handleStations answers radius queries against the station directory.
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.Directory == nil {
		writeError(w, http.StatusServiceUnavailable, "station directory not loaded")
		return
	}
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":         "success",
			"total_stations": s.Directory.Len(),
		})
		return
	}
	radius := 5.0
	if v, err := strconv.ParseFloat(q.Get("radius"), 64); err == nil {
		radius = v
	}
	limit := 20
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = v
	}

	nearby := s.Directory.Nearby(lat, lon, radius, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"stations": nearby,
		"count":    len(nearby),
		"query":    map[string]any{"lat": lat, "lon": lon, "radius_miles": radius},
	})
}

type rankRequest struct {
	Stations         []model.StationCandidate `json:"stations"`
	MaxPricePerKWh   float64                  `json:"max_price_per_kwh"`
	MaxWaitMinutes   float64                  `json:"max_wait_minutes"`
	FastChargingOnly bool                     `json:"fast_charging_only"`
}

// handleRankStations filters and orders caller-supplied candidates.
func (s *Server) handleRankStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req rankRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ranked := s.Ranker.FilterAndRank(req.Stations, model.StationConstraints{
		MaxPricePerKWh:   req.MaxPricePerKWh,
		MaxWaitMinutes:   req.MaxWaitMinutes,
		FastChargingOnly: req.FastChargingOnly,
	})
	if err := s.sink().RecordStationQuery(metrics.StationQueryEvent{
		Candidates: len(req.Stations),
		Matched:    len(ranked),
		Time:       time.Now().UTC(),
	}); err != nil {
		s.Log.Warnf("record station query: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"stations": ranked,
		"count":    len(ranked),
	})
}
