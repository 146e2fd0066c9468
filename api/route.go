package api

import (
	"net/http"
	"time"

	"github.com/chargewise/chargewise/core/metrics"
	"github.com/chargewise/chargewise/core/model"
	"github.com/chargewise/chargewise/core/route"
)

type routeRequest struct {
	VehicleNominalRangeMiles float64                  `json:"vehicle_range_miles"`
	CurrentBatteryPercent    float64                  `json:"current_battery_percent"`
	TripDistanceMiles        float64                  `json:"trip_distance_miles"`
	Weather                  *model.Weather           `json:"weather"`
	Stations                 []model.StationCandidate `json:"stations"`
	MaxPricePerKWh           float64                  `json:"max_price_per_kwh"`
	MaxWaitMinutes           float64                  `json:"max_wait_minutes"`
	FastChargingOnly         bool                     `json:"fast_charging_only"`
}

// handleRouteOptimization derates range for the trip and, when a stop is
// needed, ranks the supplied candidate stations.
func (s *Server) handleRouteOptimization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req routeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.VehicleNominalRangeMiles <= 0 {
		writeError(w, http.StatusBadRequest, "vehicle_range_miles must be positive")
		return
	}
	if req.CurrentBatteryPercent < 0 || req.CurrentBatteryPercent > 100 {
		writeError(w, http.StatusBadRequest, "current_battery_percent must be within 0-100")
		return
	}

	current := model.Weather{}
	if req.Weather != nil {
		current = *req.Weather
	} else {
		current = s.Weather.Current(r.Context())
	}

	decision := route.DecideCharging(
		req.VehicleNominalRangeMiles,
		req.CurrentBatteryPercent,
		req.TripDistanceMiles,
		current,
	)

	var stops []model.StationCandidate
	if decision.NeedsCharging && len(req.Stations) > 0 {
		stops = s.Ranker.FilterAndRank(req.Stations, model.StationConstraints{
			MaxPricePerKWh:   req.MaxPricePerKWh,
			MaxWaitMinutes:   req.MaxWaitMinutes,
			FastChargingOnly: req.FastChargingOnly,
		})
	}

	if err := s.sink().RecordRangeEstimate(metrics.RangeEstimateEvent{
		RangeMiles:    int(decision.AvailableRangeMiles),
		NeedsCharging: decision.NeedsCharging,
		Weather:       current,
		Time:          time.Now().UTC(),
	}); err != nil {
		s.Log.Warnf("record range estimate: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "success",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"charging_analysis": decision,
		"suggested_stops":   stops,
	})
}
