package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/chargewise/chargewise/core/metrics"
	"github.com/chargewise/chargewise/core/model"
	"github.com/chargewise/chargewise/core/planner"
	"github.com/chargewise/chargewise/core/preference"
	"github.com/chargewise/chargewise/core/tou"
)

// defaultMaxChargeRateKW matches a typical DC charging cap.
const defaultMaxChargeRateKW = 50

type optimizeRequest struct {
	SessionStart    time.Time            `json:"session_start"`
	SessionEnd      time.Time            `json:"session_end"`
	EnergyNeededKWh float64              `json:"energy_needed_kwh"`
	MaxChargeRateKW float64              `json:"max_charge_rate_kw"`
	Utility         string               `json:"utility"`
	SessionID       string               `json:"session_id"`
	Forecast        []model.ForecastSlot `json:"forecast"`
}

type optimizeResponse struct {
	Status    string                    `json:"status"`
	Timestamp string                    `json:"timestamp"`
	Schedule  []model.ScheduleEntry     `json:"charging_schedule"`
	Summary   model.OptimizationSummary `json:"optimization_summary"`
	ID        string                    `json:"schedule_id"`
	Utility   string                    `json:"utility"`
}

// handleOptimizeSession computes a charging schedule for the requested
// window. A forecast supplied in the request wins; otherwise one is built
// from the solar model and the utility's TOU schedule.
func (s *Server) handleOptimizeSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req optimizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	utility := tou.Utility(req.Utility)
	if req.Utility == "" {
		utility = tou.LADWP
	}
	if !utility.Valid() {
		writeError(w, http.StatusBadRequest, "unknown utility")
		return
	}
	if req.MaxChargeRateKW == 0 {
		req.MaxChargeRateKW = defaultMaxChargeRateKW
	}

	coreReq := model.SessionRequest{
		SessionStart:    req.SessionStart,
		SessionEnd:      req.SessionEnd,
		EnergyNeededKWh: req.EnergyNeededKWh,
		MaxChargeRateKW: req.MaxChargeRateKW,
	}
	if err := coreReq.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slots := req.Forecast
	if len(slots) == 0 {
		current := s.Weather.Current(r.Context())
		built, err := s.Forecast.Window(req.SessionStart, req.SessionEnd, utility, current)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slots = built
	}

	var prefs preference.State
	if req.SessionID != "" {
		var err error
		prefs, err = s.Prefs.Get(r.Context(), req.SessionID)
		if err != nil {
			s.Log.Errorf("load preferences for %s: %v", req.SessionID, err)
		}
	}

	schedule, err := s.Planner.Optimize(coreReq, slots, prefs)
	switch {
	case errors.Is(err, planner.ErrNoUsableForecast):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dropped := 0
	for _, slot := range slots {
		if !slot.Usable() {
			dropped++
		}
	}
	if err := s.sink().RecordOptimization(metrics.OptimizationEvent{
		ScheduleID:     schedule.ID,
		Utility:        string(utility),
		Policy:         string(s.Planner.Policy()),
		TotalCost:      schedule.Summary.TotalCost,
		TotalEnergyKWh: schedule.Summary.TotalEnergyKWh,
		SolarOffsetKWh: schedule.Summary.SolarOffsetKWh,
		DeficitKWh:     schedule.Summary.DeficitKWh,
		ChargingHours:  schedule.Summary.ChargingHours,
		SlotsDropped:   dropped,
		Time:           time.Now().UTC(),
	}); err != nil {
		s.Log.Warnf("record optimization: %v", err)
	}

	writeJSON(w, http.StatusOK, optimizeResponse{
		Status:    "success",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Schedule:  schedule.Entries,
		Summary:   schedule.Summary,
		ID:        schedule.ID,
		Utility:   string(utility),
	})
}
