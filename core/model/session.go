package model

import (
	"errors"
	"time"
)

// Validation errors returned before any allocation is attempted.
var (
	ErrWindowInverted    = errors.New("session end must be after session start")
	ErrEnergyNotPositive = errors.New("energy needed must be positive")
	ErrRateNotPositive   = errors.New("max charge rate must be positive")
)

// SessionRequest describes one charging session to optimize.
type SessionRequest struct {
	SessionStart    time.Time `json:"session_start"`
	SessionEnd      time.Time `json:"session_end"`
	EnergyNeededKWh float64   `json:"energy_needed_kwh"`
	MaxChargeRateKW float64   `json:"max_charge_rate_kw"`
}

// Validate checks the request preconditions. A failing request is rejected
// synchronously with a specific reason.
func (r SessionRequest) Validate() error {
	if !r.SessionEnd.After(r.SessionStart) {
		return ErrWindowInverted
	}
	if r.EnergyNeededKWh <= 0 {
		return ErrEnergyNotPositive
	}
	if r.MaxChargeRateKW <= 0 {
		return ErrRateNotPositive
	}
	return nil
}

// ScheduleEntry is one allocated hour of the resulting charging plan.
type ScheduleEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	EnergyKWh        float64   `json:"energy_kwh"`
	UtilityRate      float64   `json:"utility_rate"`
	Cost             float64   `json:"cost"`
	SolarAvailableKW float64   `json:"solar_available_kw"`
	Score            float64   `json:"score"`
}

// OptimizationSummary aggregates the economics of a schedule. DeficitKWh is
// non-zero when the window capacity could not cover the requested energy.
type OptimizationSummary struct {
	TotalCost       float64 `json:"total_cost"`
	AverageRate     float64 `json:"average_rate"`
	SolarOffsetKWh  float64 `json:"solar_offset_kwh"`
	SolarPercentage float64 `json:"solar_percentage"`
	ChargingHours   int     `json:"charging_hours"`
	TotalEnergyKWh  float64 `json:"total_energy_kwh"`
	DeficitKWh      float64 `json:"deficit_kwh"`
}

// ChargingSchedule is the full optimization output.
type ChargingSchedule struct {
	ID      string              `json:"id"`
	Entries []ScheduleEntry     `json:"entries"`
	Summary OptimizationSummary `json:"summary"`
}
