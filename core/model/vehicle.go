package model

import "fmt"

// VehicleProfile describes the charging-relevant characteristics of an EV.
type VehicleProfile struct {
	CapacityKWh        float64 `json:"capacity_kwh"`
	EfficiencyKWhPerMi float64 `json:"efficiency_kwh_per_mile"`
	MaxChargeRateKW    float64 `json:"max_charge_rate_kw"`
}

// Validate checks that the profile is sound.
func (v VehicleProfile) Validate() error {
	if v.CapacityKWh <= 0 {
		return fmt.Errorf("battery capacity must be positive")
	}
	if v.MaxChargeRateKW <= 0 {
		return fmt.Errorf("max charge rate must be positive")
	}
	return nil
}

// Weather is the snapshot of environmental conditions used for range
// derating and solar estimation.
type Weather struct {
	TemperatureF float64 `json:"temperature"`
	WindSpeedMph float64 `json:"wind_speed"`
	Humidity     float64 `json:"humidity"`
	CloudsPct    float64 `json:"clouds"`
	Description  string  `json:"description"`
}

// RouteChargingDecision reports whether a trip needs a charging stop.
type RouteChargingDecision struct {
	NeedsCharging       bool    `json:"needs_charging"`
	AvailableRangeMiles float64 `json:"available_range_miles"`
	TripDistanceMiles   float64 `json:"trip_distance_miles"`
}
