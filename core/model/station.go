package model

// StationCandidate is one charging station considered for a trip stop.
type StationCandidate struct {
	Name              string  `json:"name"`
	Network           string  `json:"network"`
	PricePerKWh       float64 `json:"price_per_kwh"`
	WaitMinutes       float64 `json:"wait_minutes"`
	HasFastCharging   bool    `json:"has_fast_charging"`
	DistanceFromRoute float64 `json:"distance_from_route"`
}

// StationConstraints are the user-supplied limits a candidate must satisfy.
type StationConstraints struct {
	MaxPricePerKWh   float64 `json:"max_price_per_kwh"`
	MaxWaitMinutes   float64 `json:"max_wait_minutes"`
	FastChargingOnly bool    `json:"fast_charging_only"`
}

// Matches reports whether the station satisfies every constraint.
func (c StationConstraints) Matches(s StationCandidate) bool {
	if s.PricePerKWh > c.MaxPricePerKWh {
		return false
	}
	if s.WaitMinutes > c.MaxWaitMinutes {
		return false
	}
	if c.FastChargingOnly && !s.HasFastCharging {
		return false
	}
	return true
}
