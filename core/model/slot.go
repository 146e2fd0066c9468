package model

import (
	"math"
	"time"
)

// ForecastSlot is one discrete scheduling unit of the optimization input,
// typically one hour, carrying the expected solar output and utility rate.
type ForecastSlot struct {
	Timestamp     time.Time `json:"timestamp"`
	DurationHours float64   `json:"duration_hours"`
	SolarPowerKW  float64   `json:"solar_power_kw"`
	UtilityRate   float64   `json:"utility_rate"`
}

// Usable reports whether the slot carries enough well-formed data to be
// scored at all. Slots failing this check are dropped, not repaired.
func (s ForecastSlot) Usable() bool {
	if s.Timestamp.IsZero() || s.DurationHours <= 0 {
		return false
	}
	if math.IsNaN(s.DurationHours) || math.IsInf(s.DurationHours, 0) {
		return false
	}
	if math.IsInf(s.SolarPowerKW, 0) || math.IsInf(s.UtilityRate, 0) {
		return false
	}
	return true
}

// RecommendationTier classifies a scored slot for presentation.
type RecommendationTier string

const (
	TierOptimal RecommendationTier = "optimal"
	TierGood    RecommendationTier = "good"
	TierWait    RecommendationTier = "wait"
)

// ScoredSlot is a ForecastSlot with its optimization score attached.
type ScoredSlot struct {
	ForecastSlot
	Score float64            `json:"score"`
	Tier  RecommendationTier `json:"recommendation_tier"`
}
