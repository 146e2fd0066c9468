package scoring

import (
	"math"

	"github.com/chargewise/chargewise/core/logger"
	"github.com/chargewise/chargewise/core/model"
	"github.com/chargewise/chargewise/core/preference"
)

// Weights control the blend of the three scoring components. They should
// sum to roughly 1 but the final score is clamped regardless.
type Weights struct {
	Solar   float64 `json:"solar"`
	Price   float64 `json:"price"`
	History float64 `json:"history"`
}

// Config defines the normalization bounds for slot scoring.
type Config struct {
	// SolarReferenceKW is the solar output that maps to a full solar score.
	SolarReferenceKW float64 `json:"solar_reference_kw"`
	// RateFloor and RateCeiling bound the utility rate normalization.
	RateFloor   float64 `json:"rate_floor"`
	RateCeiling float64 `json:"rate_ceiling"`
	Weights     Weights `json:"weights"`
}

// SetDefaults applies the default normalization band and weights.
func (c *Config) SetDefaults() {
	if c.SolarReferenceKW == 0 {
		c.SolarReferenceKW = 50
	}
	if c.RateFloor == 0 && c.RateCeiling == 0 {
		c.RateFloor = 0.22
		c.RateCeiling = 0.37
	}
	if c.Weights == (Weights{}) {
		c.Weights = Weights{Solar: 0.4, Price: 0.4, History: 0.2}
	}
}

// Validate checks that the normalization band is usable.
func (c Config) Validate() error {
	if c.SolarReferenceKW <= 0 {
		return errSolarReference
	}
	if c.RateCeiling <= c.RateFloor {
		return errRateBand
	}
	return nil
}

// Scorer converts forecast slots into scored slots. It is stateless and
// safe for concurrent use.
type Scorer struct {
	cfg Config
	log logger.Logger
}

// New returns a Scorer for the given config. A nil logger disables the
// degraded-input warnings.
func New(cfg Config, log logger.Logger) *Scorer {
	cfg.SetDefaults()
	return &Scorer{cfg: cfg, log: log}
}

// Score computes the weighted optimization score for one slot. Malformed
// solar output or rate values are treated as the configured floor and
// logged, never rejected.
func (s *Scorer) Score(slot model.ForecastSlot, prefs preference.State) model.ScoredSlot {
	solar := slot.SolarPowerKW
	if math.IsNaN(solar) || solar < 0 {
		s.warnf("slot %s: solar output %v treated as 0", slot.Timestamp, solar)
		solar = 0
	}
	rate := slot.UtilityRate
	if math.IsNaN(rate) || rate < 0 {
		s.warnf("slot %s: utility rate %v treated as floor %.3f", slot.Timestamp, rate, s.cfg.RateFloor)
		rate = s.cfg.RateFloor
	}

	solarScore := clamp(solar/s.cfg.SolarReferenceKW, 0, 1)
	priceScore := clamp((s.cfg.RateCeiling-rate)/(s.cfg.RateCeiling-s.cfg.RateFloor), 0, 1)

	// Unknown hours get a neutral prior rather than a penalty.
	historyScore := 0.5
	if prefs.PrefersHour(slot.Timestamp.Hour()) {
		historyScore = 1.0
	}

	w := s.cfg.Weights
	score := clamp(w.Solar*solarScore+w.Price*priceScore+w.History*historyScore, 0, 1)

	return model.ScoredSlot{
		ForecastSlot: slot,
		Score:        score,
		Tier:         tierFor(score),
	}
}

// ScoreAll scores every slot in order.
func (s *Scorer) ScoreAll(slots []model.ForecastSlot, prefs preference.State) []model.ScoredSlot {
	scored := make([]model.ScoredSlot, 0, len(slots))
	for _, slot := range slots {
		scored = append(scored, s.Score(slot, prefs))
	}
	return scored
}

func (s *Scorer) warnf(format string, args ...any) {
	if s.log != nil {
		s.log.Warnf(format, args...)
	}
}

func tierFor(score float64) model.RecommendationTier {
	switch {
	case score > 0.7:
		return model.TierOptimal
	case score > 0.5:
		return model.TierGood
	default:
		return model.TierWait
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
