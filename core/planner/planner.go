package planner

import (
	"errors"

	"github.com/google/uuid"

	"github.com/chargewise/chargewise/core/logger"
	"github.com/chargewise/chargewise/core/model"
	"github.com/chargewise/chargewise/core/preference"
	"github.com/chargewise/chargewise/core/scoring"
)

// ErrNoUsableForecast is returned when a non-empty forecast contains no
// usable slot after dropping malformed ones.
var ErrNoUsableForecast = errors.New("no usable forecast data")

// Config holds planner settings.
type Config struct {
	Policy Policy `json:"policy"`
}

// SetDefaults applies the default allocation policy.
func (c *Config) SetDefaults() {
	if c.Policy == "" {
		c.Policy = PolicyScore
	}
}

// Validate checks the configured policy.
func (c Config) Validate() error {
	if !c.Policy.Valid() {
		return errors.New("policy must be \"score\" or \"price\"")
	}
	return nil
}

// Planner runs the full optimization pipeline: sanitize the forecast,
// score each slot against the user's preference state, then allocate.
type Planner struct {
	scorer    *scoring.Scorer
	allocator Allocator
	log       logger.Logger
}

// New builds a Planner from the scorer and planner configs.
func New(scoreCfg scoring.Config, cfg Config, log logger.Logger) *Planner {
	cfg.SetDefaults()
	return &Planner{
		scorer:    scoring.New(scoreCfg, log),
		allocator: Allocator{Policy: cfg.Policy},
		log:       log,
	}
}

// Policy returns the configured allocation policy.
func (p *Planner) Policy() Policy { return p.allocator.Policy }

// Optimize produces a charging schedule for the request. Malformed slots
// are dropped and logged; if the forecast was non-empty but nothing usable
// remains, ErrNoUsableForecast is returned instead of a silently empty
// schedule.
func (p *Planner) Optimize(req model.SessionRequest, forecast []model.ForecastSlot, prefs preference.State) (model.ChargingSchedule, error) {
	if err := req.Validate(); err != nil {
		return model.ChargingSchedule{}, err
	}

	usable := make([]model.ForecastSlot, 0, len(forecast))
	for _, slot := range forecast {
		if !slot.Usable() {
			if p.log != nil {
				p.log.Warnf("dropping malformed forecast slot at %v", slot.Timestamp)
			}
			continue
		}
		usable = append(usable, slot)
	}
	if len(forecast) > 0 && len(usable) == 0 {
		return model.ChargingSchedule{}, ErrNoUsableForecast
	}

	scored := p.scorer.ScoreAll(usable, prefs)
	entries, summary, err := p.allocator.Allocate(req, scored)
	if err != nil {
		return model.ChargingSchedule{}, err
	}
	return model.ChargingSchedule{
		ID:      uuid.NewString(),
		Entries: entries,
		Summary: summary,
	}, nil
}
