// Package forecast builds hourly forecast slots for a session window when
// the caller supplies no forecast of its own. Solar output comes from the
// PV model and rates from the utility's TOU schedule.
package forecast

import (
	"time"

	"github.com/chargewise/chargewise/core/model"
	"github.com/chargewise/chargewise/core/solar"
	"github.com/chargewise/chargewise/core/tou"
)

// Builder assembles forecast slots from the solar estimator and a TOU
// schedule.
type Builder struct {
	Solar *solar.Estimator
}

// Window produces one slot per hour in [start, end) for the utility under
// the given weather snapshot. Slots fall on hour boundaries; the first and
// last slots carry fractional durations when the window does not.
func (b Builder) Window(start, end time.Time, u tou.Utility, weather model.Weather) ([]model.ForecastSlot, error) {
	var slots []model.ForecastSlot
	cur := start
	for cur.Before(end) {
		next := cur.Truncate(time.Hour).Add(time.Hour)
		if next.After(end) {
			next = end
		}
		rate, _, err := tou.RateAt(u, cur)
		if err != nil {
			return nil, err
		}
		est := b.Solar.Estimate(cur, weather)
		slots = append(slots, model.ForecastSlot{
			Timestamp:     cur,
			DurationHours: next.Sub(cur).Hours(),
			SolarPowerKW:  est.PowerKW,
			UtilityRate:   rate,
		})
		cur = next
	}
	return slots, nil
}
