// Package solar estimates photovoltaic output from weather conditions and
// time of day for a fixed installation.
package solar

import (
	"math"
	"time"

	"github.com/chargewise/chargewise/core/model"
)

// monthlyGHI is the average daily global horizontal irradiance for the LA
// basin in kWh/m²/day, January through December.
var monthlyGHI = [12]float64{
	3.06, 3.65, 5.15, 6.35, 6.89, 7.24,
	7.65, 7.02, 5.79, 4.42, 3.46, 2.82,
}

// Config describes the modeled PV installation.
type Config struct {
	PanelAreaM2 float64 `json:"panel_area_m2"`
	Efficiency  float64 `json:"efficiency"`
}

// SetDefaults applies the reference installation parameters.
func (c *Config) SetDefaults() {
	if c.PanelAreaM2 == 0 {
		c.PanelAreaM2 = 500
	}
	if c.Efficiency == 0 {
		c.Efficiency = 0.17
	}
}

// Estimate is the modeled solar state for one point in time.
type Estimate struct {
	GHI             float64 `json:"ghi"`
	PowerKW         float64 `json:"power_kw"`
	HourlyEnergyKWh float64 `json:"hourly_energy_kwh"`
}

// Estimator computes PV output estimates.
type Estimator struct {
	cfg Config
}

// NewEstimator returns an Estimator for the configured installation.
func NewEstimator(cfg Config) *Estimator {
	cfg.SetDefaults()
	return &Estimator{cfg: cfg}
}

// Estimate models generation at time t under the given weather. Output is
// zero outside daylight hours and scales with cloud cover; panel output
// drops 0.4%/°C above 25°C cell temperature.
func (e *Estimator) Estimate(t time.Time, weather model.Weather) Estimate {
	hour := t.Hour()
	baseGHI := monthlyGHI[t.Month()-1] * 1000 / 24

	solarFactor := 0.0
	if hour >= 6 && hour <= 19 {
		hourAngle := float64(hour-12) * 15
		cos := math.Cos(hourAngle * math.Pi / 180)
		if cos > 0 {
			solarFactor = cos * cos
		}
	}

	cloudFactor := 1 - (weather.CloudsPct/100)*0.8
	ghi := baseGHI * solarFactor * 2.5 * cloudFactor

	tempC := (weather.TemperatureF - 32) * 5 / 9
	tempFactor := 1 - 0.004*(tempC-25)

	powerKW := (ghi / 1000) * e.cfg.PanelAreaM2 * e.cfg.Efficiency * tempFactor
	if powerKW < 0 {
		powerKW = 0
	}
	return Estimate{GHI: ghi, PowerKW: powerKW, HourlyEnergyKWh: powerKW}
}
