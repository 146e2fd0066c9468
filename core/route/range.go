package route

import (
	"math"

	"github.com/chargewise/chargewise/core/model"
)

// drivingMixFactor corrects rated range for real-world driving conditions.
const drivingMixFactor = 0.90

// safetyMargin is the headroom required on top of the trip distance before
// the trip is considered drivable without a charging stop.
const safetyMargin = 1.2

// EstimateRange derates the vehicle's nominal range by battery level and
// environmental factors, returning whole miles.
//
// Temperature tiers are mutually exclusive; range never increases as
// conditions leave the 50-95F band or as wind picks up.
func EstimateRange(nominalRangeMiles, batteryPercent float64, weather model.Weather) int {
	base := nominalRangeMiles * batteryPercent / 100

	tempFactor := 1.0
	switch {
	case weather.TemperatureF < 32:
		tempFactor = 0.65
	case weather.TemperatureF < 50:
		tempFactor = 0.80
	case weather.TemperatureF > 95:
		tempFactor = 0.85
	}

	windFactor := 1.0
	switch {
	case weather.WindSpeedMph > 25:
		windFactor = 0.85
	case weather.WindSpeedMph > 15:
		windFactor = 0.92
	}

	return int(math.Round(base * tempFactor * windFactor * drivingMixFactor))
}

// DecideCharging reports whether the trip needs a charging stop, requiring
// a 20% margin over the trip distance.
func DecideCharging(nominalRangeMiles, batteryPercent, tripDistanceMiles float64, weather model.Weather) model.RouteChargingDecision {
	available := float64(EstimateRange(nominalRangeMiles, batteryPercent, weather))
	return model.RouteChargingDecision{
		NeedsCharging:       available < tripDistanceMiles*safetyMargin,
		AvailableRangeMiles: available,
		TripDistanceMiles:   tripDistanceMiles,
	}
}
