// Package tou models the time-of-use electricity rate schedules of the two
// Los Angeles utilities. Rates vary by hour band and weekend status.
package tou

import (
	"fmt"
	"time"
)

// Utility identifies a supported electricity provider.
type Utility string

const (
	LADWP Utility = "ladwp"
	SCE   Utility = "sce"
)

// Valid reports whether the utility is supported.
func (u Utility) Valid() bool { return u == LADWP || u == SCE }

// Period names the rate band in effect for an hour.
type Period string

const (
	PeriodBase     Period = "base_period"
	PeriodLowPeak  Period = "low_peak"
	PeriodHighPeak Period = "high_peak"
	PeriodOffPeak  Period = "off_peak"
	PeriodMidPeak  Period = "mid_peak"
	PeriodOnPeak   Period = "on_peak"
)

// LADWP rate bands in $/kWh.
const (
	ladwpBase     = 0.22
	ladwpLowPeak  = 0.223
	ladwpHighPeak = 0.37
)

// SCE rate bands in $/kWh.
const (
	sceOffPeak = 0.27
	sceMidPeak = 0.30
	sceOnPeak  = 0.32
)

// RateFor returns the rate and period for the given hour. Weekends have no
// peak pricing on either schedule.
func RateFor(u Utility, hour int, weekend bool) (float64, Period, error) {
	switch u {
	case LADWP:
		rate, period := ladwpRate(hour, weekend)
		return rate, period, nil
	case SCE:
		rate, period := sceRate(hour, weekend)
		return rate, period, nil
	default:
		return 0, "", fmt.Errorf("unknown utility %q", u)
	}
}

// RateAt resolves the rate for a concrete timestamp.
func RateAt(u Utility, t time.Time) (float64, Period, error) {
	wd := t.Weekday()
	return RateFor(u, t.Hour(), wd == time.Saturday || wd == time.Sunday)
}

func ladwpRate(hour int, weekend bool) (float64, Period) {
	switch {
	case weekend || hour >= 20 || hour < 10:
		return ladwpBase, PeriodBase
	case hour >= 13 && hour < 17:
		return ladwpHighPeak, PeriodHighPeak
	default: // 10-13 and 17-20
		return ladwpLowPeak, PeriodLowPeak
	}
}

func sceRate(hour int, weekend bool) (float64, Period) {
	switch {
	case weekend || hour < 16 || hour >= 22:
		return sceOffPeak, PeriodOffPeak
	case hour >= 18 && hour < 20:
		return sceOnPeak, PeriodOnPeak
	default: // 16-18 and 20-22
		return sceMidPeak, PeriodMidPeak
	}
}
