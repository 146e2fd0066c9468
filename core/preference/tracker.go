package preference

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// RecentHourCapacity bounds the distinct preferred hours remembered.
	RecentHourCapacity = 5
	// HistoryCapacity bounds the completed-session log.
	HistoryCapacity = 20
)

// SessionRecord is one completed charging session.
type SessionRecord struct {
	ID          string    `json:"id"`
	StartHour   int       `json:"start_hour"`
	EnergyKWh   float64   `json:"energy_kwh"`
	Cost        float64   `json:"cost"`
	CompletedAt time.Time `json:"completed_at"`
}

// State is the bounded memory of one user's charging habits. It is owned
// per user/session and only mutated through Observe; callers must never
// share a State across users.
type State struct {
	// RecentHours holds distinct hours in insertion order, oldest first.
	RecentHours []int `json:"recent_hours"`
	// History holds the most recent completed sessions, oldest first.
	History []SessionRecord `json:"history"`
}

// PrefersHour reports whether the hour is among the recently used ones.
func (s State) PrefersHour(hour int) bool {
	for _, h := range s.RecentHours {
		if h == hour {
			return true
		}
	}
	return false
}

// Observe returns the state after recording a completed session. The input
// state is not modified. The start hour is re-inserted as most recent; when
// more than RecentHourCapacity distinct hours are known, the oldest distinct
// one is evicted. History is FIFO-truncated to HistoryCapacity.
func Observe(s State, startHour int, rec SessionRecord) State {
	hours := make([]int, 0, len(s.RecentHours)+1)
	for _, h := range s.RecentHours {
		if h != startHour {
			hours = append(hours, h)
		}
	}
	hours = append(hours, startHour)
	if len(hours) > RecentHourCapacity {
		hours = hours[len(hours)-RecentHourCapacity:]
	}

	history := make([]SessionRecord, 0, len(s.History)+1)
	history = append(history, s.History...)
	history = append(history, rec)
	if len(history) > HistoryCapacity {
		history = history[len(history)-HistoryCapacity:]
	}

	return State{RecentHours: hours, History: history}
}

// Stats summarizes the session history.
type Stats struct {
	Sessions       int     `json:"sessions"`
	MeanEnergyKWh  float64 `json:"mean_energy_kwh"`
	MeanCost       float64 `json:"mean_cost"`
	TotalEnergyKWh float64 `json:"total_energy_kwh"`
	TotalCost      float64 `json:"total_cost"`
}

// Summarize computes aggregate statistics over the retained history.
func (s State) Summarize() Stats {
	if len(s.History) == 0 {
		return Stats{}
	}
	energy := make([]float64, len(s.History))
	cost := make([]float64, len(s.History))
	for i, rec := range s.History {
		energy[i] = rec.EnergyKWh
		cost[i] = rec.Cost
	}
	return Stats{
		Sessions:       len(s.History),
		MeanEnergyKWh:  stat.Mean(energy, nil),
		MeanCost:       stat.Mean(cost, nil),
		TotalEnergyKWh: floats.Sum(energy),
		TotalCost:      floats.Sum(cost),
	}
}
