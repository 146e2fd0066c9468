package planner

import (
	"fmt"
	"sort"

	"github.com/chargewise/chargewise/core/model"
)

// Policy selects how slots are ordered before greedy allocation.
type Policy string

const (
	// PolicyScore allocates into the highest-scoring slots first. This is
	// a heuristic balancing cost, solar and user habit; it does not
	// guarantee the cheapest schedule.
	PolicyScore Policy = "score"
	// PolicyPrice allocates into the cheapest slots first, minimizing cost
	// under the same capacity constraint.
	PolicyPrice Policy = "price"
)

// Valid reports whether the policy is a known allocation policy.
func (p Policy) Valid() bool { return p == PolicyScore || p == PolicyPrice }

// Allocator turns scored slots into a concrete charging schedule.
type Allocator struct {
	Policy Policy
}

// Allocate distributes the requested energy over the in-window slots and
// computes the summary economics. Slots outside [SessionStart, SessionEnd)
// are discarded. Requests exceeding window capacity yield a best-effort
// schedule with DeficitKWh set, not an error.
func (a Allocator) Allocate(req model.SessionRequest, slots []model.ScoredSlot) ([]model.ScheduleEntry, model.OptimizationSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, model.OptimizationSummary{}, err
	}
	policy := a.Policy
	if policy == "" {
		policy = PolicyScore
	}
	if !policy.Valid() {
		return nil, model.OptimizationSummary{}, fmt.Errorf("unknown allocation policy %q", policy)
	}

	inWindow := make([]model.ScoredSlot, 0, len(slots))
	for _, s := range slots {
		if s.Timestamp.Before(req.SessionStart) || !s.Timestamp.Before(req.SessionEnd) {
			continue
		}
		inWindow = append(inWindow, s)
	}

	orderSlots(inWindow, policy)

	remaining := req.EnergyNeededKWh
	entries := make([]model.ScheduleEntry, 0, len(inWindow))
	for _, s := range inWindow {
		if remaining <= 0 {
			break
		}
		capKWh := req.MaxChargeRateKW
		if c := s.DurationHours * req.MaxChargeRateKW; c < capKWh {
			capKWh = c
		}
		alloc := remaining
		if alloc > capKWh {
			alloc = capKWh
		}
		if alloc <= 0 {
			continue
		}
		entries = append(entries, model.ScheduleEntry{
			Timestamp:        s.Timestamp,
			EnergyKWh:        alloc,
			UtilityRate:      s.UtilityRate,
			Cost:             alloc * s.UtilityRate,
			SolarAvailableKW: s.SolarPowerKW,
			Score:            s.Score,
		})
		remaining -= alloc
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	summary := summarize(inWindow, entries, remaining)
	return entries, summary, nil
}

// orderSlots sorts slots for allocation. Both policies end with a
// chronological tie-break so identical inputs always produce identical
// output ordering.
func orderSlots(slots []model.ScoredSlot, policy Policy) {
	switch policy {
	case PolicyPrice:
		sort.Slice(slots, func(i, j int) bool {
			a, b := slots[i], slots[j]
			if a.UtilityRate != b.UtilityRate {
				return a.UtilityRate < b.UtilityRate
			}
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return a.Timestamp.Before(b.Timestamp)
		})
	default:
		sort.Slice(slots, func(i, j int) bool {
			a, b := slots[i], slots[j]
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if a.UtilityRate != b.UtilityRate {
				return a.UtilityRate < b.UtilityRate
			}
			return a.Timestamp.Before(b.Timestamp)
		})
	}
}

func summarize(slots []model.ScoredSlot, entries []model.ScheduleEntry, remaining float64) model.OptimizationSummary {
	solarByTime := make(map[int64]model.ScoredSlot, len(slots))
	for _, s := range slots {
		solarByTime[s.Timestamp.UnixNano()] = s
	}

	var sum model.OptimizationSummary
	for _, e := range entries {
		sum.TotalCost += e.Cost
		sum.TotalEnergyKWh += e.EnergyKWh
		if e.EnergyKWh > 0 {
			sum.ChargingHours++
		}
		if s, ok := solarByTime[e.Timestamp.UnixNano()]; ok {
			offset := s.SolarPowerKW * s.DurationHours
			if e.EnergyKWh < offset {
				offset = e.EnergyKWh
			}
			if offset > 0 {
				sum.SolarOffsetKWh += offset
			}
		}
	}
	if sum.TotalEnergyKWh > 0 {
		sum.AverageRate = sum.TotalCost / sum.TotalEnergyKWh
		sum.SolarPercentage = 100 * sum.SolarOffsetKWh / sum.TotalEnergyKWh
	}
	if remaining > 0 {
		sum.DeficitKWh = remaining
	}
	return sum
}
