package stations

import (
	"sort"

	"github.com/chargewise/chargewise/core/model"
)

// DefaultTopK limits how many ranked candidates are returned.
const DefaultTopK = 6

// Ranker filters and orders station candidates against user constraints.
type Ranker struct {
	// TopK truncates the result; zero means DefaultTopK.
	TopK int
}

// FilterAndRank keeps only candidates satisfying every constraint and
// orders them by ascending price, then wait time, then detour distance.
// The ordering is total, so identical inputs rank identically. Constraints
// matching nothing yield an empty list.
func (r Ranker) FilterAndRank(candidates []model.StationCandidate, constraints model.StationConstraints) []model.StationCandidate {
	kept := make([]model.StationCandidate, 0, len(candidates))
	for _, c := range candidates {
		if constraints.Matches(c) {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.PricePerKWh != b.PricePerKWh {
			return a.PricePerKWh < b.PricePerKWh
		}
		if a.WaitMinutes != b.WaitMinutes {
			return a.WaitMinutes < b.WaitMinutes
		}
		return a.DistanceFromRoute < b.DistanceFromRoute
	})

	topK := r.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(kept) > topK {
		kept = kept[:topK]
	}
	return kept
}
