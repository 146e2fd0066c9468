package stations

import (
	"testing"

	"github.com/chargewise/chargewise/core/model"
)

func sampleStations() []model.StationCandidate {
	return []model.StationCandidate{
		{Name: "Downtown DC", PricePerKWh: 0.35, WaitMinutes: 0, HasFastCharging: true},
		{Name: "Mall L2", PricePerKWh: 0.25, WaitMinutes: 5, HasFastCharging: false},
		{Name: "Highway DC", PricePerKWh: 0.48, WaitMinutes: 0, HasFastCharging: true},
	}
}

func TestFilterAndRankOrdering(t *testing.T) {
	got := Ranker{}.FilterAndRank(sampleStations(), model.StationConstraints{
		MaxPricePerKWh: 0.40,
		MaxWaitMinutes: 10,
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(got))
	}
	if got[0].PricePerKWh != 0.25 || got[1].PricePerKWh != 0.35 {
		t.Fatalf("wrong order: %+v", got)
	}
}

func TestFilterAndRankFastOnly(t *testing.T) {
	got := Ranker{}.FilterAndRank(sampleStations(), model.StationConstraints{
		MaxPricePerKWh:   0.40,
		MaxWaitMinutes:   10,
		FastChargingOnly: true,
	})
	if len(got) != 1 || got[0].Name != "Downtown DC" {
		t.Fatalf("expected only the fast station under price cap, got %+v", got)
	}
}

func TestFilterAndRankSubsetProperty(t *testing.T) {
	input := sampleStations()
	constraints := model.StationConstraints{MaxPricePerKWh: 0.50, MaxWaitMinutes: 60}
	got := Ranker{}.FilterAndRank(input, constraints)
	for _, s := range got {
		if !constraints.Matches(s) {
			t.Fatalf("result violates constraints: %+v", s)
		}
		found := false
		for _, in := range input {
			if in == s {
				found = true
			}
		}
		if !found {
			t.Fatalf("result not a subset of input: %+v", s)
		}
	}
}

func TestFilterAndRankZeroPriceCap(t *testing.T) {
	got := Ranker{}.FilterAndRank(sampleStations(), model.StationConstraints{MaxWaitMinutes: 60})
	if len(got) != 0 {
		t.Fatalf("a zero price cap should exclude every paid station, got %+v", got)
	}
}

func TestFilterAndRankTopK(t *testing.T) {
	var many []model.StationCandidate
	for i := 0; i < 10; i++ {
		many = append(many, model.StationCandidate{
			Name:        "s",
			PricePerKWh: 0.10 + float64(i)*0.01,
		})
	}
	got := Ranker{}.FilterAndRank(many, model.StationConstraints{MaxPricePerKWh: 1, MaxWaitMinutes: 1})
	if len(got) != DefaultTopK {
		t.Fatalf("expected top-%d truncation, got %d", DefaultTopK, len(got))
	}
	got = Ranker{TopK: 2}.FilterAndRank(many, model.StationConstraints{MaxPricePerKWh: 1, MaxWaitMinutes: 1})
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0].PricePerKWh > got[1].PricePerKWh {
		t.Fatalf("truncation should keep the cheapest")
	}
}

func TestFilterAndRankTieBreaks(t *testing.T) {
	input := []model.StationCandidate{
		{Name: "far", PricePerKWh: 0.30, WaitMinutes: 5, DistanceFromRoute: 3},
		{Name: "near", PricePerKWh: 0.30, WaitMinutes: 5, DistanceFromRoute: 1},
		{Name: "quick", PricePerKWh: 0.30, WaitMinutes: 0, DistanceFromRoute: 9},
	}
	got := Ranker{}.FilterAndRank(input, model.StationConstraints{MaxPricePerKWh: 1, MaxWaitMinutes: 60})
	if got[0].Name != "quick" || got[1].Name != "near" || got[2].Name != "far" {
		t.Fatalf("tie-break order wrong: %+v", got)
	}
}
