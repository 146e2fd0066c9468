package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/chargewise/chargewise/core/metrics"
)

func TestPromSink_RecordOptimization(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordOptimization(coremetrics.OptimizationEvent{
		ScheduleID:     "s1",
		Utility:        "ladwp",
		Policy:         "score",
		TotalCost:      4.5,
		TotalEnergyKWh: 20,
		DeficitKWh:     2,
		Time:           time.Now(),
	}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP optimizations_total Total number of charging schedule computations
# TYPE optimizations_total counter
optimizations_total{deficit="true",policy="score",utility="ladwp"} 1
`
	if err := testutil.CollectAndCompare(sink.optimizations, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(sink.deficit); got != 2 {
		t.Errorf("deficit counter = %v, want 2", got)
	}
	if c := testutil.CollectAndCount(sink.scheduleCost); c == 0 {
		t.Errorf("schedule cost not recorded")
	}
}

func TestPromSink_RecordRangeAndStations(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordRangeEstimate(coremetrics.RangeEstimateEvent{RangeMiles: 180}); err != nil {
		t.Fatalf("range error: %v", err)
	}
	if err := sink.RecordStationQuery(coremetrics.StationQueryEvent{Candidates: 5, Matched: 3}); err != nil {
		t.Fatalf("station error: %v", err)
	}
	if err := sink.RecordSessionObserved(coremetrics.SessionObservedEvent{SessionID: "driver-1"}); err != nil {
		t.Fatalf("session error: %v", err)
	}

	if c := testutil.CollectAndCount(sink.rangeMiles); c == 0 {
		t.Errorf("range not recorded")
	}
	if c := testutil.CollectAndCount(sink.stationHits); c == 0 {
		t.Errorf("station query not recorded")
	}
	if got := testutil.ToFloat64(sink.sessions); got != 1 {
		t.Errorf("sessions counter = %v, want 1", got)
	}
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}
