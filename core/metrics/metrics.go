package metrics

import (
	"time"

	"github.com/chargewise/chargewise/core/model"
)

// OptimizationEvent captures one schedule computation for observability.
type OptimizationEvent struct {
	ScheduleID     string
	Utility        string
	Policy         string
	TotalCost      float64
	TotalEnergyKWh float64
	SolarOffsetKWh float64
	DeficitKWh     float64
	ChargingHours  int
	SlotsDropped   int
	Time           time.Time
}

// OptimizationRecorder records schedule computations.
type OptimizationRecorder interface {
	RecordOptimization(ev OptimizationEvent) error
}

// RangeEstimateEvent captures one range derating computation.
type RangeEstimateEvent struct {
	RangeMiles    int
	NeedsCharging bool
	Weather       model.Weather
	Time          time.Time
}

// RangeRecorder records range estimates.
type RangeRecorder interface {
	RecordRangeEstimate(ev RangeEstimateEvent) error
}

// StationQueryEvent captures one station filter-and-rank call.
type StationQueryEvent struct {
	Candidates int
	Matched    int
	Time       time.Time
}

// StationRecorder records station queries.
type StationRecorder interface {
	RecordStationQuery(ev StationQueryEvent) error
}

// SessionObservedEvent captures one completed-session ingestion.
type SessionObservedEvent struct {
	SessionID string
	StartHour int
	EnergyKWh float64
	Time      time.Time
}

// SessionRecorder records preference updates.
type SessionRecorder interface {
	RecordSessionObserved(ev SessionObservedEvent) error
}

// Sink is the full set of recorders a metrics backend implements.
type Sink interface {
	OptimizationRecorder
	RangeRecorder
	StationRecorder
	SessionRecorder
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordOptimization(OptimizationEvent) error       { return nil }
func (NopSink) RecordRangeEstimate(RangeEstimateEvent) error     { return nil }
func (NopSink) RecordStationQuery(StationQueryEvent) error       { return nil }
func (NopSink) RecordSessionObserved(SessionObservedEvent) error { return nil }
