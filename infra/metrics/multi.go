package metrics

import (
	"errors"

	coremetrics "github.com/chargewise/chargewise/core/metrics"
)

// MultiSink fans events out to several sinks, joining their errors.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink combines the given sinks into one.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordOptimization(ev))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordRangeEstimate(ev coremetrics.RangeEstimateEvent) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordRangeEstimate(ev))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordStationQuery(ev coremetrics.StationQueryEvent) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordStationQuery(ev))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordSessionObserved(ev coremetrics.SessionObservedEvent) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordSessionObserved(ev))
	}
	return errors.Join(errs...)
}
