package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/chargewise/chargewise/core/metrics"
)

// PromSink records optimization activity in Prometheus metrics.
type PromSink struct {
	optimizations *prometheus.CounterVec
	scheduleCost  *prometheus.HistogramVec
	deficit       prometheus.Counter
	rangeMiles    prometheus.Histogram
	stationHits   prometheus.Histogram
	sessions      prometheus.Counter
}

// NewPromSink registers metrics on the default Prometheus registerer. The
// Prometheus server is started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optimizations_total",
			Help: "Total number of charging schedule computations",
		}, []string{"utility", "policy", "deficit"}),
		scheduleCost: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schedule_cost_dollars",
			Help:    "Total cost of computed charging schedules",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"utility"}),
		deficit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_deficit_kwh_total",
			Help: "Accumulated energy that could not be scheduled",
		}),
		rangeMiles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "estimated_range_miles",
			Help:    "Derated vehicle range estimates",
			Buckets: []float64{50, 100, 150, 200, 250, 300, 400},
		}),
		stationHits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "station_query_matches",
			Help:    "Number of stations surviving filter and rank",
			Buckets: []float64{0, 1, 2, 4, 6, 10, 20},
		}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "completed_sessions_total",
			Help: "Completed charging sessions observed for preference learning",
		}),
	}

	collectors := []prometheus.Collector{
		s.optimizations, s.scheduleCost, s.deficit, s.rangeMiles, s.stationHits, s.sessions,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *PromSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	s.optimizations.WithLabelValues(ev.Utility, ev.Policy, strconv.FormatBool(ev.DeficitKWh > 0)).Inc()
	s.scheduleCost.WithLabelValues(ev.Utility).Observe(ev.TotalCost)
	if ev.DeficitKWh > 0 {
		s.deficit.Add(ev.DeficitKWh)
	}
	return nil
}

func (s *PromSink) RecordRangeEstimate(ev coremetrics.RangeEstimateEvent) error {
	s.rangeMiles.Observe(float64(ev.RangeMiles))
	return nil
}

func (s *PromSink) RecordStationQuery(ev coremetrics.StationQueryEvent) error {
	s.stationHits.Observe(float64(ev.Matched))
	return nil
}

func (s *PromSink) RecordSessionObserved(coremetrics.SessionObservedEvent) error {
	s.sessions.Inc()
	return nil
}
