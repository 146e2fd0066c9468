package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chargewise/chargewise/api"
	"github.com/chargewise/chargewise/config"
	"github.com/chargewise/chargewise/core/forecast"
	"github.com/chargewise/chargewise/core/logger"
	coremetrics "github.com/chargewise/chargewise/core/metrics"
	"github.com/chargewise/chargewise/core/planner"
	"github.com/chargewise/chargewise/core/preference"
	"github.com/chargewise/chargewise/core/solar"
	"github.com/chargewise/chargewise/core/stations"
	infralogger "github.com/chargewise/chargewise/infra/logger"
	"github.com/chargewise/chargewise/infra/metrics"
	"github.com/chargewise/chargewise/infra/mqtt"
	infrastations "github.com/chargewise/chargewise/infra/stations"
	"github.com/chargewise/chargewise/infra/weather"
	"github.com/chargewise/chargewise/internal/eventbus"
)

// Service wires the optimization core to its adapters and runs the HTTP API.
type Service struct {
	cfg    *config.Config
	server *api.Server
	prefs  preference.Store
	bus    *eventbus.Bus
	sub    *mqtt.Subscriber
	sink   coremetrics.Sink
	log    logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := infralogger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	prefs, err := newPreferenceStore(cfg.Preferences)
	if err != nil {
		return nil, fmt.Errorf("preference store: %w", err)
	}

	var directory *infrastations.Directory
	if cfg.Stations.CSVPath != "" {
		directory, err = infrastations.Load(cfg.Stations.CSVPath)
		if err != nil {
			logg.Warnf("station directory unavailable: %v", err)
		} else {
			logg.Infof("loaded %d stations", directory.Len())
		}
	}

	solarEst := solar.NewEstimator(cfg.Solar)
	srv := &api.Server{
		Planner:   planner.New(cfg.Scoring, cfg.Planner, infralogger.New("planner")),
		Prefs:     prefs,
		Weather:   weather.NewClient(cfg.Weather),
		Solar:     solarEst,
		Forecast:  forecast.Builder{Solar: solarEst},
		Directory: directory,
		Ranker:    stations.Ranker{TopK: cfg.Stations.TopK},
		Sink:      sink,
		Log:       infralogger.New("api"),
	}

	bus := eventbus.New()
	svc := &Service{cfg: cfg, server: srv, prefs: prefs, bus: bus, sink: sink, log: logg}

	if cfg.MQTT.Enabled {
		sub, err := mqtt.NewSubscriber(cfg.MQTT, bus)
		if err != nil {
			return nil, fmt.Errorf("mqtt subscriber: %w", err)
		}
		svc.sub = sub
	}
	return svc, nil
}

func newPreferenceStore(cfg config.PreferencesConfig) (preference.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return preference.NewSQLiteStore(cfg.Path)
	default:
		return preference.NewMemoryStore(), nil
	}
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.consumeSessions(ctx)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.HTTP.Addr, Handler: s.server.Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()

	s.log.Infof("listening on %s", s.cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// consumeSessions applies completed-session events to the preference store.
// Updates for one session are serialized by the store; the single consumer
// goroutine keeps event ordering.
func (s *Service) consumeSessions(ctx context.Context) {
	events := s.bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, err := s.prefs.Record(ctx, ev.SessionID, ev.Record); err != nil {
				s.log.Errorf("record session for %s: %v", ev.SessionID, err)
				continue
			}
			if err := s.sink.RecordSessionObserved(coremetrics.SessionObservedEvent{
				SessionID: ev.SessionID,
				StartHour: ev.Record.StartHour,
				EnergyKWh: ev.Record.EnergyKWh,
				Time:      time.Now().UTC(),
			}); err != nil {
				s.log.Warnf("record session metric: %v", err)
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.sub != nil {
		s.sub.Close()
	}
	s.bus.Close()
	return s.prefs.Close()
}
