package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/chargewise/chargewise/core/logger"
	coremetrics "github.com/chargewise/chargewise/core/metrics"
	infralogger "github.com/chargewise/chargewise/infra/logger"
)

// InfluxSink writes optimization events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing backend never blocks
// the service.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("optimization",
		map[string]string{"utility": ev.Utility, "policy": ev.Policy},
		map[string]interface{}{
			"total_cost":       ev.TotalCost,
			"total_energy_kwh": ev.TotalEnergyKWh,
			"solar_offset_kwh": ev.SolarOffsetKWh,
			"deficit_kwh":      ev.DeficitKWh,
			"charging_hours":   ev.ChargingHours,
			"slots_dropped":    ev.SlotsDropped,
		}, ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func (s *InfluxSink) RecordRangeEstimate(ev coremetrics.RangeEstimateEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("range_estimate",
		map[string]string{},
		map[string]interface{}{
			"range_miles":    ev.RangeMiles,
			"needs_charging": ev.NeedsCharging,
			"temperature_f":  ev.Weather.TemperatureF,
			"wind_mph":       ev.Weather.WindSpeedMph,
		}, ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func (s *InfluxSink) RecordStationQuery(ev coremetrics.StationQueryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("station_query",
		map[string]string{},
		map[string]interface{}{
			"candidates": ev.Candidates,
			"matched":    ev.Matched,
		}, ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func (s *InfluxSink) RecordSessionObserved(ev coremetrics.SessionObservedEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("session_observed",
		map[string]string{"session_id": ev.SessionID},
		map[string]interface{}{
			"start_hour": ev.StartHour,
			"energy_kwh": ev.EnergyKWh,
		}, ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
