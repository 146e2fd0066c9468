package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chargewise/chargewise/core/forecast"
	"github.com/chargewise/chargewise/core/model"
	"github.com/chargewise/chargewise/core/planner"
	"github.com/chargewise/chargewise/core/preference"
	"github.com/chargewise/chargewise/core/scoring"
	"github.com/chargewise/chargewise/core/solar"
	"github.com/chargewise/chargewise/core/stations"
	infralogger "github.com/chargewise/chargewise/infra/logger"
	infrastations "github.com/chargewise/chargewise/infra/stations"
	"github.com/chargewise/chargewise/infra/weather"
)

const directoryCSV = `id,station_name,latitude,longitude,total_charging_ports,has_dc_fast,is_public,ev_network
1,City Hall,34.0537,-118.2427,4,true,true,ChargePoint
2,Union Station,34.0562,-118.2365,8,false,true,EVgo
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir, err := infrastations.Read(strings.NewReader(directoryCSV))
	if err != nil {
		t.Fatalf("load directory: %v", err)
	}
	est := solar.NewEstimator(solar.Config{})
	return &Server{
		Planner:   planner.New(scoring.Config{}, planner.Config{}, infralogger.NopLogger{}),
		Prefs:     preference.NewMemoryStore(),
		Weather:   weather.NewClient(weather.Config{}),
		Solar:     est,
		Forecast:  forecast.Builder{Solar: est},
		Directory: dir,
		Ranker:    stations.Ranker{},
		Log:       infralogger.NopLogger{},
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	h := newTestServer(t).Routes()
	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["stations_loaded"].(float64) != 2 {
		t.Fatalf("expected 2 stations loaded, got %v", body["stations_loaded"])
	}
}

func TestCurrentConditions(t *testing.T) {
	h := newTestServer(t).Routes()
	rec := doJSON(t, h, http.MethodGet, "/api/current-conditions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	pricing, ok := body["pricing"].(map[string]any)
	if !ok {
		t.Fatalf("missing pricing: %v", body)
	}
	for _, u := range []string{"ladwp", "sce"} {
		if _, ok := pricing[u]; !ok {
			t.Fatalf("missing %s pricing", u)
		}
	}
}

func optimizeBody(start time.Time, forecast []model.ForecastSlot) map[string]any {
	return map[string]any{
		"session_start":      start,
		"session_end":        start.Add(8 * time.Hour),
		"energy_needed_kwh":  20,
		"max_charge_rate_kw": 7,
		"forecast":           forecast,
	}
}

func suppliedForecast(start time.Time) []model.ForecastSlot {
	slots := make([]model.ForecastSlot, 0, 8)
	for i := 0; i < 8; i++ {
		slots = append(slots, model.ForecastSlot{
			Timestamp:     start.Add(time.Duration(i) * time.Hour),
			DurationHours: 1,
			SolarPowerKW:  float64(5 * i),
			UtilityRate:   0.25,
		})
	}
	return slots
}

func TestOptimizeSessionSuppliedForecast(t *testing.T) {
	h := newTestServer(t).Routes()
	start := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	rec := doJSON(t, h, http.MethodPost, "/api/optimize-session", optimizeBody(start, suppliedForecast(start)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp optimizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" {
		t.Fatalf("missing schedule id")
	}
	if resp.Summary.TotalEnergyKWh != 20 || resp.Summary.DeficitKWh != 0 {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}
	for i := 1; i < len(resp.Schedule); i++ {
		if resp.Schedule[i].Timestamp.Before(resp.Schedule[i-1].Timestamp) {
			t.Fatalf("schedule not chronological: %+v", resp.Schedule)
		}
	}
	if resp.Utility != "ladwp" {
		t.Fatalf("expected default utility ladwp, got %s", resp.Utility)
	}
}

func TestOptimizeSessionBuildsForecast(t *testing.T) {
	h := newTestServer(t).Routes()
	start := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	rec := doJSON(t, h, http.MethodPost, "/api/optimize-session", optimizeBody(start, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp optimizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary.TotalEnergyKWh != 20 {
		t.Fatalf("expected the built forecast to cover the request, got %+v", resp.Summary)
	}
}

func TestOptimizeSessionRejectsInvertedWindow(t *testing.T) {
	h := newTestServer(t).Routes()
	start := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	body := optimizeBody(start, suppliedForecast(start))
	body["session_end"] = start.Add(-time.Hour)
	rec := doJSON(t, h, http.MethodPost, "/api/optimize-session", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOptimizeSessionRejectsUnknownUtility(t *testing.T) {
	h := newTestServer(t).Routes()
	start := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	body := optimizeBody(start, suppliedForecast(start))
	body["utility"] = "pge"
	rec := doJSON(t, h, http.MethodPost, "/api/optimize-session", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOptimizeSessionUnusableForecast(t *testing.T) {
	h := newTestServer(t).Routes()
	start := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	bad := []model.ForecastSlot{
		{Timestamp: start, DurationHours: 0},
		{Timestamp: start.Add(time.Hour), DurationHours: -1},
	}
	rec := doJSON(t, h, http.MethodPost, "/api/optimize-session", optimizeBody(start, bad))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStationsRadiusQuery(t *testing.T) {
	h := newTestServer(t).Routes()
	rec := doJSON(t, h, http.MethodGet, "/api/stations?lat=34.0522&lon=-118.2437&radius=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["count"].(float64) != 2 {
		t.Fatalf("expected 2 stations, got %v", body["count"])
	}
}

func TestStationsSummaryWithoutCoordinates(t *testing.T) {
	h := newTestServer(t).Routes()
	rec := doJSON(t, h, http.MethodGet, "/api/stations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total_stations"].(float64) != 2 {
		t.Fatalf("expected station count, got %v", body)
	}
}

func TestRankStations(t *testing.T) {
	h := newTestServer(t).Routes()
	rec := doJSON(t, h, http.MethodPost, "/api/stations/rank", map[string]any{
		"stations": []model.StationCandidate{
			{Name: "pricey", PricePerKWh: 0.45},
			{Name: "cheap", PricePerKWh: 0.20},
			{Name: "mid", PricePerKWh: 0.30},
		},
		"max_price_per_kwh": 0.40,
		"max_wait_minutes":  30,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Stations []model.StationCandidate `json:"stations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Stations) != 2 || resp.Stations[0].Name != "cheap" || resp.Stations[1].Name != "mid" {
		t.Fatalf("unexpected ranking: %+v", resp.Stations)
	}
}

func TestRouteOptimization(t *testing.T) {
	h := newTestServer(t).Routes()
	body := map[string]any{
		"vehicle_range_miles":     250,
		"current_battery_percent": 80,
		"trip_distance_miles":     160,
		"weather":                 model.Weather{TemperatureF: 70, WindSpeedMph: 5},
		"stations": []model.StationCandidate{
			{Name: "stop", PricePerKWh: 0.30, WaitMinutes: 5, HasFastCharging: true},
		},
		"max_price_per_kwh": 0.40,
		"max_wait_minutes":  30,
	}
	rec := doJSON(t, h, http.MethodPost, "/api/route-optimization", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Analysis model.RouteChargingDecision `json:"charging_analysis"`
		Stops    []model.StationCandidate    `json:"suggested_stops"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Analysis.NeedsCharging {
		t.Fatalf("a 160-mile trip on 180 available miles should need charging: %+v", resp.Analysis)
	}
	if len(resp.Stops) != 1 || resp.Stops[0].Name != "stop" {
		t.Fatalf("expected one suggested stop, got %+v", resp.Stops)
	}

	body["trip_distance_miles"] = 50
	rec = doJSON(t, h, http.MethodPost, "/api/route-optimization", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Analysis.NeedsCharging || len(resp.Stops) != 0 {
		t.Fatalf("short trip should need no stop: %+v", resp)
	}
}

func TestRouteOptimizationValidation(t *testing.T) {
	h := newTestServer(t).Routes()
	rec := doJSON(t, h, http.MethodPost, "/api/route-optimization", map[string]any{
		"vehicle_range_miles":     0,
		"current_battery_percent": 80,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/route-optimization", map[string]any{
		"vehicle_range_miles":     250,
		"current_battery_percent": 120,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestPreferences(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodGet, "/api/preferences", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing session_id should be rejected, got %d", rec.Code)
	}

	if _, err := srv.Prefs.Record(context.Background(), "driver-1", preference.SessionRecord{
		StartHour: 9, EnergyKWh: 12, Cost: 3,
	}); err != nil {
		t.Fatalf("seed preferences: %v", err)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/preferences?session_id=driver-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		State preference.State `json:"state"`
		Stats preference.Stats `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.State.PrefersHour(9) || resp.Stats.Sessions != 1 {
		t.Fatalf("unexpected preference payload: %+v", resp)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t).Routes()
	rec := doJSON(t, h, http.MethodDelete, "/api/optimize-session", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/health", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rec.Code)
	}
}
