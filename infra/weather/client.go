// Package weather fetches current conditions from OpenWeatherMap with a
// deterministic seasonal fallback when the API is unreachable or not
// configured.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/chargewise/chargewise/core/logger"
	"github.com/chargewise/chargewise/core/model"
	infralogger "github.com/chargewise/chargewise/infra/logger"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Config defines the provider settings.
type Config struct {
	APIKey         string  `json:"api_key"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	TimeoutSeconds int     `json:"timeout_seconds"`
}

// SetDefaults applies the LA service area and a bounded request timeout.
func (c *Config) SetDefaults() {
	if c.Latitude == 0 && c.Longitude == 0 {
		c.Latitude = 34.0522
		c.Longitude = -118.2437
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Client fetches weather snapshots. It never fails: on any upstream error
// it logs and returns the seasonal fallback so the optimization core always
// has input.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	log     logger.Logger
	now     func() time.Time
}

// NewClient builds a Client from the config.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:     infralogger.New("weather"),
		now:     time.Now,
	}
}

type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current returns the current conditions in imperial units.
func (c *Client) Current(ctx context.Context) model.Weather {
	if c.cfg.APIKey == "" {
		return c.Fallback()
	}
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", c.cfg.Latitude))
	q.Set("lon", fmt.Sprintf("%f", c.cfg.Longitude))
	q.Set("appid", c.cfg.APIKey)
	q.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		c.log.Errorf("weather request: %v", err)
		return c.Fallback()
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnf("weather fetch failed, using fallback: %v", err)
		return c.Fallback()
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		c.log.Warnf("weather API status %d, using fallback", resp.StatusCode)
		return c.Fallback()
	}
	var data owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.log.Warnf("weather decode failed, using fallback: %v", err)
		return c.Fallback()
	}
	w := model.Weather{
		TemperatureF: data.Main.Temp,
		Humidity:     data.Main.Humidity,
		WindSpeedMph: data.Wind.Speed,
		CloudsPct:    data.Clouds.All,
	}
	if len(data.Weather) > 0 {
		w.Description = data.Weather[0].Description
	}
	return w
}

// Fallback returns deterministic seasonal conditions for the service area.
// The temperature follows a sinusoidal annual cycle; no random noise is
// added so repeated calls within a month agree.
func (c *Client) Fallback() model.Weather {
	month := float64(c.now().Month())
	seasonalTempC := 15 + 10*math.Sin((month-1)*math.Pi/6)
	return model.Weather{
		TemperatureF: seasonalTempC*9/5 + 32,
		Humidity:     65,
		WindSpeedMph: 3.5 * 2.237,
		CloudsPct:    20,
		Description:  "partly cloudy",
	}
}
