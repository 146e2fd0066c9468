package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/chargewise/chargewise/core/metrics"
	"github.com/chargewise/chargewise/core/planner"
	"github.com/chargewise/chargewise/core/scoring"
	"github.com/chargewise/chargewise/core/solar"
	"github.com/chargewise/chargewise/infra/mqtt"
	"github.com/chargewise/chargewise/infra/weather"
)

// Config is the full service configuration.
type Config struct {
	HTTP        HTTPConfig        `json:"http"`
	Scoring     scoring.Config    `json:"scoring"`
	Planner     planner.Config    `json:"planner"`
	Stations    StationsConfig    `json:"stations"`
	Preferences PreferencesConfig `json:"preferences"`
	Weather     weather.Config    `json:"weather"`
	Solar       solar.Config      `json:"solar"`
	MQTT        mqtt.Config       `json:"mqtt"`
	Metrics     metrics.Config    `json:"metrics"`
}

// HTTPConfig defines the API listener.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies the default listen address.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// StationsConfig locates the directory data and bounds ranking output.
type StationsConfig struct {
	CSVPath string `json:"csv_path"`
	TopK    int    `json:"top_k"`
}

// SetDefaults applies the default result truncation.
func (c *StationsConfig) SetDefaults() {
	if c.TopK <= 0 {
		c.TopK = 6
	}
}

// PreferencesConfig selects the preference store backend.
type PreferencesConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the sqlite database location.
	Path string `json:"path"`
}

// SetDefaults applies the in-memory backend.
func (c *PreferencesConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "preferences.db"
	}
}

// Validate checks the backend choice.
func (c PreferencesConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown preferences backend %q", c.Backend)
	}
	return nil
}

// Load reads the configuration from a JSON or YAML file, then applies
// CW_-prefixed environment overrides (CW_HTTP__ADDR, CW_MQTT__BROKER, ...).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("CW_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cw_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	c.Scoring.SetDefaults()
	c.Planner.SetDefaults()
	c.Stations.SetDefaults()
	c.Preferences.SetDefaults()
	c.Weather.SetDefaults()
	c.Solar.SetDefaults()
	c.MQTT.SetDefaults()
	c.Metrics.SetDefaults()
}

// Validate checks every section that carries invariants.
func (c Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if err := c.Preferences.Validate(); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	return nil
}
