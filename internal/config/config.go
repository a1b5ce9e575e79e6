package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Jalson1982/WeatherApp/internal/geocode"
	"github.com/Jalson1982/WeatherApp/internal/search"
	"github.com/Jalson1982/WeatherApp/internal/store"
	"github.com/Jalson1982/WeatherApp/internal/weather"
)

// AppConfig aggregates runtime configuration used across the app.
type AppConfig struct {
	APIKey string `yaml:"apiKey"`

	// Provider endpoints.
	WeatherBaseURL string `yaml:"weatherBaseUrl"`
	GeoBaseURL     string `yaml:"geoBaseUrl"`
	IconBaseURL    string `yaml:"iconBaseUrl"`
	Units          string `yaml:"units"`

	// Forecast and history limits.
	ForecastDays        int `yaml:"forecastDays"`
	LocationLimit       int `yaml:"locationLimit"`
	RecentSearchesLimit int `yaml:"recentSearchesLimit"`

	// Search behavior.
	MinSearchLength int           `yaml:"minSearchLength"`
	DebounceDelay   time.Duration `yaml:"debounceDelay"`

	// Device geolocation policy.
	GeolocationTimeout time.Duration `yaml:"geolocationTimeout"`
	GeolocationMaxAge  time.Duration `yaml:"geolocationMaxAge"`

	// Outbound HTTP.
	HTTPTimeout   time.Duration `yaml:"httpTimeout"`
	RetryEnabled  bool          `yaml:"retryEnabled"`
	RetryAttempts int           `yaml:"retryAttempts"`
	RetryDelay    time.Duration `yaml:"retryDelay"`

	Port string `yaml:"port"`
}

// Load builds the configuration from defaults, an optional YAML file
// (CONFIG_PATH or ./config.yaml), and environment variable overrides, in
// that order.
func Load() (*AppConfig, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		WeatherBaseURL:      weather.DefaultBaseURL,
		GeoBaseURL:          geocode.DefaultBaseURL,
		IconBaseURL:         weather.DefaultIconBaseURL,
		Units:               weather.DefaultUnits,
		ForecastDays:        weather.DefaultForecastDays,
		LocationLimit:       geocode.DefaultLimit,
		RecentSearchesLimit: store.DefaultRecentSearchesLimit,
		MinSearchLength:     search.MinQueryLength,
		DebounceDelay:       search.DefaultDelay,
		GeolocationTimeout:  20 * time.Second,
		GeolocationMaxAge:   1 * time.Second,
		HTTPTimeout:         10 * time.Second,
		RetryEnabled:        false,
		RetryAttempts:       3,
		RetryDelay:          1 * time.Second,
		Port:                "8080",
	}
}

func hydrateFromFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *AppConfig) error {
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.WeatherBaseURL = v
	}
	if v := os.Getenv("GEO_BASE_URL"); v != "" {
		cfg.GeoBaseURL = v
	}
	if v := os.Getenv("ICON_BASE_URL"); v != "" {
		cfg.IconBaseURL = v
	}
	if v := os.Getenv("WEATHER_UNITS"); v != "" {
		cfg.Units = v
	}
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", cfg.ForecastDays)
	cfg.LocationLimit = getenvInt("LOCATION_LIMIT", cfg.LocationLimit)
	cfg.RecentSearchesLimit = getenvInt("RECENT_SEARCHES_LIMIT", cfg.RecentSearchesLimit)
	cfg.MinSearchLength = getenvInt("MIN_SEARCH_LENGTH", cfg.MinSearchLength)
	cfg.RetryAttempts = getenvInt("RETRY_ATTEMPTS", cfg.RetryAttempts)

	var err error
	if cfg.DebounceDelay, err = getenvDuration("SEARCH_DEBOUNCE", cfg.DebounceDelay); err != nil {
		return err
	}
	if cfg.GeolocationTimeout, err = getenvDuration("GEOLOCATION_TIMEOUT", cfg.GeolocationTimeout); err != nil {
		return err
	}
	if cfg.GeolocationMaxAge, err = getenvDuration("GEOLOCATION_MAX_AGE", cfg.GeolocationMaxAge); err != nil {
		return err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.RetryDelay, err = getenvDuration("RETRY_DELAY", cfg.RetryDelay); err != nil {
		return err
	}

	if v := os.Getenv("RETRY_ENABLED"); v != "" {
		cfg.RetryEnabled = v == "1" || strings.EqualFold(v, "true")
	}
	cfg.Port = getenvDefault("PORT", cfg.Port)
	return nil
}

// Validate ensures the configuration is safe to use.
func (c *AppConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("WEATHER_API_KEY is required")
	}
	if c.ForecastDays <= 0 {
		return errors.New("forecastDays must be positive")
	}
	if c.LocationLimit <= 0 {
		return errors.New("locationLimit must be positive")
	}
	if c.RecentSearchesLimit <= 0 {
		return errors.New("recentSearchesLimit must be positive")
	}
	if c.MinSearchLength <= 0 {
		return errors.New("minSearchLength must be positive")
	}
	if c.DebounceDelay < 0 {
		return errors.New("debounceDelay cannot be negative")
	}
	if c.GeolocationTimeout <= 0 {
		return errors.New("geolocationTimeout must be positive")
	}
	if c.RetryEnabled && c.RetryAttempts <= 0 {
		return errors.New("retryAttempts must be positive when retries are enabled")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
