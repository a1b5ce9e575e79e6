package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "test-key", cfg.APIKey)
	require.Equal(t, 5, cfg.ForecastDays)
	require.Equal(t, 5, cfg.RecentSearchesLimit)
	require.Equal(t, 2, cfg.MinSearchLength)
	require.Equal(t, 300*time.Millisecond, cfg.DebounceDelay)
	require.Equal(t, 20*time.Second, cfg.GeolocationTimeout)
	require.Equal(t, time.Second, cfg.GeolocationMaxAge)
	require.False(t, cfg.RetryEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")
	t.Setenv("FORECAST_DAYS", "7")
	t.Setenv("SEARCH_DEBOUNCE", "150ms")
	t.Setenv("RETRY_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 7, cfg.ForecastDays)
	require.Equal(t, 150*time.Millisecond, cfg.DebounceDelay)
	require.True(t, cfg.RetryEnabled)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "apiKey: from-file\nforecastDays: 3\nport: \"9090\"\n")

	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.APIKey)
	require.Equal(t, 3, cfg.ForecastDays)
	require.Equal(t, "9090", cfg.Port)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")
	t.Setenv("SEARCH_DEBOUNCE", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}
