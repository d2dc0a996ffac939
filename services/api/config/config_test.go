package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "API_PORT", "CASES_SOURCE", "COORDINATES_SOURCE", "VACCINATIONS_SOURCE",
	"DATABASE_URL", "API_BEARER_TOKEN", "LOG_LEVEL", "SENTRY_DSN", "SENTRY_ENVIRONMENT",
	"FETCH_TIMEOUT", "CACHE_TTL", "TRAILING_DAYS", "MARKER_SCALE", "MARKER_MIN_RADIUS", "LOCALE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, defaultCasesSource, cfg.CasesSource)
	assert.Equal(t, defaultVaccinationsSource, cfg.VaccinationsSource)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Zero(t, cfg.CacheTTL)
	assert.Equal(t, 30, cfg.TrailingDays)
	assert.Equal(t, 1e7, cfg.MarkerScale)
	assert.Equal(t, 2.0, cfg.MarkerMinRadius)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("CASES_SOURCE", "db:cases")
	t.Setenv("DATABASE_URL", "postgres://localhost/dashboard")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("TRAILING_DAYS", "7")
	t.Setenv("LOCALE", "tr")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "db:cases", cfg.CasesSource)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 7, cfg.TrailingDays)
	assert.Equal(t, "tr", cfg.Locale)
}

func TestLoadInvalid(t *testing.T) {
	for key, val := range map[string]string{
		"PORT":              "-1",
		"LOG_LEVEL":         "loud",
		"FETCH_TIMEOUT":     "soon",
		"CACHE_TTL":         "-1s",
		"TRAILING_DAYS":     "0",
		"MARKER_SCALE":      "x",
		"MARKER_MIN_RADIUS": "-2",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadDatabaseRequiredForDBSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("COORDINATES_SOURCE", "db:countries")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}
