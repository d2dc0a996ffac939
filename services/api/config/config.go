package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultCasesSource        = "data/WHO-COVID-19-global-data.csv"
	defaultCoordinatesSource  = "data/countries.csv"
	defaultVaccinationsSource = "https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/vaccinations/vaccinations.csv"
	defaultFetchTimeout       = 30 * time.Second
	defaultTrailingDays       = 30
	defaultMarkerScale        = 1e7
	defaultMarkerMinRadius    = 2
)

// Config holds environment-driven settings for the dashboard API.
type Config struct {
	Port               int
	CasesSource        string
	CoordinatesSource  string
	VaccinationsSource string
	DatabaseURL        string
	BearerToken        string
	LogLevel           logrus.Level
	SentryDSN          string
	SentryEnvironment  string
	FetchTimeout       time.Duration
	CacheTTL           time.Duration
	TrailingDays       int
	MarkerScale        float64
	MarkerMinRadius    float64
	Locale             string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:               8080,
		CasesSource:        defaultCasesSource,
		CoordinatesSource:  defaultCoordinatesSource,
		VaccinationsSource: defaultVaccinationsSource,
		LogLevel:           logrus.InfoLevel,
		FetchTimeout:       defaultFetchTimeout,
		TrailingDays:       defaultTrailingDays,
		MarkerScale:        defaultMarkerScale,
		MarkerMinRadius:    defaultMarkerMinRadius,
		Locale:             "en",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("CASES_SOURCE")); v != "" {
		cfg.CasesSource = v
	}
	if v := strings.TrimSpace(os.Getenv("COORDINATES_SOURCE")); v != "" {
		cfg.CoordinatesSource = v
	}
	if v := strings.TrimSpace(os.Getenv("VACCINATIONS_SOURCE")); v != "" {
		cfg.VaccinationsSource = v
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" && cfg.usesDatabase() {
		return cfg, errors.New("DATABASE_URL is required when a source uses db:")
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL: %s", v)
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT: %s", v)
		}
		cfg.FetchTimeout = d
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return cfg, fmt.Errorf("invalid CACHE_TTL: %s", v)
		}
		cfg.CacheTTL = d
	}

	if v := os.Getenv("TRAILING_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.TrailingDays = days
		} else {
			return cfg, fmt.Errorf("invalid TRAILING_DAYS: %s", v)
		}
	}

	if v := os.Getenv("MARKER_SCALE"); v != "" {
		if scale, err := strconv.ParseFloat(v, 64); err == nil && scale > 0 {
			cfg.MarkerScale = scale
		} else {
			return cfg, fmt.Errorf("invalid MARKER_SCALE: %s", v)
		}
	}

	if v := os.Getenv("MARKER_MIN_RADIUS"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r > 0 {
			cfg.MarkerMinRadius = r
		} else {
			return cfg, fmt.Errorf("invalid MARKER_MIN_RADIUS: %s", v)
		}
	}

	if v := strings.TrimSpace(os.Getenv("LOCALE")); v != "" {
		cfg.Locale = v
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")
	cfg.SentryDSN = os.Getenv("SENTRY_DSN")
	cfg.SentryEnvironment = os.Getenv("SENTRY_ENVIRONMENT")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) usesDatabase() bool {
	for _, s := range []string{c.CasesSource, c.CoordinatesSource, c.VaccinationsSource} {
		if strings.HasPrefix(s, "db:") {
			return true
		}
	}
	return false
}
