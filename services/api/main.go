package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/pandemic-stats/covid-dashboard/services/api/config"
	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/db"
	httpserver "github.com/pandemic-stats/covid-dashboard/services/api/http"
	"github.com/pandemic-stats/covid-dashboard/services/api/logging"
	"github.com/pandemic-stats/covid-dashboard/services/api/pages"
	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

var log = logrus.WithField("prefix", "main")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config error")
	}
	logging.Init(cfg.LogLevel)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.SentryEnvironment,
		}); err != nil {
			log.WithError(err).Fatal("sentry init error")
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		tables dataset.TableReader
		health httpserver.Pinger
	)
	if cfg.DatabaseURL != "" {
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("db connection error")
		}
		defer store.Close()
		tables = store
		health = store
	}

	loader := dataset.NewLoader(&http.Client{Timeout: cfg.FetchTimeout}, dataset.NewCache(cfg.CacheTTL), tables)
	catalog := dataset.NewCatalog(loader, dataset.Sources{
		Cases:        cfg.CasesSource,
		Vaccinations: cfg.VaccinationsSource,
		Coordinates:  cfg.CoordinatesSource,
	})
	router := pages.Default(catalog, present.NewFormatter(cfg.Locale), pages.Options{
		TrailingDays:    cfg.TrailingDays,
		MarkerScale:     cfg.MarkerScale,
		MarkerMinRadius: cfg.MarkerMinRadius,
	})

	srv := httpserver.New(cfg, router, catalog, health)
	log.WithField("addr", cfg.ListenAddr()).Info("dashboard API listening")

	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
