package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pandemic-stats/covid-dashboard/services/api/config"
	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/db"
	"github.com/pandemic-stats/covid-dashboard/services/api/logging"
)

var log = logrus.WithField("prefix", "checker")

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("source check failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel)

	seedDB := strings.TrimSpace(os.Getenv("SEED_DATABASE"))
	seeding := seedDB == "1" || strings.EqualFold(seedDB, "true")
	if seeding && cfg.DatabaseURL == "" {
		return errors.New("SEED_DATABASE requires DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.FetchTimeout+10*time.Second)
	defer cancel()

	var store *db.Store
	var tables dataset.TableReader
	if cfg.DatabaseURL != "" {
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		tables = store
	}

	sources := dataset.Sources{
		Cases:        cfg.CasesSource,
		Vaccinations: cfg.VaccinationsSource,
		Coordinates:  cfg.CoordinatesSource,
	}
	loader := dataset.NewLoader(&http.Client{Timeout: cfg.FetchTimeout}, dataset.NewCache(0), tables)
	catalog := dataset.NewCatalog(loader, sources)

	r, err := check(ctx, catalog)
	if err != nil {
		return err
	}
	r.log()

	if !seeding {
		return nil
	}
	return seed(ctx, loader, store, sources)
}
