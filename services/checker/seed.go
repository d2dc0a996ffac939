package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
)

type frameLoader interface {
	Frame(ctx context.Context, source string) (dataset.Frame, error)
}

type tableWriter interface {
	ReplaceTable(ctx context.Context, name string, header []string, rows [][]string) (int64, error)
}

// seed copies every non-database source into its dashboard table so the
// API can later be pointed at db: sources.
func seed(ctx context.Context, loader frameLoader, w tableWriter, sources dataset.Sources) error {
	targets := []struct {
		table  string
		source string
	}{
		{"cases", sources.Cases},
		{"vaccinations", sources.Vaccinations},
		{"countries", sources.Coordinates},
	}

	for _, t := range targets {
		entry := log.WithFields(logrus.Fields{"table": t.table, "source": t.source})
		if dataset.IsTable(t.source) {
			entry.Info("source already reads from the database; skipping")
			continue
		}
		frame, err := loader.Frame(ctx, t.source)
		if err != nil {
			return err
		}
		n, err := w.ReplaceTable(ctx, t.table, frame.Header, frame.Rows)
		if err != nil {
			return err
		}
		entry.WithField("rows", n).Info("seeded table")
	}
	return nil
}
