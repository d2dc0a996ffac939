package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
)

type source interface {
	Cases(ctx context.Context) (dataset.Table[dataset.CaseRecord], error)
	Vaccinations(ctx context.Context) (dataset.Table[dataset.VaccinationRecord], error)
	Coordinates(ctx context.Context) ([]dataset.Coordinate, error)
}

// report summarizes one pass over every source.
type report struct {
	CaseRows           int
	CasesLatest        time.Time
	Countries          int
	VaccinationRows    int
	VaccinationsLatest time.Time
	Locations          int
	Coordinates        int
	Located            int
	Join               pipeline.JoinStats
}

// check loads every source and joins the case countries against the
// coordinates the way the case map does.
func check(ctx context.Context, src source) (report, error) {
	var r report

	cases, err := src.Cases(ctx)
	if err != nil {
		return r, err
	}
	r.CaseRows = cases.Len()
	r.CasesLatest, _ = pipeline.LatestDate(cases)
	r.Countries = len(pipeline.Countries(cases, false)) - 1

	vax, err := src.Vaccinations(ctx)
	if err != nil {
		return r, err
	}
	r.VaccinationRows = vax.Len()
	r.VaccinationsLatest, _ = pipeline.LatestDate(vax)
	r.Locations = len(pipeline.Countries(vax, false)) - 1

	coords, err := src.Coordinates(ctx)
	if err != nil {
		return r, err
	}
	r.Coordinates = len(coords)
	for _, c := range coords {
		if c.Located() {
			r.Located++
		}
	}

	joiner := pipeline.GeoJoiner[dataset.CaseRecord]{SizeBy: pipeline.CumulativeCases}
	_, r.Join = joiner.Join(cases, coords, pipeline.Window{})
	return r, nil
}

func (r report) log() {
	log.WithFields(logrus.Fields{
		"rows":      r.CaseRows,
		"countries": r.Countries,
		"latest":    r.CasesLatest.Format("2006-01-02"),
	}).Info("cases loaded")
	log.WithFields(logrus.Fields{
		"rows":      r.VaccinationRows,
		"locations": r.Locations,
		"latest":    r.VaccinationsLatest.Format("2006-01-02"),
	}).Info("vaccinations loaded")
	log.WithFields(logrus.Fields{
		"rows":    r.Coordinates,
		"located": r.Located,
		"matched": r.Join.Matched,
		"missed":  r.Join.Missed,
	}).Info("coordinates joined")
	for _, key := range r.Join.MissedKeys {
		log.WithField("country", key).Warn("no coordinates; country is left off the case map")
	}
}
