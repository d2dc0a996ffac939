package pages

import (
	"context"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

// Series colors of the cases charts.
const (
	casesColor  = "#b22222"
	deathsColor = "#4169e1"
	markerColor = "crimson"
)

// CasesPage shows case and death totals, trailing-window comparisons, daily
// and monthly charts and a global point map.
type CasesPage struct {
	src  Source
	f    *present.Formatter
	opts Options
}

func (p *CasesPage) Slug() string  { return "cases" }
func (p *CasesPage) Title() string { return p.f.Label("PageCases") }

func (p *CasesPage) Countries(ctx context.Context) ([]string, error) {
	data, err := p.src.Cases(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.Countries(data, false), nil
}

func (p *CasesPage) Render(ctx context.Context, selector string) (present.View, error) {
	data, err := p.src.Cases(ctx)
	if err != nil {
		return present.View{}, err
	}

	v := newView(p.f, p, selector)
	v.Title = p.f.Label("CasesTitle")
	v.Heading = p.f.LabelWith("DailyStatistics", map[string]any{"Country": selector})

	// The trailing windows end at the latest report of the whole dataset,
	// whatever the selector.
	latest, ok := pipeline.LatestDate(data)
	if ok {
		v.LatestDate = &latest
		v.Updated = p.f.Stamp("LastWorkingTime", latest)
	}
	cur, prior := pipeline.TrailingWindows(latest, p.opts.TrailingDays)

	filtered := pipeline.Filter(data, selector)
	totalCases := pipeline.TotalCumulative(filtered, pipeline.CumulativeCases)
	totalDeaths := pipeline.TotalCumulative(filtered, pipeline.CumulativeDeaths)
	cases := pipeline.Compare(
		pipeline.WindowSum(filtered, pipeline.NewCases, cur),
		pipeline.WindowSum(filtered, pipeline.NewCases, prior),
	)
	deaths := pipeline.Compare(
		pipeline.WindowSum(filtered, pipeline.NewDeaths, cur),
		pipeline.WindowSum(filtered, pipeline.NewDeaths, prior),
	)

	v.Metrics = []present.Metric{
		p.f.CountMetric("TotalCases", totalCases),
		p.f.CountMetric("TotalDeaths", totalDeaths),
		p.f.RateMetric("CaseFatalityRate", pipeline.Percent(totalDeaths, totalCases)),
		p.f.CompareMetric("LastMonthCases", cases),
		p.f.CompareMetric("LastMonthDeaths", deaths),
	}

	v.Charts = []present.Chart{
		p.flowChart("daily", "DailyCasesChart",
			pipeline.DailySeries(filtered, pipeline.NewCases),
			pipeline.DailySeries(filtered, pipeline.NewDeaths)),
		p.monthlyChart(filtered),
	}

	coords, err := p.src.Coordinates(ctx)
	if err != nil {
		log.WithError(err).Warn("case map unavailable")
		v.Errors = append(v.Errors, present.NewPanelError("map", err))
		return v, nil
	}
	v.Maps = []present.MapView{p.caseMap(data, coords, cur)}
	return v, nil
}

func (p *CasesPage) monthlyChart(t dataset.Table[dataset.CaseRecord]) present.Chart {
	buckets := pipeline.Resample(t, pipeline.Monthly, pipeline.NewCases, pipeline.NewDeaths)
	return p.flowChart("monthly", "MonthlyCasesChart",
		pipeline.Series(buckets, pipeline.NewCases.Name),
		pipeline.Series(buckets, pipeline.NewDeaths.Name))
}

func (p *CasesPage) flowChart(id, titleID string, cases, deaths []pipeline.Point) present.Chart {
	return present.Chart{
		ID:     id,
		Title:  p.f.Label(titleID),
		Kind:   present.LineChart,
		XLabel: p.f.Label("Date"),
		YLabel: p.f.Label("Count"),
		Series: []present.Series{
			{Name: p.f.Label("NewCases"), Kind: present.LineChart, Color: casesColor, Points: cases},
			{Name: p.f.Label("NewDeaths"), Kind: present.LineChart, Color: deathsColor, Points: deaths},
		},
	}
}

// caseMap always covers every country; the selector does not apply.
func (p *CasesPage) caseMap(data dataset.Table[dataset.CaseRecord], coords []dataset.Coordinate, trailing pipeline.Window) present.MapView {
	joiner := pipeline.GeoJoiner[dataset.CaseRecord]{
		Totals:    []pipeline.Field[dataset.CaseRecord]{pipeline.NewCases, pipeline.NewDeaths, pipeline.CumulativeCases, pipeline.CumulativeDeaths},
		Flows:     []pipeline.Field[dataset.CaseRecord]{pipeline.NewCases, pipeline.NewDeaths},
		SizeBy:    pipeline.CumulativeCases,
		Scale:     p.opts.MarkerScale,
		MinRadius: p.opts.MarkerMinRadius,
	}
	points, stats := joiner.Join(data, coords, trailing)
	if stats.Missed > 0 {
		log.WithField("missed", stats.Missed).Info("countries without coordinates left off the case map")
	}

	m := present.MapView{
		ID:     "cases",
		Title:  p.f.Label("GlobalCasesMap"),
		Zoom:   2,
		Points: make([]present.MapPoint, 0, len(points)),
		Join:   stats,
	}
	for _, pt := range points {
		newCases := pt.Trailing[pipeline.NewCases.Name]
		newDeaths := pt.Trailing[pipeline.NewDeaths.Name]
		m.Points = append(m.Points, present.MapPoint{
			Key:       pt.Key,
			Latitude:  pt.Latitude,
			Longitude: pt.Longitude,
			Radius:    pt.Radius,
			Color:     markerColor,
			Tooltip: present.Tooltip(
				present.Line{Label: p.f.Label("Country"), Value: pt.Key},
				present.Line{Label: p.f.Label("TotalCases"), Value: p.f.Count(pt.Totals[pipeline.CumulativeCases.Name])},
				present.Line{Label: p.f.Label("LastMonthCases"), Value: p.f.Count(&newCases)},
				present.Line{Label: p.f.Label("TotalDeaths"), Value: p.f.Count(pt.Totals[pipeline.CumulativeDeaths.Name])},
				present.Line{Label: p.f.Label("LastMonthDeaths"), Value: p.f.Count(&newDeaths)},
			),
		})
	}
	return m
}
