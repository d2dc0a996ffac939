package pages

import (
	"context"
	"math"
	"sort"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

// rollingDays is the width of the daily vaccinations trend line.
const rollingDays = 7

type vaxField = pipeline.Field[dataset.VaccinationRecord]

// VaccinationsPage shows vaccination snapshots, averages and charts.
type VaccinationsPage struct {
	src  Source
	f    *present.Formatter
	opts Options
}

func (p *VaccinationsPage) Slug() string  { return "vaccinations" }
func (p *VaccinationsPage) Title() string { return p.f.Label("PageVaccinations") }

func (p *VaccinationsPage) Countries(ctx context.Context) ([]string, error) {
	data, err := p.src.Vaccinations(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.Countries(data, true), nil
}

func (p *VaccinationsPage) Render(ctx context.Context, selector string) (present.View, error) {
	data, err := p.src.Vaccinations(ctx)
	if err != nil {
		return present.View{}, err
	}

	v := newView(p.f, p, selector)
	v.Title = p.f.Label("VaccinationsTitle")

	filtered := pipeline.Filter(data, selector)
	if latest, ok := pipeline.LatestDate(filtered); ok {
		v.LatestDate = &latest
		v.Updated = p.f.Stamp("LatestDate", latest)
	}

	people := pipeline.ReduceSnapshot(filtered, pipeline.PeopleVaccinated)
	fully := pipeline.ReduceSnapshot(filtered, pipeline.PeopleFullyVaccinated)
	total := pipeline.Sum(filtered, pipeline.DailyVaccinations)

	v.Metrics = []present.Metric{
		p.f.CountMetric("PeopleVaccinated", people),
		p.f.CountMetric("PeopleFullyVaccinated", fully),
		p.f.CountMetric("TotalVaccinations", &total),
		p.f.RateMetric("DailyVaccinationsAvg", pipeline.Mean(filtered, pipeline.DailyVaccinations)),
		p.f.RateMetric("PeopleVaccinatedPerHundred", pipeline.ReduceSnapshot(filtered, pipeline.PeopleVaccinatedPerHundred)),
		p.f.RateMetric("PeopleFullyVaccinatedPerHundred", pipeline.ReduceSnapshot(filtered, pipeline.PeopleFullyVaccinatedPerHundred)),
		p.f.RateMetric("DailyVaccinationsPerMillionAvg", pipeline.Mean(filtered, pipeline.DailyVaccinationsPerMillion)),
		p.f.RateMetric("DailyPeopleVaccinatedPerHundredAvg", pipeline.Mean(filtered, pipeline.DailyPeopleVaccinatedPerHundred)),
		p.f.RateMetric("FullyVaccinatedShare", pipeline.Percent(fully, people)),
	}

	v.Charts = []present.Chart{
		p.lineChart("people_vaccinated", selector, "PeopleVaccinatedOverTime", pipeline.PeopleVaccinated, filtered),
		p.fullyChart(selector, fully, total),
		p.dailyChart(selector, filtered),
		p.perHundredChart(selector, filtered),
		p.lineChart("fully_per_hundred", selector, "FullyPerHundredOverTime", pipeline.PeopleFullyVaccinatedPerHundred, filtered),
		p.byLocationChart("per_million_by_location", present.SunburstChart, selector, "PerMillionByLocation",
			pipeline.DailyVaccinationsPerMillion.As(pipeline.Flow), filtered),
		p.byLocationChart("daily_people_by_location", present.TreemapChart, selector, "DailyPeopleVaccinatedByLocation",
			pipeline.DailyPeopleVaccinated, filtered),
		{
			ID:     "per_million_heatmap",
			Title:  p.f.ForCountry(selector, "PerMillionOverTime"),
			Kind:   present.HeatmapChart,
			XLabel: p.f.Label("Date"),
			YLabel: p.f.Label("Country"),
			Cells:  pipeline.Heatmap(filtered, pipeline.DailyVaccinationsPerMillion, pipeline.Monthly),
		},
		p.choropleth(filtered),
	}
	return v, nil
}

func (p *VaccinationsPage) lineChart(id, selector, titleID string, field vaxField, t dataset.Table[dataset.VaccinationRecord]) present.Chart {
	return present.Chart{
		ID:     id,
		Title:  p.f.ForCountry(selector, titleID),
		Kind:   present.LineChart,
		XLabel: p.f.Label("Date"),
		Series: []present.Series{
			{Name: p.f.Label(titleID), Kind: present.LineChart, Points: pipeline.DailySeries(t, field)},
		},
	}
}

// fullyChart splits total doses into fully vaccinated people and the rest.
func (p *VaccinationsPage) fullyChart(selector string, fully *float64, total float64) present.Chart {
	c := present.Chart{
		ID:    "fully_vaccinated",
		Title: p.f.ForCountry(selector, "PeopleFullyVaccinated"),
		Kind:  present.PieChart,
		Hole:  0.3,
	}
	if fully == nil {
		return c
	}
	c.Slices = []present.Slice{
		{Label: p.f.Label("FullyVaccinated"), Value: *fully},
		{Label: p.f.Label("NotFullyVaccinated"), Value: math.Max(total-*fully, 0)},
	}
	return c
}

func (p *VaccinationsPage) dailyChart(selector string, t dataset.Table[dataset.VaccinationRecord]) present.Chart {
	daily := pipeline.DailySeries(t, pipeline.DailyVaccinations)
	return present.Chart{
		ID:     "daily_vaccinations",
		Title:  p.f.ForCountry(selector, "DailyVaccinations"),
		Kind:   present.BarChart,
		XLabel: p.f.Label("Date"),
		YLabel: p.f.Label("DailyVaccinations"),
		Series: []present.Series{
			{Name: p.f.Label("DailyVaccinations"), Kind: present.BarChart, Color: "#0000ff", Points: daily},
			{Name: p.f.Label("Trend"), Kind: present.LineChart, Color: "#ff0000", Points: pipeline.RollingMean(daily, rollingDays)},
		},
	}
}

func (p *VaccinationsPage) perHundredChart(selector string, t dataset.Table[dataset.VaccinationRecord]) present.Chart {
	pts := pipeline.DailySeries(t, pipeline.PeopleVaccinatedPerHundred)
	c := present.Chart{
		ID:     "per_hundred",
		Title:  p.f.ForCountry(selector, "PerHundredOverTime"),
		Kind:   present.ScatterChart,
		XLabel: p.f.Label("Date"),
		YLabel: p.f.Label("PeopleVaccinatedPerHundred"),
		Series: []present.Series{
			{Name: p.f.Label("PeopleVaccinatedPerHundred"), Kind: present.ScatterChart, Points: pts},
		},
	}
	if trend := pipeline.Trend(pts); trend != nil {
		c.Series = append(c.Series, present.Series{Name: p.f.Label("Trend"), Kind: present.LineChart, Points: trend})
	}
	return c
}

func (p *VaccinationsPage) byLocationChart(id string, kind present.ChartKind, selector, titleID string, field vaxField, t dataset.Table[dataset.VaccinationRecord]) present.Chart {
	c := present.Chart{
		ID:     id,
		Title:  p.f.ForCountry(selector, titleID),
		Kind:   kind,
		Slices: make([]present.Slice, 0),
	}
	for _, g := range pipeline.GroupByKey(t, field) {
		if val := g.Values[field.Name]; val != nil && *val > 0 {
			c.Slices = append(c.Slices, present.Slice{Label: g.Key, Value: *val})
		}
	}
	return c
}

// choropleth colors each location by its latest reported total.
func (p *VaccinationsPage) choropleth(t dataset.Table[dataset.VaccinationRecord]) present.Chart {
	codes := make(map[string]string)
	for _, r := range t.Rows {
		if _, ok := codes[r.Location]; !ok && r.ISOCode != "" {
			codes[r.Location] = r.ISOCode
		}
	}

	c := present.Chart{
		ID:      "total_vaccinations_map",
		Heading: p.f.Label("GlobalVaccinationMap"),
		Title:   p.f.Label("TotalVaccinationsByCountry"),
		Kind:    present.ChoroplethChart,
		YLabel:  p.f.Label("TotalVaccinations"),
		Regions: make([]present.Region, 0),
	}
	for loc, val := range pipeline.LatestByKey(t, pipeline.TotalVaccinations) {
		code, ok := codes[loc]
		if !ok {
			continue
		}
		c.Regions = append(c.Regions, present.Region{Code: code, Label: loc, Value: val})
	}
	sort.Slice(c.Regions, func(i, j int) bool { return c.Regions[i].Label < c.Regions[j].Label })
	return c
}
