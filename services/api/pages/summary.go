package pages

import (
	"context"

	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

// SummaryPage puts the headline figures of both datasets side by side.
// Either dataset may fail on its own; the page fails only when both do.
type SummaryPage struct {
	src  Source
	f    *present.Formatter
	opts Options
}

func (p *SummaryPage) Slug() string  { return "summary" }
func (p *SummaryPage) Title() string { return p.f.Label("PageSummary") }

func (p *SummaryPage) Countries(ctx context.Context) ([]string, error) {
	cases, err := p.src.Cases(ctx)
	if err == nil {
		return pipeline.Countries(cases, false), nil
	}
	vax, vaxErr := p.src.Vaccinations(ctx)
	if vaxErr != nil {
		return nil, err
	}
	return pipeline.Countries(vax, true), nil
}

func (p *SummaryPage) Render(ctx context.Context, selector string) (present.View, error) {
	v := newView(p.f, p, selector)
	v.Title = p.f.Label("SummaryTitle")
	v.Text = []string{p.f.Label("SummaryIntro")}

	cases, casesErr := p.src.Cases(ctx)
	if casesErr != nil {
		v.Errors = append(v.Errors, present.NewPanelError("cases", casesErr))
	} else {
		filtered := pipeline.Filter(cases, selector)
		latest, ok := pipeline.LatestDate(cases)
		if ok {
			v.LatestDate = &latest
			v.Updated = p.f.Stamp("LastWorkingTime", latest)
		}
		cur, prior := pipeline.TrailingWindows(latest, p.opts.TrailingDays)
		totalCases := pipeline.TotalCumulative(filtered, pipeline.CumulativeCases)
		totalDeaths := pipeline.TotalCumulative(filtered, pipeline.CumulativeDeaths)
		v.Metrics = append(v.Metrics,
			p.f.CountMetric("TotalCases", totalCases),
			p.f.CountMetric("TotalDeaths", totalDeaths),
			p.f.RateMetric("CaseFatalityRate", pipeline.Percent(totalDeaths, totalCases)),
			p.f.CompareMetric("LastMonthCases", pipeline.Compare(
				pipeline.WindowSum(filtered, pipeline.NewCases, cur),
				pipeline.WindowSum(filtered, pipeline.NewCases, prior),
			)),
		)
	}

	vax, vaxErr := p.src.Vaccinations(ctx)
	if vaxErr != nil {
		v.Errors = append(v.Errors, present.NewPanelError("vaccinations", vaxErr))
	} else {
		filtered := pipeline.Filter(vax, selector)
		people := pipeline.ReduceSnapshot(filtered, pipeline.PeopleVaccinated)
		fully := pipeline.ReduceSnapshot(filtered, pipeline.PeopleFullyVaccinated)
		v.Metrics = append(v.Metrics,
			p.f.CountMetric("PeopleVaccinated", people),
			p.f.CountMetric("PeopleFullyVaccinated", fully),
			p.f.RateMetric("FullyVaccinatedShare", pipeline.Percent(fully, people)),
		)
	}

	if casesErr != nil && vaxErr != nil {
		return present.View{}, casesErr
	}
	return v, nil
}
