package pages

import (
	"context"

	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

// HomePage is the static introduction.
type HomePage struct {
	f *present.Formatter
}

func (p *HomePage) Slug() string  { return "home" }
func (p *HomePage) Title() string { return p.f.Label("PageHome") }

func (p *HomePage) Countries(context.Context) ([]string, error) {
	return nil, nil
}

func (p *HomePage) Render(_ context.Context, selector string) (present.View, error) {
	v := newView(p.f, p, selector)
	v.Title = p.f.Label("HomeTitle")
	v.Heading = p.f.Label("HomeHeading")
	v.Text = []string{
		p.f.Label("HomeIntro"),
		p.f.Label("HomeScience"),
		p.f.Label("HomeMedicine"),
		p.f.Label("HomeData"),
		p.f.Label("HomeVisualization"),
		p.f.Label("HomeCredits"),
	}
	return v, nil
}
