package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

var log = logrus.WithField("prefix", "pages")

// ErrUnknownPage is returned for a slug no page is registered under.
var ErrUnknownPage = errors.New("unknown page")

// Source provides the datasets pages are built from.
type Source interface {
	Cases(ctx context.Context) (dataset.Table[dataset.CaseRecord], error)
	Vaccinations(ctx context.Context) (dataset.Table[dataset.VaccinationRecord], error)
	Coordinates(ctx context.Context) ([]dataset.Coordinate, error)
}

// Options tune the page computations.
type Options struct {
	TrailingDays    int
	MarkerScale     float64
	MarkerMinRadius float64
}

func (o Options) withDefaults() Options {
	if o.TrailingDays <= 0 {
		o.TrailingDays = pipeline.DefaultTrailingDays
	}
	if o.MarkerScale <= 0 {
		o.MarkerScale = pipeline.DefaultMarkerScale
	}
	if o.MarkerMinRadius <= 0 {
		o.MarkerMinRadius = pipeline.DefaultMarkerMinRadius
	}
	return o
}

// Page is one report page. Each page runs its own filter and aggregate
// pipeline on every render.
type Page interface {
	Slug() string
	Title() string
	// Countries lists the selector options, All first. Pages without a
	// selector return nil.
	Countries(ctx context.Context) ([]string, error)
	Render(ctx context.Context, selector string) (present.View, error)
}

// MenuItem is one menu entry.
type MenuItem struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Router dispatches to pages by slug and keeps their registration order.
type Router struct {
	pages  []Page
	bySlug map[string]Page
}

// NewRouter registers pages in menu order.
func NewRouter(pages ...Page) *Router {
	r := &Router{bySlug: make(map[string]Page, len(pages))}
	for _, p := range pages {
		if _, dup := r.bySlug[p.Slug()]; dup {
			panic(fmt.Sprintf("pages: duplicate slug %q", p.Slug()))
		}
		r.pages = append(r.pages, p)
		r.bySlug[p.Slug()] = p
	}
	return r
}

// Default builds the dashboard menu: home, cases, vaccinations and summary.
func Default(src Source, f *present.Formatter, opts Options) *Router {
	opts = opts.withDefaults()
	return NewRouter(
		&HomePage{f: f},
		&CasesPage{src: src, f: f, opts: opts},
		&VaccinationsPage{src: src, f: f, opts: opts},
		&SummaryPage{src: src, f: f, opts: opts},
	)
}

// Menu lists the pages in registration order.
func (r *Router) Menu() []MenuItem {
	out := make([]MenuItem, len(r.pages))
	for i, p := range r.pages {
		out[i] = MenuItem{Slug: p.Slug(), Title: p.Title()}
	}
	return out
}

// Page looks up a page by slug.
func (r *Router) Page(slug string) (Page, error) {
	p, ok := r.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, slug)
	}
	return p, nil
}

// Render builds the view of page slug for selector.
func (r *Router) Render(ctx context.Context, slug, selector string) (present.View, error) {
	p, err := r.Page(slug)
	if err != nil {
		return present.View{}, err
	}
	if selector == "" {
		selector = pipeline.All
	}
	view, err := p.Render(ctx, selector)
	if err != nil {
		return present.View{}, err
	}
	log.WithFields(logrus.Fields{
		"page":     slug,
		"selector": selector,
		"charts":   len(view.Charts),
		"errors":   len(view.Errors),
	}).Debug("rendered page")
	return view, nil
}

// Countries lists the selector options of page slug.
func (r *Router) Countries(ctx context.Context, slug string) ([]string, error) {
	p, err := r.Page(slug)
	if err != nil {
		return nil, err
	}
	return p.Countries(ctx)
}

func newView(f *present.Formatter, p Page, selector string) present.View {
	return present.View{
		Page:     p.Slug(),
		Title:    p.Title(),
		Selector: selector,
		Locale:   f.Locale(),
	}
}
