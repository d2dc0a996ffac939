package dataset

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Sources names where each dataset is read from.
type Sources struct {
	Cases        string `json:"cases"`
	Vaccinations string `json:"vaccinations"`
	Coordinates  string `json:"coordinates"`
}

// All lists the configured sources in a fixed order.
func (s Sources) All() []string {
	return []string{s.Cases, s.Vaccinations, s.Coordinates}
}

// Catalog loads the typed dashboard datasets.
type Catalog struct {
	loader  *Loader
	sources Sources
}

// NewCatalog builds a catalog over loader.
func NewCatalog(loader *Loader, sources Sources) *Catalog {
	return &Catalog{loader: loader, sources: sources}
}

// Sources returns the configured sources.
func (c *Catalog) Sources() Sources {
	return c.sources
}

// Cases loads the case/death time series.
func (c *Catalog) Cases(ctx context.Context) (Table[CaseRecord], error) {
	f, err := c.loader.Frame(ctx, c.sources.Cases)
	if err != nil {
		return Table[CaseRecord]{}, err
	}
	t, stats, err := ParseCases(f)
	if err != nil {
		return Table[CaseRecord]{}, err
	}
	logStats(f.Source, stats)
	return t, nil
}

// Vaccinations loads the vaccination feed.
func (c *Catalog) Vaccinations(ctx context.Context) (Table[VaccinationRecord], error) {
	f, err := c.loader.Frame(ctx, c.sources.Vaccinations)
	if err != nil {
		return Table[VaccinationRecord]{}, err
	}
	t, stats, err := ParseVaccinations(f)
	if err != nil {
		return Table[VaccinationRecord]{}, err
	}
	logStats(f.Source, stats)
	return t, nil
}

// Coordinates loads the country reference table.
func (c *Catalog) Coordinates(ctx context.Context) ([]Coordinate, error) {
	f, err := c.loader.Frame(ctx, c.sources.Coordinates)
	if err != nil {
		return nil, err
	}
	coords, stats, err := ParseCoordinates(f)
	if err != nil {
		return nil, err
	}
	logStats(f.Source, stats)
	return coords, nil
}

// Refresh refetches every remote source and returns the resulting cache state.
// Local and database sources are skipped since they are read on every load.
func (c *Catalog) Refresh(ctx context.Context) ([]CacheInfo, error) {
	for _, src := range c.sources.All() {
		if !IsRemote(src) {
			continue
		}
		if _, err := c.loader.Refresh(ctx, src); err != nil {
			return c.Cached(), err
		}
	}
	return c.Cached(), nil
}

// Cached describes the cached remote sources.
func (c *Catalog) Cached() []CacheInfo {
	return c.loader.Cache().Entries()
}

func logStats(source string, stats ParseStats) {
	if stats.BadNumbers == 0 {
		return
	}
	log.WithFields(logrus.Fields{
		"source":      source,
		"rows":        stats.Rows,
		"bad_numbers": stats.BadNumbers,
	}).Warn("unparsable numeric cells treated as missing")
}
