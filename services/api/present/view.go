package present

import (
	"time"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
)

// View is one rendered page as handed to a front end.
type View struct {
	Page       string       `json:"page"`
	Title      string       `json:"title"`
	Selector   string       `json:"selector"`
	Locale     string       `json:"locale"`
	LatestDate *time.Time   `json:"latest_date,omitempty"`
	Updated    string       `json:"updated,omitempty"`
	Heading    string       `json:"heading,omitempty"`
	Text       []string     `json:"text,omitempty"`
	Metrics    []Metric     `json:"metrics,omitempty"`
	Charts     []Chart      `json:"charts,omitempty"`
	Maps       []MapView    `json:"maps,omitempty"`
	Errors     []PanelError `json:"errors,omitempty"`
}

// Chart returns the chart with id.
func (v View) Chart(id string) (Chart, bool) {
	for _, c := range v.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

// Metric is one summary scalar panel.
type Metric struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Value     string             `json:"value"`
	Raw       *float64           `json:"raw,omitempty"`
	Delta     string             `json:"delta,omitempty"`
	Direction pipeline.Direction `json:"direction,omitempty"`
}

// CountMetric builds a grouped-count panel.
func (f *Formatter) CountMetric(id string, v *float64) Metric {
	return Metric{ID: id, Label: f.Label(id), Value: f.Count(v), Raw: v}
}

// RateMetric builds a two-decimal panel.
func (f *Formatter) RateMetric(id string, v *float64) Metric {
	return Metric{ID: id, Label: f.Label(id), Value: f.Rate(v), Raw: v}
}

// CompareMetric builds a count panel carrying a period-over-period delta.
func (f *Formatter) CompareMetric(id string, c pipeline.Comparison) Metric {
	cur := c.Current
	return Metric{
		ID:        id,
		Label:     f.Label(id),
		Value:     f.Count(&cur),
		Raw:       &cur,
		Delta:     f.Delta(c),
		Direction: c.Direction,
	}
}

// ChartKind names how a chart is drawn.
type ChartKind string

const (
	LineChart       ChartKind = "line"
	BarChart        ChartKind = "bar"
	ScatterChart    ChartKind = "scatter"
	PieChart        ChartKind = "pie"
	SunburstChart   ChartKind = "sunburst"
	TreemapChart    ChartKind = "treemap"
	HeatmapChart    ChartKind = "heatmap"
	ChoroplethChart ChartKind = "choropleth"
)

// Series is one trace of a line, bar or scatter chart.
type Series struct {
	Name   string           `json:"name"`
	Kind   ChartKind        `json:"kind"`
	Color  string           `json:"color,omitempty"`
	Points []pipeline.Point `json:"points"`
}

// Slice is one labelled share of a pie, sunburst or treemap.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Region is one country area of a choropleth.
type Region struct {
	Code  string  `json:"code"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is one chart panel.
type Chart struct {
	ID string `json:"id"`
	// Heading is the section header shown above the chart, when it has one.
	Heading string          `json:"heading,omitempty"`
	Title   string          `json:"title"`
	Kind    ChartKind       `json:"kind"`
	XLabel  string          `json:"x_label,omitempty"`
	YLabel  string          `json:"y_label,omitempty"`
	Hole    float64         `json:"hole,omitempty"`
	Series  []Series        `json:"series,omitempty"`
	Slices  []Slice         `json:"slices,omitempty"`
	Cells   []pipeline.Cell `json:"cells,omitempty"`
	Regions []Region        `json:"regions,omitempty"`
}

// MapView is a point map.
type MapView struct {
	ID     string             `json:"id"`
	Title  string             `json:"title"`
	Center [2]float64         `json:"center"`
	Zoom   int                `json:"zoom"`
	Points []MapPoint         `json:"points"`
	Join   pipeline.JoinStats `json:"join"`
}

// MapPoint is one circle marker.
type MapPoint struct {
	Key       string  `json:"key"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
	Color     string  `json:"color"`
	Tooltip   string  `json:"tooltip"`
}

// PanelError reports a panel that could not be built.
type PanelError struct {
	Panel   string `json:"panel"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Panel error kinds.
const (
	SourceUnavailable = "source_unavailable"
	SchemaMismatch    = "schema_mismatch"
	Internal          = "internal"
)

// NewPanelError classifies err for panel.
func NewPanelError(panel string, err error) PanelError {
	kind := Internal
	switch {
	case dataset.IsSourceUnavailable(err):
		kind = SourceUnavailable
	case dataset.IsSchemaMismatch(err):
		kind = SchemaMismatch
	}
	return PanelError{Panel: panel, Kind: kind, Message: err.Error()}
}
