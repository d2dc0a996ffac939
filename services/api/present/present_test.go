package present

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
)

func fp(v float64) *float64 { return &v }

func TestCount(t *testing.T) {
	f := NewFormatter("en")
	assert.Equal(t, "1,234,568", f.Count(fp(1234567.6)))
	assert.Equal(t, "0", f.Count(fp(0)))
	assert.Equal(t, "-12,000", f.Count(fp(-12000)))
	assert.Equal(t, "Unavailable", f.Count(nil))
}

func TestRate(t *testing.T) {
	f := NewFormatter("en")
	assert.Equal(t, "12.35", f.Rate(fp(12.345678)))
	assert.Equal(t, "0.50", f.Rate(fp(0.5)))
	assert.Equal(t, "Unavailable", f.Rate(nil))
	assert.Equal(t, "Unavailable", f.Rate(pipeline.Ratio(fp(1), fp(0))))
}

func TestStamp(t *testing.T) {
	d := time.Date(2021, time.March, 7, 13, 5, 0, 0, time.UTC)
	assert.Equal(t, "07.03.2021 13:05", NewFormatter("en").Date(d))
	assert.Equal(t, "Last Working Time: 07.03.2021 13:05", NewFormatter("en").Stamp("LastWorkingTime", d))
	assert.Equal(t, "Son Güncelleme: 07.03.2021 13:05", NewFormatter("tr").Stamp("LastWorkingTime", d))
}

func TestDelta(t *testing.T) {
	f := NewFormatter("en")
	assert.Equal(t, "1,500 🔼", f.Delta(pipeline.Compare(2500, 1000)))
	assert.Equal(t, "0 🔽", f.Delta(pipeline.Compare(100, 100)))
	assert.Equal(t, "-7 🔽", f.Delta(pipeline.Compare(3, 10)))
}

func TestLabels(t *testing.T) {
	en := NewFormatter("en")
	assert.Equal(t, "Total Cases", en.Label("TotalCases"))
	assert.Equal(t, "Turkey - People Vaccinated Over Time", en.ForCountry("Turkey", "PeopleVaccinatedOverTime"))
	assert.Equal(t, "NoSuchLabel", en.Label("NoSuchLabel"))

	tr := NewFormatter("tr")
	assert.Equal(t, "Toplam Vaka", tr.Label("TotalCases"))
	assert.Equal(t, "Mevcut değil", tr.Count(nil))

	fallback := NewFormatter("not a locale!")
	assert.Equal(t, "en", fallback.Locale())
}

func TestTooltip(t *testing.T) {
	got := Tooltip(Line{"Country", "X"}, Line{"Total Cases", "1,000"})
	assert.Equal(t, "Country: X<br>Total Cases: 1,000", got)
}

func TestCompareMetric(t *testing.T) {
	m := NewFormatter("en").CompareMetric("LastMonthCases", pipeline.Compare(1200, 200))
	assert.Equal(t, "Last Month Cases", m.Label)
	assert.Equal(t, "1,200", m.Value)
	assert.Equal(t, "1,000 🔼", m.Delta)
	assert.Equal(t, pipeline.Up, m.Direction)
}

func TestNewPanelError(t *testing.T) {
	unavailable := &dataset.SourceUnavailableError{Source: "x.csv", Err: errors.New("boom")}
	assert.Equal(t, SourceUnavailable, NewPanelError("map", fmt.Errorf("load: %w", unavailable)).Kind)
	assert.Equal(t, SchemaMismatch, NewPanelError("map", &dataset.SchemaMismatchError{Source: "x", Missing: []string{"a"}}).Kind)
	assert.Equal(t, Internal, NewPanelError("map", errors.New("other")).Kind)
}

func TestRenderPNG(t *testing.T) {
	d := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := []pipeline.Point{{Date: d, Value: 1}, {Date: d.AddDate(0, 0, 1), Value: 4}, {Date: d.AddDate(0, 0, 2), Value: 2}}
	charts := []Chart{
		{ID: "line", Kind: LineChart, Series: []Series{{Name: "a", Kind: LineChart, Color: "#b22222", Points: pts}}},
		{ID: "bar", Kind: BarChart, Series: []Series{
			{Name: "bars", Kind: BarChart, Points: pts},
			{Name: "trend", Kind: LineChart, Points: pipeline.Trend(pts)},
			{Name: "empty", Kind: ScatterChart},
		}},
		{ID: "pie", Kind: PieChart, Slices: []Slice{{"a", 1}, {"b", 3}}},
	}
	for _, c := range charts {
		var buf bytes.Buffer
		require.NoError(t, RenderPNG(c, &buf, DefaultWidth/2, DefaultHeight/2), c.ID)
		_, err := png.Decode(&buf)
		assert.NoError(t, err, c.ID)
	}

	err := RenderPNG(Chart{ID: "map", Kind: ChoroplethChart}, &bytes.Buffer{}, DefaultWidth, DefaultHeight)
	assert.ErrorIs(t, err, ErrNotRenderable)
}
