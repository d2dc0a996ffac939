package pages

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

type fakeSource struct {
	cases     dataset.Table[dataset.CaseRecord]
	vax       dataset.Table[dataset.VaccinationRecord]
	coords    []dataset.Coordinate
	casesErr  error
	vaxErr    error
	coordsErr error
}

func (s *fakeSource) Cases(context.Context) (dataset.Table[dataset.CaseRecord], error) {
	return s.cases, s.casesErr
}

func (s *fakeSource) Vaccinations(context.Context) (dataset.Table[dataset.VaccinationRecord], error) {
	return s.vax, s.vaxErr
}

func (s *fakeSource) Coordinates(context.Context) ([]dataset.Coordinate, error) {
	return s.coords, s.coordsErr
}

func fp(v float64) *float64 { return &v }

func day(m time.Month, d int) time.Time {
	return time.Date(2021, m, d, 0, 0, 0, 0, time.UTC)
}

func caseRow(country string, d time.Time, newCases, cumCases, newDeaths, cumDeaths float64) dataset.CaseRecord {
	return dataset.CaseRecord{Country: country, Date: d,
		NewCases: fp(newCases), CumulativeCases: fp(cumCases), NewDeaths: fp(newDeaths), CumulativeDeaths: fp(cumDeaths)}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		cases: dataset.Table[dataset.CaseRecord]{Source: "cases.csv", Rows: []dataset.CaseRecord{
			caseRow("A", day(time.January, 1), 10, 10, 1, 1),
			caseRow("A", day(time.February, 15), 20, 30, 1, 2),
			caseRow("B", day(time.March, 31), 100, 100, 10, 10),
			caseRow("A", day(time.March, 31), 5, 35, 0, 2),
		}},
		vax: dataset.Table[dataset.VaccinationRecord]{Source: "vax.csv", Rows: []dataset.VaccinationRecord{
			{Location: "CountryB", ISOCode: "CBB", Date: day(time.May, 1), PeopleVaccinated: fp(50),
				PeopleVaccinatedPerHundred: fp(1), DailyVaccinations: fp(5), TotalVaccinations: fp(50)},
			{Location: "CountryB", ISOCode: "CBB", Date: day(time.May, 2), PeopleVaccinated: fp(100),
				PeopleFullyVaccinated: fp(20), PeopleVaccinatedPerHundred: fp(10), DailyVaccinations: fp(10), TotalVaccinations: fp(120)},
			{Location: "CountryB", ISOCode: "CBB", Date: day(time.May, 2), PeopleVaccinated: fp(200),
				PeopleFullyVaccinated: fp(40), PeopleVaccinatedPerHundred: fp(30), DailyVaccinations: fp(15)},
			{Location: "Atlantis", ISOCode: "ATL", Date: day(time.April, 1), PeopleVaccinated: fp(7), DailyVaccinations: nil},
		}},
		coords: []dataset.Coordinate{
			{Country: "AA", Name: "A", Latitude: fp(10), Longitude: fp(20)},
			{Country: "BB", Name: "b", Latitude: fp(1), Longitude: fp(2)},
		},
	}
}

func newRouter(src Source) *Router {
	return Default(src, present.NewFormatter("en"), Options{})
}

func metric(t *testing.T, v present.View, id string) present.Metric {
	t.Helper()
	for _, m := range v.Metrics {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("metric %s not found", id)
	return present.Metric{}
}

func TestMenuOrder(t *testing.T) {
	menu := newRouter(newFakeSource()).Menu()
	require.Len(t, menu, 4)
	assert.Equal(t, MenuItem{Slug: "home", Title: "Home"}, menu[0])
	assert.Equal(t, "cases", menu[1].Slug)
	assert.Equal(t, "vaccinations", menu[2].Slug)
	assert.Equal(t, "summary", menu[3].Slug)
}

func TestUnknownPage(t *testing.T) {
	_, err := newRouter(newFakeSource()).Render(context.Background(), "testing", pipeline.All)
	assert.ErrorIs(t, err, ErrUnknownPage)
	_, err = newRouter(newFakeSource()).Countries(context.Background(), "testing")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestHomePage(t *testing.T) {
	v, err := newRouter(newFakeSource()).Render(context.Background(), "home", "")
	require.NoError(t, err)
	assert.Equal(t, "Welcome To Covid-19 Dashboard!", v.Title)
	require.Len(t, v.Text, 6)
	assert.Contains(t, v.Text[5], "Çukurova University")
	assert.Equal(t, pipeline.All, v.Selector)
}

func TestCasesPageAll(t *testing.T) {
	v, err := newRouter(newFakeSource()).Render(context.Background(), "cases", pipeline.All)
	require.NoError(t, err)

	require.NotNil(t, v.LatestDate)
	assert.Equal(t, day(time.March, 31), *v.LatestDate)
	assert.Equal(t, "Last Working Time: 31.03.2021 00:00", v.Updated)
	assert.Equal(t, "100", metric(t, v, "TotalCases").Value)
	assert.Equal(t, "10", metric(t, v, "TotalDeaths").Value)
	assert.Equal(t, "10.00", metric(t, v, "CaseFatalityRate").Value)

	lastCases := metric(t, v, "LastMonthCases")
	assert.Equal(t, "105", lastCases.Value)
	assert.Equal(t, "85 🔼", lastCases.Delta)
	assert.Equal(t, "9 🔼", metric(t, v, "LastMonthDeaths").Delta)

	daily, ok := v.Chart("daily")
	require.True(t, ok)
	assert.Equal(t, []pipeline.Point{
		{Date: day(time.January, 1), Value: 10},
		{Date: day(time.February, 15), Value: 20},
		{Date: day(time.March, 31), Value: 105},
	}, daily.Series[0].Points)

	require.Len(t, v.Maps, 1)
	m := v.Maps[0]
	assert.Equal(t, pipeline.JoinStats{Matched: 1, Missed: 1, MissedKeys: []string{"B"}}, m.Join)
	require.Len(t, m.Points, 1)
	assert.Equal(t, "A", m.Points[0].Key)
	assert.Equal(t, 2.0, m.Points[0].Radius)
	assert.Equal(t, "Country: A<br>Total Cases: 35<br>Last Month Cases: 5<br>Total Deaths: 2<br>Last Month Deaths: 0", m.Points[0].Tooltip)
	assert.Empty(t, v.Errors)
}

func TestCasesPageCountry(t *testing.T) {
	v, err := newRouter(newFakeSource()).Render(context.Background(), "cases", "A")
	require.NoError(t, err)

	assert.Equal(t, "35", metric(t, v, "TotalCases").Value)
	assert.Equal(t, "5.71", metric(t, v, "CaseFatalityRate").Value)
	lastCases := metric(t, v, "LastMonthCases")
	assert.Equal(t, "5", lastCases.Value)
	assert.Equal(t, "-15 🔽", lastCases.Delta)
	assert.Equal(t, pipeline.Down, lastCases.Direction)

	monthly, ok := v.Chart("monthly")
	require.True(t, ok)
	assert.Equal(t, []pipeline.Point{
		{Date: day(time.January, 31), Value: 10},
		{Date: day(time.February, 28), Value: 20},
		{Date: day(time.March, 31), Value: 5},
	}, monthly.Series[0].Points)

	require.Len(t, v.Maps, 1)
	assert.Len(t, v.Maps[0].Points, 1, "map ignores the selector")
}

func TestCasesPageEmptySelection(t *testing.T) {
	v, err := newRouter(newFakeSource()).Render(context.Background(), "cases", "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "Unavailable", metric(t, v, "TotalCases").Value)
	assert.Equal(t, "0", metric(t, v, "LastMonthCases").Value)
	assert.Equal(t, "Unavailable", metric(t, v, "CaseFatalityRate").Value)
	daily, _ := v.Chart("daily")
	assert.Empty(t, daily.Series[0].Points)
	assert.Equal(t, "Last Working Time: 31.03.2021 00:00", v.Updated, "stamped from the whole dataset")
}

func TestCasesPageCoordinatesFailure(t *testing.T) {
	src := newFakeSource()
	src.coordsErr = &dataset.SourceUnavailableError{Source: "countries.csv", Err: os.ErrNotExist}

	v, err := newRouter(src).Render(context.Background(), "cases", pipeline.All)
	require.NoError(t, err)
	assert.Empty(t, v.Maps)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, present.PanelError{Panel: "map", Kind: present.SourceUnavailable, Message: src.coordsErr.Error()}, v.Errors[0])
	assert.Len(t, v.Charts, 2, "other panels still render")
}

func TestCasesPageSourceFailure(t *testing.T) {
	src := newFakeSource()
	src.casesErr = &dataset.SchemaMismatchError{Source: "cases.csv", Missing: []string{"Country"}}

	_, err := newRouter(src).Render(context.Background(), "cases", pipeline.All)
	assert.True(t, dataset.IsSchemaMismatch(err))
}

func TestCasesCountries(t *testing.T) {
	got, err := newRouter(newFakeSource()).Countries(context.Background(), "cases")
	require.NoError(t, err)
	assert.Equal(t, []string{pipeline.All, "A", "B"}, got)
}

func TestVaccinationsPage(t *testing.T) {
	v, err := newRouter(newFakeSource()).Render(context.Background(), "vaccinations", "CountryB")
	require.NoError(t, err)

	require.NotNil(t, v.LatestDate)
	assert.Equal(t, day(time.May, 2), *v.LatestDate)
	assert.Equal(t, "Latest Date: 02.05.2021 00:00", v.Updated)
	assert.Equal(t, "300", metric(t, v, "PeopleVaccinated").Value)
	assert.Equal(t, "60", metric(t, v, "PeopleFullyVaccinated").Value)
	assert.Equal(t, "30", metric(t, v, "TotalVaccinations").Value)
	assert.Equal(t, "20.00", metric(t, v, "PeopleVaccinatedPerHundred").Value, "rates are averaged, not summed")
	assert.Equal(t, "10.00", metric(t, v, "DailyVaccinationsAvg").Value)
	assert.Equal(t, "20.00", metric(t, v, "FullyVaccinatedShare").Value)
	assert.Equal(t, "Unavailable", metric(t, v, "PeopleFullyVaccinatedPerHundred").Value)

	pie, ok := v.Chart("fully_vaccinated")
	require.True(t, ok)
	assert.Equal(t, []present.Slice{{Label: "Fully Vaccinated", Value: 60}, {Label: "Not Fully Vaccinated", Value: 0}}, pie.Slices)

	daily, ok := v.Chart("daily_vaccinations")
	require.True(t, ok)
	require.Len(t, daily.Series, 2)
	assert.Equal(t, []pipeline.Point{{Date: day(time.May, 1), Value: 5}, {Date: day(time.May, 2), Value: 25}}, daily.Series[0].Points)
	assert.Equal(t, 15.0, daily.Series[1].Points[1].Value)

	choropleth, ok := v.Chart("total_vaccinations_map")
	require.True(t, ok)
	assert.Equal(t, []present.Region{{Code: "CBB", Label: "CountryB", Value: 120}}, choropleth.Regions)
	assert.Equal(t, "Global Vaccination Map", choropleth.Heading)
	assert.Equal(t, "Total Vaccinations", choropleth.YLabel)
	assert.Equal(t, "CountryB - People Vaccinated Over Time", v.Charts[0].Title)
}

func TestVaccinationsCountriesSorted(t *testing.T) {
	got, err := newRouter(newFakeSource()).Countries(context.Background(), "vaccinations")
	require.NoError(t, err)
	assert.Equal(t, []string{pipeline.All, "Atlantis", "CountryB"}, got)
}

func TestSummaryPartialFailure(t *testing.T) {
	src := newFakeSource()
	src.vaxErr = &dataset.SourceUnavailableError{Source: "https://example.org/v.csv", Err: errors.New("timeout")}

	v, err := newRouter(src).Render(context.Background(), "summary", pipeline.All)
	require.NoError(t, err)
	assert.Equal(t, "100", metric(t, v, "TotalCases").Value)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "vaccinations", v.Errors[0].Panel)

	src.casesErr = errors.New("boom")
	_, err = newRouter(src).Render(context.Background(), "summary", pipeline.All)
	assert.Error(t, err)
}
