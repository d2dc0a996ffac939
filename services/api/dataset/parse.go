package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names of the WHO case/death time series.
const (
	colDateReported     = "Date_reported"
	colCountryCode      = "Country_code"
	colCountry          = "Country"
	colWHORegion        = "WHO_region"
	colNewCases         = "New_cases"
	colCumulativeCases  = "Cumulative_cases"
	colNewDeaths        = "New_deaths"
	colCumulativeDeaths = "Cumulative_deaths"
)

// Column names of the vaccination feed.
const (
	colLocation                        = "location"
	colISOCode                         = "iso_code"
	colDate                            = "date"
	colTotalVaccinations               = "total_vaccinations"
	colPeopleVaccinated                = "people_vaccinated"
	colPeopleFullyVaccinated           = "people_fully_vaccinated"
	colDailyVaccinations               = "daily_vaccinations"
	colDailyPeopleVaccinated           = "daily_people_vaccinated"
	colPeopleVaccinatedPerHundred      = "people_vaccinated_per_hundred"
	colPeopleFullyVaccinatedPerHundred = "people_fully_vaccinated_per_hundred"
	colDailyVaccinationsPerMillion     = "daily_vaccinations_per_million"
	colDailyPeopleVaccinatedPerHundred = "daily_people_vaccinated_per_hundred"
)

// Column names of the country coordinate reference table.
const (
	colCoordCountry = "country"
	colLatitude     = "latitude"
	colLongitude    = "longitude"
	colName         = "name"
)

var dayLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// ParseDay parses a date cell and truncates it to a UTC calendar day.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseValue converts a numeric cell. Blank and NaN cells are nil with ok set;
// cells that are not numbers are nil with ok unset.
func parseValue(s string) (v *float64, ok bool) {
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return nil, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// ParseStats counts cells that were present but could not be parsed.
type ParseStats struct {
	Rows       int
	BadNumbers int
}

type numberParser struct {
	stats *ParseStats
}

func (p numberParser) value(rec []string, i int) *float64 {
	v, ok := parseValue(cell(rec, i))
	if !ok {
		p.stats.BadNumbers++
	}
	return v
}

func parseDate(f Frame, rec []string, i, row int) (time.Time, error) {
	d, err := ParseDay(cell(rec, i))
	if err != nil {
		return time.Time{}, &SchemaMismatchError{Source: f.Source, Detail: fmt.Sprintf("row %d: %v", row+2, err)}
	}
	return d, nil
}

// ParseCases converts a frame of the WHO time series into case records.
func ParseCases(f Frame) (Table[CaseRecord], ParseStats, error) {
	idx, err := f.columns(
		[]string{colDateReported, colCountry, colNewCases, colCumulativeCases, colNewDeaths, colCumulativeDeaths},
		[]string{colCountryCode, colWHORegion},
	)
	if err != nil {
		return Table[CaseRecord]{}, ParseStats{}, err
	}

	stats := ParseStats{Rows: len(f.Rows)}
	num := numberParser{stats: &stats}
	rows := make([]CaseRecord, 0, len(f.Rows))
	for i, rec := range f.Rows {
		d, err := parseDate(f, rec, idx[colDateReported], i)
		if err != nil {
			return Table[CaseRecord]{}, stats, err
		}
		rows = append(rows, CaseRecord{
			Country:          cell(rec, idx[colCountry]),
			CountryCode:      cell(rec, idx[colCountryCode]),
			WHORegion:        cell(rec, idx[colWHORegion]),
			Date:             d,
			NewCases:         num.value(rec, idx[colNewCases]),
			CumulativeCases:  num.value(rec, idx[colCumulativeCases]),
			NewDeaths:        num.value(rec, idx[colNewDeaths]),
			CumulativeDeaths: num.value(rec, idx[colCumulativeDeaths]),
		})
	}
	return Table[CaseRecord]{Source: f.Source, Rows: rows}, stats, nil
}

// ParseVaccinations converts a frame of the vaccination feed into records.
func ParseVaccinations(f Frame) (Table[VaccinationRecord], ParseStats, error) {
	idx, err := f.columns([]string{
		colLocation,
		colISOCode,
		colDate,
		colTotalVaccinations,
		colPeopleVaccinated,
		colPeopleFullyVaccinated,
		colDailyVaccinations,
		colDailyPeopleVaccinated,
		colPeopleVaccinatedPerHundred,
		colPeopleFullyVaccinatedPerHundred,
		colDailyVaccinationsPerMillion,
		colDailyPeopleVaccinatedPerHundred,
	}, nil)
	if err != nil {
		return Table[VaccinationRecord]{}, ParseStats{}, err
	}

	stats := ParseStats{Rows: len(f.Rows)}
	num := numberParser{stats: &stats}
	rows := make([]VaccinationRecord, 0, len(f.Rows))
	for i, rec := range f.Rows {
		d, err := parseDate(f, rec, idx[colDate], i)
		if err != nil {
			return Table[VaccinationRecord]{}, stats, err
		}
		rows = append(rows, VaccinationRecord{
			Location:                        cell(rec, idx[colLocation]),
			ISOCode:                         cell(rec, idx[colISOCode]),
			Date:                            d,
			TotalVaccinations:               num.value(rec, idx[colTotalVaccinations]),
			PeopleVaccinated:                num.value(rec, idx[colPeopleVaccinated]),
			PeopleFullyVaccinated:           num.value(rec, idx[colPeopleFullyVaccinated]),
			DailyVaccinations:               num.value(rec, idx[colDailyVaccinations]),
			DailyPeopleVaccinated:           num.value(rec, idx[colDailyPeopleVaccinated]),
			PeopleVaccinatedPerHundred:      num.value(rec, idx[colPeopleVaccinatedPerHundred]),
			PeopleFullyVaccinatedPerHundred: num.value(rec, idx[colPeopleFullyVaccinatedPerHundred]),
			DailyVaccinationsPerMillion:     num.value(rec, idx[colDailyVaccinationsPerMillion]),
			DailyPeopleVaccinatedPerHundred: num.value(rec, idx[colDailyPeopleVaccinatedPerHundred]),
		})
	}
	return Table[VaccinationRecord]{Source: f.Source, Rows: rows}, stats, nil
}

// ParseCoordinates converts a frame of the country reference table.
func ParseCoordinates(f Frame) ([]Coordinate, ParseStats, error) {
	idx, err := f.columns([]string{colCoordCountry, colLatitude, colLongitude, colName}, nil)
	if err != nil {
		return nil, ParseStats{}, err
	}

	stats := ParseStats{Rows: len(f.Rows)}
	num := numberParser{stats: &stats}
	coords := make([]Coordinate, 0, len(f.Rows))
	for _, rec := range f.Rows {
		coords = append(coords, Coordinate{
			Country:   cell(rec, idx[colCoordCountry]),
			Name:      cell(rec, idx[colName]),
			Latitude:  num.value(rec, idx[colLatitude]),
			Longitude: num.value(rec, idx[colLongitude]),
		})
	}
	return coords, stats, nil
}
