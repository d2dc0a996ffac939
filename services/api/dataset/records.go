package dataset

import "time"

// Row is one observation keyed by country (or location) and report day.
type Row interface {
	Key() string
	Day() time.Time
}

// Table is an in-memory table loaded from a single source.
type Table[R Row] struct {
	Source string
	Rows   []R
}

// Len returns the number of rows.
func (t Table[R]) Len() int {
	return len(t.Rows)
}

// CaseRecord is one (country, day) row of the case/death time series.
// Numeric cells are nil when the source left them blank.
type CaseRecord struct {
	Country          string    `json:"country"`
	CountryCode      string    `json:"country_code,omitempty"`
	WHORegion        string    `json:"who_region,omitempty"`
	Date             time.Time `json:"date"`
	NewCases         *float64  `json:"new_cases,omitempty"`
	CumulativeCases  *float64  `json:"cumulative_cases,omitempty"`
	NewDeaths        *float64  `json:"new_deaths,omitempty"`
	CumulativeDeaths *float64  `json:"cumulative_deaths,omitempty"`
}

func (r CaseRecord) Key() string    { return r.Country }
func (r CaseRecord) Day() time.Time { return r.Date }

// VaccinationRecord is one (location, day) row of the vaccination feed.
type VaccinationRecord struct {
	Location                        string    `json:"location"`
	ISOCode                         string    `json:"iso_code"`
	Date                            time.Time `json:"date"`
	TotalVaccinations               *float64  `json:"total_vaccinations,omitempty"`
	PeopleVaccinated                *float64  `json:"people_vaccinated,omitempty"`
	PeopleFullyVaccinated           *float64  `json:"people_fully_vaccinated,omitempty"`
	DailyVaccinations               *float64  `json:"daily_vaccinations,omitempty"`
	DailyPeopleVaccinated           *float64  `json:"daily_people_vaccinated,omitempty"`
	PeopleVaccinatedPerHundred      *float64  `json:"people_vaccinated_per_hundred,omitempty"`
	PeopleFullyVaccinatedPerHundred *float64  `json:"people_fully_vaccinated_per_hundred,omitempty"`
	DailyVaccinationsPerMillion     *float64  `json:"daily_vaccinations_per_million,omitempty"`
	DailyPeopleVaccinatedPerHundred *float64  `json:"daily_people_vaccinated_per_hundred,omitempty"`
}

func (r VaccinationRecord) Key() string    { return r.Location }
func (r VaccinationRecord) Day() time.Time { return r.Date }

// Coordinate maps a country name to a point. Latitude or Longitude is nil
// when the reference table leaves it blank.
type Coordinate struct {
	Country   string   `json:"country"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Located reports whether both coordinates are known.
func (c Coordinate) Located() bool {
	return c.Latitude != nil && c.Longitude != nil
}
