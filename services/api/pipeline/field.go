package pipeline

import (
	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
)

// Kind classifies a numeric column by how it aggregates.
type Kind int

const (
	// Flow is a per-period delta (new cases, daily vaccinations).
	Flow Kind = iota
	// Cumulative is a running total per country.
	Cumulative
	// Rate is a normalized value such as per-hundred or per-million.
	Rate
)

func (k Kind) String() string {
	switch k {
	case Flow:
		return "flow"
	case Cumulative:
		return "cumulative"
	case Rate:
		return "rate"
	}
	return "unknown"
}

// TableReducer is how a field collapses over a whole table or a time period:
// flows sum, cumulative fields take the max, rates average.
func (k Kind) TableReducer() Reducer {
	switch k {
	case Cumulative:
		return ReduceMax
	case Rate:
		return ReduceMean
	}
	return ReduceSum
}

// SnapshotReducer is how a field collapses across the rows sharing one day:
// counts sum, rates average.
func (k Kind) SnapshotReducer() Reducer {
	if k == Rate {
		return ReduceMean
	}
	return ReduceSum
}

// Field is a named numeric accessor over rows of type R.
type Field[R dataset.Row] struct {
	Name  string
	Kind  Kind
	Value func(R) *float64
}

// Case fields.
var (
	NewCases = Field[dataset.CaseRecord]{Name: "new_cases", Kind: Flow,
		Value: func(r dataset.CaseRecord) *float64 { return r.NewCases }}
	NewDeaths = Field[dataset.CaseRecord]{Name: "new_deaths", Kind: Flow,
		Value: func(r dataset.CaseRecord) *float64 { return r.NewDeaths }}
	CumulativeCases = Field[dataset.CaseRecord]{Name: "cumulative_cases", Kind: Cumulative,
		Value: func(r dataset.CaseRecord) *float64 { return r.CumulativeCases }}
	CumulativeDeaths = Field[dataset.CaseRecord]{Name: "cumulative_deaths", Kind: Cumulative,
		Value: func(r dataset.CaseRecord) *float64 { return r.CumulativeDeaths }}
)

// Vaccination fields.
var (
	TotalVaccinations = Field[dataset.VaccinationRecord]{Name: "total_vaccinations", Kind: Cumulative,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.TotalVaccinations }}
	PeopleVaccinated = Field[dataset.VaccinationRecord]{Name: "people_vaccinated", Kind: Cumulative,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.PeopleVaccinated }}
	PeopleFullyVaccinated = Field[dataset.VaccinationRecord]{Name: "people_fully_vaccinated", Kind: Cumulative,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.PeopleFullyVaccinated }}
	DailyVaccinations = Field[dataset.VaccinationRecord]{Name: "daily_vaccinations", Kind: Flow,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.DailyVaccinations }}
	DailyPeopleVaccinated = Field[dataset.VaccinationRecord]{Name: "daily_people_vaccinated", Kind: Flow,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.DailyPeopleVaccinated }}
	PeopleVaccinatedPerHundred = Field[dataset.VaccinationRecord]{Name: "people_vaccinated_per_hundred", Kind: Rate,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.PeopleVaccinatedPerHundred }}
	PeopleFullyVaccinatedPerHundred = Field[dataset.VaccinationRecord]{Name: "people_fully_vaccinated_per_hundred", Kind: Rate,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.PeopleFullyVaccinatedPerHundred }}
	DailyVaccinationsPerMillion = Field[dataset.VaccinationRecord]{Name: "daily_vaccinations_per_million", Kind: Rate,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.DailyVaccinationsPerMillion }}
	DailyPeopleVaccinatedPerHundred = Field[dataset.VaccinationRecord]{Name: "daily_people_vaccinated_per_hundred", Kind: Rate,
		Value: func(r dataset.VaccinationRecord) *float64 { return r.DailyPeopleVaccinatedPerHundred }}
)

// As returns f aggregated as kind k, keeping its name and accessor.
func (f Field[R]) As(k Kind) Field[R] {
	f.Kind = k
	return f
}
