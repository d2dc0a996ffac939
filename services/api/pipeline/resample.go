package pipeline

import (
	"time"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
)

// Granularity is a resampling period.
type Granularity int

const (
	Daily Granularity = iota
	Monthly
)

func (g Granularity) String() string {
	if g == Monthly {
		return "monthly"
	}
	return "daily"
}

// Period stamps d with the period it belongs to: the day itself, or the
// last day of its calendar month.
func (g Granularity) Period(d time.Time) time.Time {
	if g == Monthly {
		y, m, _ := d.Date()
		return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// Bucket is one resampled period.
type Bucket struct {
	Period time.Time           `json:"period"`
	Rows   int                 `json:"rows"`
	Values map[string]*float64 `json:"values"`
}

// Resample groups rows by period and reduces each field with its table
// reducer, so flows are summed. Buckets are ascending and periods without
// rows are omitted.
func Resample[R dataset.Row](t dataset.Table[R], g Granularity, fields ...Field[R]) []Bucket {
	byPeriod := make(map[time.Time][]R)
	for _, r := range t.Rows {
		p := g.Period(r.Day())
		byPeriod[p] = append(byPeriod[p], r)
	}

	out := make([]Bucket, 0, len(byPeriod))
	for _, p := range sortedDays(byPeriod) {
		rows := byPeriod[p]
		sub := dataset.Table[R]{Source: t.Source, Rows: rows}
		b := Bucket{Period: p, Rows: len(rows), Values: make(map[string]*float64, len(fields))}
		for _, f := range fields {
			b.Values[f.Name] = Reduce(sub, f)
		}
		out = append(out, b)
	}
	return out
}

// Series extracts one field from resampled buckets, skipping missing values.
func Series(buckets []Bucket, name string) []Point {
	out := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		if v := b.Values[name]; v != nil {
			out = append(out, Point{Date: b.Period, Value: *v})
		}
	}
	return out
}
