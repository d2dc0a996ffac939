package pipeline

import (
	"sort"
	"time"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
)

func present[R dataset.Row](rows []R, f Field[R]) []float64 {
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v := f.Value(r); v != nil {
			vals = append(vals, *v)
		}
	}
	return vals
}

// TotalCumulative is the largest present value of a cumulative field.
// Missing values are excluded, so a column with none yields nil.
func TotalCumulative[R dataset.Row](t dataset.Table[R], f Field[R]) *float64 {
	return ReduceMax.Apply(present(t.Rows, f))
}

// WindowSum sums f over the rows dated inside w. Missing values count as 0.
func WindowSum[R dataset.Row](t dataset.Table[R], f Field[R], w Window) float64 {
	var total float64
	for _, r := range t.Rows {
		if !w.Contains(r.Day()) {
			continue
		}
		if v := f.Value(r); v != nil {
			total += *v
		}
	}
	return total
}

// Sum adds f over the whole table. Missing values count as 0.
func Sum[R dataset.Row](t dataset.Table[R], f Field[R]) float64 {
	var total float64
	for _, v := range present(t.Rows, f) {
		total += v
	}
	return total
}

// Mean averages the present values of f; nil when none are present.
func Mean[R dataset.Row](t dataset.Table[R], f Field[R]) *float64 {
	return ReduceMean.Apply(present(t.Rows, f))
}

// Reduce collapses f over the whole table with the reducer its kind declares.
// Flow fields over an empty or all-missing table are 0.
func Reduce[R dataset.Row](t dataset.Table[R], f Field[R]) *float64 {
	v := f.Kind.TableReducer().Apply(present(t.Rows, f))
	if v == nil && f.Kind == Flow {
		return ptr(0)
	}
	return v
}

// LatestDate is the largest report day in t.
func LatestDate[R dataset.Row](t dataset.Table[R]) (time.Time, bool) {
	var latest time.Time
	for i, r := range t.Rows {
		if d := r.Day(); i == 0 || d.After(latest) {
			latest = d
		}
	}
	return latest, len(t.Rows) > 0
}

// Snapshot returns the rows dated on the latest day of t.
func Snapshot[R dataset.Row](t dataset.Table[R]) dataset.Table[R] {
	out := dataset.Table[R]{Source: t.Source, Rows: make([]R, 0)}
	latest, ok := LatestDate(t)
	if !ok {
		return out
	}
	for _, r := range t.Rows {
		if r.Day().Equal(latest) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// ReduceSnapshot collapses f across the latest-day rows: counts sum and
// rates average. Only missing values yield nil.
func ReduceSnapshot[R dataset.Row](t dataset.Table[R], f Field[R]) *float64 {
	return f.Kind.SnapshotReducer().Apply(present(Snapshot(t).Rows, f))
}

// Point is one dated value of a series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// DailySeries reduces f per day across all rows of that day with the
// snapshot reducer. Days where f is missing on every row are omitted.
func DailySeries[R dataset.Row](t dataset.Table[R], f Field[R]) []Point {
	byDay := make(map[time.Time][]float64)
	for _, r := range t.Rows {
		d := r.Day()
		if _, ok := byDay[d]; !ok {
			byDay[d] = nil
		}
		if v := f.Value(r); v != nil {
			byDay[d] = append(byDay[d], *v)
		}
	}

	reducer := f.Kind.SnapshotReducer()
	out := make([]Point, 0, len(byDay))
	for _, d := range sortedDays(byDay) {
		if v := reducer.Apply(byDay[d]); v != nil {
			out = append(out, Point{Date: d, Value: *v})
		}
	}
	return out
}

// Group is the aggregate of one key.
type Group struct {
	Key    string              `json:"key"`
	Values map[string]*float64 `json:"values"`
}

// GroupByKey aggregates each field per key with the field's table reducer.
// Groups are ordered by key.
func GroupByKey[R dataset.Row](t dataset.Table[R], fields ...Field[R]) []Group {
	byKey := make(map[string][]R)
	for _, r := range t.Rows {
		byKey[r.Key()] = append(byKey[r.Key()], r)
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Group, 0, len(keys))
	for _, k := range keys {
		sub := dataset.Table[R]{Source: t.Source, Rows: byKey[k]}
		g := Group{Key: k, Values: make(map[string]*float64, len(fields))}
		for _, f := range fields {
			g.Values[f.Name] = Reduce(sub, f)
		}
		out = append(out, g)
	}
	return out
}

// LatestByKey returns, for each key, the value of f on the most recent day
// where it is present. Keys without any present value are omitted.
func LatestByKey[R dataset.Row](t dataset.Table[R], f Field[R]) map[string]float64 {
	type dated struct {
		day time.Time
		v   float64
	}
	latest := make(map[string]dated)
	for _, r := range t.Rows {
		v := f.Value(r)
		if v == nil {
			continue
		}
		cur, ok := latest[r.Key()]
		if !ok || r.Day().After(cur.day) {
			latest[r.Key()] = dated{day: r.Day(), v: *v}
		}
	}
	out := make(map[string]float64, len(latest))
	for k, d := range latest {
		out[k] = d.v
	}
	return out
}

func sortedDays[V any](m map[time.Time]V) []time.Time {
	days := make([]time.Time, 0, len(m))
	for d := range m {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
