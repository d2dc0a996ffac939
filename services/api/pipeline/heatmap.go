package pipeline

import (
	"sort"
	"time"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
)

// Cell is one key × period bin of a heatmap.
type Cell struct {
	Key    string    `json:"key"`
	Period time.Time `json:"period"`
	Value  float64   `json:"value"`
}

// Heatmap bins f by key and period with the field's table reducer. Bins
// without a present value are omitted. Cells are ordered by key, then period.
func Heatmap[R dataset.Row](t dataset.Table[R], f Field[R], g Granularity) []Cell {
	type bin struct {
		key    string
		period time.Time
	}
	vals := make(map[bin][]float64)
	for _, r := range t.Rows {
		v := f.Value(r)
		if v == nil {
			continue
		}
		b := bin{key: r.Key(), period: g.Period(r.Day())}
		vals[b] = append(vals[b], *v)
	}

	reducer := f.Kind.TableReducer()
	out := make([]Cell, 0, len(vals))
	for b, vs := range vals {
		if v := reducer.Apply(vs); v != nil {
			out = append(out, Cell{Key: b.key, Period: b.period, Value: *v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Period.Before(out[j].Period)
	})
	return out
}
