package pipeline

import (
	"sort"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
)

// All selects every country.
const All = "All"

// Filter returns the rows whose key equals selector, in their original
// order. All returns t itself. An unknown selector yields an empty table.
func Filter[R dataset.Row](t dataset.Table[R], selector string) dataset.Table[R] {
	if selector == All || selector == "" {
		return t
	}
	out := dataset.Table[R]{Source: t.Source, Rows: make([]R, 0)}
	for _, r := range t.Rows {
		if r.Key() == selector {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Countries lists the distinct keys of t with All first. Keys keep their
// first-appearance order unless sorted is set.
func Countries[R dataset.Row](t dataset.Table[R], sorted bool) []string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, r := range t.Rows {
		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if sorted {
		sort.Strings(keys)
	}
	return append([]string{All}, keys...)
}
