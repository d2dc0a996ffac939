package pipeline

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reducer collapses the present values of a column into one value.
type Reducer int

const (
	ReduceSum Reducer = iota
	ReduceMean
	ReduceMax
)

func (r Reducer) String() string {
	switch r {
	case ReduceSum:
		return "sum"
	case ReduceMean:
		return "mean"
	case ReduceMax:
		return "max"
	}
	return "unknown"
}

// Apply reduces vals. An empty input has no value and yields nil, never zero.
func (r Reducer) Apply(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	var v float64
	switch r {
	case ReduceMean:
		v = stat.Mean(vals, nil)
	case ReduceMax:
		v = floats.Max(vals)
	default:
		v = floats.Sum(vals)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func ptr(v float64) *float64 {
	return &v
}

// Value dereferences v, reporting whether it was present.
func Value(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
