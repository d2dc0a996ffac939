package pipeline

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
)

var log = logrus.WithField("prefix", "pipeline")

// Marker sizing defaults.
const (
	DefaultMarkerScale     = 1e7
	DefaultMarkerMinRadius = 2
)

// GeoPoint is one country placed on the map.
type GeoPoint struct {
	Key       string              `json:"key"`
	Code      string              `json:"code,omitempty"`
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
	Radius    float64             `json:"radius"`
	Totals    map[string]*float64 `json:"totals"`
	Trailing  map[string]float64  `json:"trailing"`
}

// JoinStats counts aggregate keys that found no located coordinate.
type JoinStats struct {
	Matched    int      `json:"matched"`
	Missed     int      `json:"missed"`
	MissedKeys []string `json:"missed_keys,omitempty"`
}

// GeoJoiner places per-key aggregates of a table on the map.
type GeoJoiner[R dataset.Row] struct {
	// Totals are aggregated per key with their table reducer.
	Totals []Field[R]
	// Flows are summed over the trailing window for each matched key.
	Flows []Field[R]
	// SizeBy picks the total that drives the marker radius.
	SizeBy    Field[R]
	Scale     float64
	MinRadius float64
}

// Join left-joins the per-key aggregates of source against coords on the
// exact coordinate name. Keys without a located coordinate are dropped from
// the points and reported in the stats. Trailing flows for each point are
// computed from source filtered to that key alone.
func (j GeoJoiner[R]) Join(source dataset.Table[R], coords []dataset.Coordinate, trailing Window) ([]GeoPoint, JoinStats) {
	index := make(map[string]dataset.Coordinate, len(coords))
	for _, c := range coords {
		if !c.Located() {
			continue
		}
		if _, dup := index[c.Name]; !dup {
			index[c.Name] = c
		}
	}

	totals := j.Totals
	if j.SizeBy.Value != nil && !hasField(totals, j.SizeBy.Name) {
		totals = append(append([]Field[R](nil), totals...), j.SizeBy)
	}

	var stats JoinStats
	points := make([]GeoPoint, 0)
	for _, g := range GroupByKey(source, totals...) {
		c, ok := index[g.Key]
		if !ok {
			stats.Missed++
			stats.MissedKeys = append(stats.MissedKeys, g.Key)
			continue
		}
		stats.Matched++

		sub := Filter(source, g.Key)
		flows := make(map[string]float64, len(j.Flows))
		for _, f := range j.Flows {
			flows[f.Name] = WindowSum(sub, f, trailing)
		}
		points = append(points, GeoPoint{
			Key:       g.Key,
			Code:      c.Country,
			Latitude:  *c.Latitude,
			Longitude: *c.Longitude,
			Radius:    j.radius(g.Values[j.SizeBy.Name]),
			Totals:    g.Values,
			Trailing:  flows,
		})
	}

	if stats.Missed > 0 {
		log.WithFields(logrus.Fields{
			"source":  source.Source,
			"matched": stats.Matched,
			"missed":  stats.Missed,
		}).Debug("keys without coordinates left off the map")
	}
	return points, stats
}

func (j GeoJoiner[R]) radius(v *float64) float64 {
	scale, floor := j.Scale, j.MinRadius
	if scale <= 0 {
		scale = DefaultMarkerScale
	}
	if floor <= 0 {
		floor = DefaultMarkerMinRadius
	}
	if v == nil {
		return floor
	}
	return math.Max(*v/scale, floor)
}

func hasField[R dataset.Row](fields []Field[R], name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
