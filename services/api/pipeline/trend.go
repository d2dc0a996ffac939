package pipeline

import (
	"gonum.org/v1/gonum/stat"
)

const secondsPerDay = 24 * 60 * 60

// Trend fits an ordinary least squares line through points, with x in days
// since the first point, and evaluates it at every point. Fewer than two
// points, or points all on one day, have no trend.
func Trend(points []Point) []Point {
	if len(points) < 2 {
		return nil
	}
	origin := points[0].Date.Unix()
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Date.Unix()-origin) / secondsPerDay
		ys[i] = p.Value
	}
	if stat.Variance(xs, nil) == 0 {
		return nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{Date: p.Date, Value: alpha + beta*xs[i]}
	}
	return out
}

// RollingMean averages each point with the points from the n-1 calendar
// days before it. Points must be in ascending date order; missing days
// shrink the window rather than reaching further back.
func RollingMean(points []Point, n int) []Point {
	if n <= 1 {
		return append([]Point(nil), points...)
	}
	out := make([]Point, len(points))
	var sum float64
	start := 0
	for i, p := range points {
		sum += p.Value
		from := p.Date.AddDate(0, 0, -(n - 1))
		for points[start].Date.Before(from) {
			sum -= points[start].Value
			start++
		}
		out[i] = Point{Date: p.Date, Value: sum / float64(i-start+1)}
	}
	return out
}
