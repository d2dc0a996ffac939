package pipeline

import "time"

// DefaultTrailingDays is the length of the period-over-period windows.
const DefaultTrailingDays = 30

// Window is the half-open day interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside w.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && d.Before(w.End)
}

// Days is the number of calendar days covered by w.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// TrailingWindows returns the window of days days ending at and including
// latest, and the equally long window immediately before it.
func TrailingWindows(latest time.Time, days int) (current, prior Window) {
	if days <= 0 {
		days = DefaultTrailingDays
	}
	end := latest.AddDate(0, 0, 1)
	current = Window{Start: end.AddDate(0, 0, -days), End: end}
	prior = Window{Start: current.Start.AddDate(0, 0, -days), End: current.Start}
	return current, prior
}
