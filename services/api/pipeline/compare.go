package pipeline

// Direction is the sign indicator of a period-over-period change.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Comparison is the change between two window values.
type Comparison struct {
	Current   float64   `json:"current"`
	Prior     float64   `json:"prior"`
	Delta     float64   `json:"delta"`
	Direction Direction `json:"direction"`
}

// Compare returns current-prior. Direction is Up only for a strictly
// positive delta; no change reports Down.
func Compare(current, prior float64) Comparison {
	delta := current - prior
	dir := Down
	if delta > 0 {
		dir = Up
	}
	return Comparison{Current: current, Prior: prior, Delta: delta, Direction: dir}
}

// Ratio divides num by den. It is nil when either side is missing or den is 0.
func Ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	return ptr(*num / *den)
}

// Percent is Ratio scaled to 100.
func Percent(num, den *float64) *float64 {
	r := Ratio(num, den)
	if r == nil {
		return nil
	}
	return ptr(*r * 100)
}
