package indicators

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrInsufficientData means a component was handed less history than its
	// window requires. Raised per component, never silently truncated.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMisalignedSeries means two series share no common dates.
	ErrMisalignedSeries = errors.New("misaligned series")
)

// Undefined marks rolling-window indices that have not accumulated enough
// history yet. This is expected steady state at the start of any series,
// not an error.
var Undefined = math.NaN()

// Defined reports whether a series value carries a real observation.
func Defined(v float64) bool { return !math.IsNaN(v) }

// DatedSeries is a value series aligned to calendar dates.
type DatedSeries struct {
	Dates  []time.Time
	Values []float64
}

// Last returns the latest defined value, or Undefined if none exists.
func (s DatedSeries) Last() float64 { return LastDefined(s.Values) }

// LastDefined scans backwards for the latest defined value.
func LastDefined(xs []float64) float64 {
	for i := len(xs) - 1; i >= 0; i-- {
		if Defined(xs[i]) {
			return xs[i]
		}
	}
	return Undefined
}

func undefinedSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = Undefined
	}
	return out
}
