package indicators

import (
	"fmt"
	"math"
)

// Returns computes simple daily returns close[i]/close[i-1]-1.
// The result has length len(closes)-1 and is aligned to closes[1:].
func Returns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 closes, got %d", ErrInsufficientData, len(closes))
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out, nil
}

// RollingVolatility computes the trailing sample standard deviation of
// returns over the given window, annualized by sqrt(tradingDaysPerYear).
// Indices before window-1 are Undefined; the window is never shortened.
func RollingVolatility(returns []float64, window int, tradingDaysPerYear float64) []float64 {
	out := undefinedSlice(len(returns))
	if window < 2 || len(returns) < window {
		return out
	}
	ann := math.Sqrt(tradingDaysPerYear)
	for i := window - 1; i < len(returns); i++ {
		out[i] = sampleStd(returns[i-window+1:i+1]) * ann
	}
	return out
}

// sampleStd is the standard deviation with Bessel's correction.
func sampleStd(xs []float64) float64 {
	n := float64(len(xs))
	var sum, sum2 float64
	for _, x := range xs {
		sum += x
		sum2 += x * x
	}
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
