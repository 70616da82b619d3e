package indicators

import (
	"math"
	"sort"
	"time"
)

// CorrelationMatrix computes pairwise Pearson correlations of the given
// dated series, each pair aligned on its own date intersection. Symbols are
// returned sorted so the matrix layout is stable across runs. Pairs with
// fewer than two common points, or with a constant series, yield Undefined.
func CorrelationMatrix(series map[string]DatedSeries) ([]string, [][]float64) {
	symbols := make([]string, 0, len(series))
	for s := range series {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	matrix := make([][]float64, len(symbols))
	for i := range matrix {
		matrix[i] = make([]float64, len(symbols))
		matrix[i][i] = 1
	}
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			r := pearson(series[symbols[i]], series[symbols[j]])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return symbols, matrix
}

func pearson(a, b DatedSeries) float64 {
	bv := make(map[time.Time]float64, len(b.Dates))
	for i, d := range b.Dates {
		bv[d] = b.Values[i]
	}
	var xs, ys []float64
	for i, d := range a.Dates {
		if v, ok := bv[d]; ok {
			xs = append(xs, a.Values[i])
			ys = append(ys, v)
		}
	}
	if len(xs) < 2 {
		return Undefined
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return Undefined
	}
	return sxy / math.Sqrt(sxx*syy)
}
