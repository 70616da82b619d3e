package indicators

import (
	"math"
	"testing"
)

func TestCorrelationMatrix(t *testing.T) {
	n := 10
	up := make([]float64, n)
	down := make([]float64, n)
	for i := 0; i < n; i++ {
		up[i] = float64(i)
		down[i] = float64(n - i)
	}
	series := map[string]DatedSeries{
		"BTC-USD": {Dates: days(n), Values: up},
		"ETH-USD": {Dates: days(n), Values: down},
	}
	symbols, matrix := CorrelationMatrix(series)
	if len(symbols) != 2 || symbols[0] != "BTC-USD" {
		t.Fatalf("symbols not sorted: %v", symbols)
	}
	if matrix[0][0] != 1 || matrix[1][1] != 1 {
		t.Fatalf("diagonal must be 1: %v", matrix)
	}
	if math.Abs(matrix[0][1]-(-1)) > 1e-12 {
		t.Fatalf("perfectly inverse series must correlate at -1, got %v", matrix[0][1])
	}
	if matrix[0][1] != matrix[1][0] {
		t.Fatalf("matrix must be symmetric")
	}
}

func TestCorrelationConstantSeries(t *testing.T) {
	series := map[string]DatedSeries{
		"BTC-USD":  {Dates: days(5), Values: []float64{1, 2, 3, 4, 5}},
		"USDT-USD": {Dates: days(5), Values: []float64{1, 1, 1, 1, 1}},
	}
	_, matrix := CorrelationMatrix(series)
	if Defined(matrix[0][1]) {
		t.Fatalf("constant series must give undefined correlation, got %v", matrix[0][1])
	}
}
