package indicators

import (
	"math"
	"testing"
)

func TestRollingSharpeValue(t *testing.T) {
	rets := []float64{0.01, 0.02, 0.03, -0.01}
	const window = 2
	vol := RollingVolatility(rets, window, 252)
	sharpe := RollingSharpe(rets, vol, window, 0, 252)

	if Defined(sharpe[0]) {
		t.Fatalf("sharpe[0] should be undefined before the window fills")
	}
	want := mean(rets[0:2]) * 252 / vol[1]
	if math.Abs(sharpe[1]-want) > 1e-12 {
		t.Fatalf("sharpe[1] = %v, want %v", sharpe[1], want)
	}
}

func TestRollingSharpeZeroVolatility(t *testing.T) {
	// Flat market: constant returns give zero stddev. Legitimate, not an error.
	rets := []float64{0.01, 0.01, 0.01, 0.01}
	vol := RollingVolatility(rets, 2, 252)
	sharpe := RollingSharpe(rets, vol, 2, 0, 252)
	for i, s := range sharpe {
		if Defined(s) {
			t.Fatalf("sharpe[%d] must be undefined on zero volatility, got %v", i, s)
		}
	}
}

func TestRollingSharpeRiskFree(t *testing.T) {
	rets := []float64{0.01, 0.02}
	vol := RollingVolatility(rets, 2, 252)
	withRF := RollingSharpe(rets, vol, 2, 0.05, 252)
	noRF := RollingSharpe(rets, vol, 2, 0, 252)
	if withRF[1] >= noRF[1] {
		t.Fatalf("positive risk-free rate must lower the ratio: %v vs %v", withRF[1], noRF[1])
	}
}
