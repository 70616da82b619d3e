package indicators

import (
	"errors"
	"math"
	"testing"
)

func TestReturnsValues(t *testing.T) {
	closes := []float64{100, 110, 99, 99}
	rets, err := Returns(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rets) != len(closes)-1 {
		t.Fatalf("expected %d returns, got %d", len(closes)-1, len(rets))
	}
	for i := 1; i < len(closes); i++ {
		want := closes[i]/closes[i-1] - 1
		if rets[i-1] != want {
			t.Fatalf("return[%d] = %v, want %v", i-1, rets[i-1], want)
		}
	}
}

func TestReturnsInsufficientData(t *testing.T) {
	if _, err := Returns([]float64{100}); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := Returns(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRollingVolatilityBoundary(t *testing.T) {
	rets := make([]float64, 20)
	for i := range rets {
		rets[i] = float64(i%3) * 0.01
	}
	const window = 14
	vol := RollingVolatility(rets, window, 252)
	if len(vol) != len(rets) {
		t.Fatalf("length mismatch: %d vs %d", len(vol), len(rets))
	}
	for i := 0; i < window-1; i++ {
		if Defined(vol[i]) {
			t.Fatalf("vol[%d] should be undefined before the window fills", i)
		}
	}
	for i := window - 1; i < len(vol); i++ {
		if !Defined(vol[i]) {
			t.Fatalf("vol[%d] should be defined", i)
		}
	}
}

func TestRollingVolatilityAnnualization(t *testing.T) {
	rets := []float64{0.01, -0.02, 0.03, -0.01}
	vol := RollingVolatility(rets, 4, 252)
	want := sampleStd(rets) * math.Sqrt(252)
	if math.Abs(vol[3]-want) > 1e-12 {
		t.Fatalf("vol[3] = %v, want %v", vol[3], want)
	}
}

func TestRollingVolatilityShortHistory(t *testing.T) {
	vol := RollingVolatility([]float64{0.01, 0.02}, 14, 252)
	for i, v := range vol {
		if Defined(v) {
			t.Fatalf("vol[%d] should be undefined with history shorter than the window", i)
		}
	}
}
