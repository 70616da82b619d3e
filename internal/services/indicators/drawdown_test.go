package indicators

import (
	"math"
	"testing"
)

func TestDrawdownsNonPositive(t *testing.T) {
	closes := []float64{100, 120, 90, 95, 130, 110}
	dd, maxDD := Drawdowns(closes, 90)
	for i := range closes {
		if dd[i] > 0 {
			t.Fatalf("drawdown[%d] = %v > 0", i, dd[i])
		}
		if maxDD[i] > 0 {
			t.Fatalf("max drawdown[%d] = %v > 0", i, maxDD[i])
		}
		if maxDD[i] > dd[i] && dd[i] < maxDD[i] {
			t.Fatalf("max drawdown[%d] = %v not the window minimum", i, maxDD[i])
		}
	}
}

func TestDrawdownZeroAtPeak(t *testing.T) {
	closes := []float64{100, 120, 90, 130}
	dd, _ := Drawdowns(closes, 90)
	if dd[1] != 0 {
		t.Fatalf("drawdown at new peak should be 0, got %v", dd[1])
	}
	if dd[3] != 0 {
		t.Fatalf("drawdown at new peak should be 0, got %v", dd[3])
	}
	want := 90.0/120.0 - 1
	if math.Abs(dd[2]-want) > 1e-12 {
		t.Fatalf("drawdown[2] = %v, want %v", dd[2], want)
	}
}

func TestDrawdownSinglePointWindow(t *testing.T) {
	closes := []float64{100, 50, 25}
	dd, maxDD := Drawdowns(closes, 1)
	for i := range closes {
		if dd[i] != 0 || maxDD[i] != 0 {
			t.Fatalf("single-point window must give 0, got dd=%v max=%v at %d", dd[i], maxDD[i], i)
		}
	}
}

func TestDrawdownTrailingWindow(t *testing.T) {
	// Peak at 200 falls out of a 2-bar window by the last index.
	closes := []float64{200, 100, 100}
	dd, _ := Drawdowns(closes, 2)
	if dd[1] != 100.0/200.0-1 {
		t.Fatalf("dd[1] = %v", dd[1])
	}
	if dd[2] != 0 {
		t.Fatalf("peak outside the trailing window must not count, dd[2] = %v", dd[2])
	}
}
