package indicators

import (
	"errors"
	"testing"
	"time"

	"CoinSight/internal/domain/models"
)

func TestAnalyzeSpreadIdenticalSeries(t *testing.T) {
	vals := []float64{0.01, -0.02, 0.03, 0.01, -0.01, 0.02}
	a := DatedSeries{Dates: days(len(vals)), Values: vals}
	b := DatedSeries{Dates: days(len(vals)), Values: vals}
	snap, err := AnalyzeSpread("ETH-USD", a, b, 3, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Identical series: spread is constant 0 so stddev is 0 at every index.
	for i, z := range snap.ZScores {
		if Defined(z) {
			t.Fatalf("z[%d] = %v, want undefined (zero stddev)", i, z)
		}
	}
	if snap.Label != "" {
		t.Fatalf("no defined z-score must leave the label empty, got %v", snap.Label)
	}
}

func TestAnalyzeSpreadMisaligned(t *testing.T) {
	a := DatedSeries{Dates: []time.Time{day(0), day(1)}, Values: []float64{1, 2}}
	b := DatedSeries{Dates: []time.Time{day(10), day(11)}, Values: []float64{1, 2}}
	if _, err := AnalyzeSpread("ETH-USD", a, b, 2, 2.0); !errors.Is(err, ErrMisalignedSeries) {
		t.Fatalf("expected ErrMisalignedSeries, got %v", err)
	}
}

func TestAnalyzeSpreadIntersection(t *testing.T) {
	a := DatedSeries{Dates: []time.Time{day(0), day(1), day(2), day(3)}, Values: []float64{1, 2, 3, 4}}
	b := DatedSeries{Dates: []time.Time{day(1), day(2), day(3), day(4)}, Values: []float64{1, 1, 1, 1}}
	snap, err := AnalyzeSpread("ETH-USD", a, b, 2, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Dates) != 3 {
		t.Fatalf("expected 3 common dates, got %d", len(snap.Dates))
	}
	if Defined(snap.ZScores[0]) {
		t.Fatalf("z before the window fills must be undefined")
	}
	if !Defined(snap.ZScores[1]) || !Defined(snap.ZScores[2]) {
		t.Fatalf("z inside the window must be defined: %v", snap.ZScores)
	}
}

func TestSpreadLabelBounds(t *testing.T) {
	cases := []struct {
		z    float64
		want models.SpreadLabel
	}{
		{2.5, models.SpreadStretchedHigh},
		{-2.5, models.SpreadStretchedLow},
		{2.0, models.SpreadNormal},
		{-2.0, models.SpreadNormal},
		{0, models.SpreadNormal},
	}
	for _, c := range cases {
		if got := SpreadLabelFor(c.z, 2.0); got != c.want {
			t.Fatalf("label for z=%v: got %v, want %v", c.z, got, c.want)
		}
	}
}
