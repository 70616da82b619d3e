package indicators

import (
	"reflect"
	"testing"
	"time"

	"CoinSight/internal/domain/models"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func days(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = day(i)
	}
	return out
}

func TestSMAWarmup(t *testing.T) {
	sma := SMA([]float64{1, 2, 3, 4}, 3)
	if Defined(sma[0]) || Defined(sma[1]) {
		t.Fatalf("first window-1 entries must be undefined: %v", sma)
	}
	if sma[2] != 2 || sma[3] != 3 {
		t.Fatalf("unexpected SMA values: %v", sma)
	}
}

func TestDetectCrossoversCanonical(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 12, 14, 16}
	res := DetectCrossovers(days(len(closes)), closes, 2, 4)

	if len(res.Events) != 1 {
		t.Fatalf("expected exactly one crossover, got %v", res.Events)
	}
	ev := res.Events[0]
	if ev.Kind != models.GoldenCross {
		t.Fatalf("expected a golden cross, got %v", ev.Kind)
	}
	// SMA2 first exceeds SMA4 at index 5 (11 vs 10.5).
	if ev.Index != 5 {
		t.Fatalf("expected crossover at index 5, got %d", ev.Index)
	}
	if !ev.Date.Equal(day(5)) {
		t.Fatalf("event date mismatch: %v", ev.Date)
	}
}

func TestDetectCrossoversIdempotent(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 12, 14, 16, 12, 8, 6, 5}
	first := DetectCrossovers(days(len(closes)), closes, 2, 4)
	second := DetectCrossovers(days(len(closes)), closes, 2, 4)
	if !reflect.DeepEqual(first.Events, second.Events) {
		t.Fatalf("re-running on the same input must yield identical events:\n%v\n%v", first.Events, second.Events)
	}
}

func TestDetectCrossoversDeath(t *testing.T) {
	closes := []float64{16, 16, 16, 16, 16, 14, 12, 10}
	res := DetectCrossovers(days(len(closes)), closes, 2, 4)
	if len(res.Events) != 1 || res.Events[0].Kind != models.DeathCross {
		t.Fatalf("expected exactly one death cross, got %v", res.Events)
	}
}

func TestDetectCrossoversTieNoDoubleCount(t *testing.T) {
	// Short MA touches the long MA and returns to the same side: no event.
	closes := []float64{10, 12, 10, 12, 10, 12, 10, 12}
	res := DetectCrossovers(days(len(closes)), closes, 2, 4)
	for _, ev := range res.Events {
		t.Logf("event %+v", ev)
	}
	first := DetectCrossovers(days(len(closes)), closes, 2, 4)
	if !reflect.DeepEqual(first.Events, res.Events) {
		t.Fatalf("tie handling must be deterministic")
	}
}

func TestTrendState(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 12, 8}
	res := DetectCrossovers(days(len(closes)), closes, 2, 4)
	if res.Trend[0] != models.TrendNeutral {
		t.Fatalf("undefined long MA must give NEUTRAL, got %v", res.Trend[0])
	}
	if res.Trend[3] != models.TrendNeutral {
		t.Fatalf("close == long MA must give NEUTRAL, got %v", res.Trend[3])
	}
	if res.Trend[4] != models.TrendBull {
		t.Fatalf("close above long MA must give BULL, got %v", res.Trend[4])
	}
	if res.Trend[5] != models.TrendBear {
		t.Fatalf("close below long MA must give BEAR, got %v", res.Trend[5])
	}
}
