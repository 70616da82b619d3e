package forecast

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/services/indicators"
)

func geometricBars(n int, growth float64) []models.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	c := 100.0
	for i := range bars {
		bars[i] = models.Bar{
			Date: start.AddDate(0, 0, i), Symbol: "BTC-USD",
			Open: c, High: c * 1.01, Low: c * 0.99, Close: c, Volume: 1000,
		}
		c *= 1 + growth
	}
	return bars
}

func TestARForecastConstantGrowth(t *testing.T) {
	m := NewAutoRegressive(5)
	note, err := m.Forecast(context.Background(), geometricBars(120, 0.01), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(note.Points) != 7 {
		t.Fatalf("expected 7 forecast points, got %d", len(note.Points))
	}
	if note.Model != "ar_5" {
		t.Fatalf("unexpected model label %q", note.Model)
	}
	// Constant returns fit exactly; the forecast keeps compounding them.
	if note.RMSE > 1e-6 {
		t.Fatalf("RMSE too high for constant returns: %v", note.RMSE)
	}
	last := geometricBars(120, 0.01)[119].Close
	for i, p := range note.Points {
		if p.Value <= last {
			t.Fatalf("point %d does not continue the growth: %v", i, p.Value)
		}
		ratio := p.Value / last
		if math.Abs(ratio-1.01) > 1e-3 {
			t.Fatalf("point %d growth ratio = %v, want ~1.01", i, ratio)
		}
		last = p.Value
	}
}

func TestARForecastInsufficientHistory(t *testing.T) {
	m := NewAutoRegressive(5)
	if _, err := m.Forecast(context.Background(), geometricBars(10, 0.01), 3); !errors.Is(err, indicators.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
