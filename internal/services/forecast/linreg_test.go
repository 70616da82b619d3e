package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/services/indicators"
)

func linearBars(n int) []models.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.Bar{
			Date: start.AddDate(0, 0, i), Symbol: "BTC-USD",
			Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	return bars
}

func TestForecastLinearTrend(t *testing.T) {
	m := NewLinearRegression()
	note, err := m.Forecast(context.Background(), linearBars(120), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(note.Points) != 7 {
		t.Fatalf("expected 7 forecast points, got %d", len(note.Points))
	}
	if note.Model != "linear_regression" {
		t.Fatalf("unexpected model label %q", note.Model)
	}
	// A perfectly linear series should fit almost exactly.
	if note.RMSE > 0.5 {
		t.Fatalf("RMSE too high for a linear series: %v", note.RMSE)
	}
	last := 100.0 + 119
	for i, p := range note.Points {
		if p.Value <= last-5 {
			t.Fatalf("forecast point %d does not continue the trend: %v", i, p.Value)
		}
		last = p.Value
	}
	// Dates continue day by day past the last bar.
	if !note.Points[0].Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 120)) {
		t.Fatalf("first forecast date wrong: %v", note.Points[0].Date)
	}
}

func TestForecastRestartable(t *testing.T) {
	m := NewLinearRegression()
	bars := linearBars(120)
	a, err := m.Forecast(context.Background(), bars, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.Forecast(context.Background(), bars, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("forecast must be restartable: %v vs %v", a.Points[i], b.Points[i])
		}
	}
}

func TestForecastInsufficientHistory(t *testing.T) {
	m := NewLinearRegression()
	if _, err := m.Forecast(context.Background(), linearBars(20), 3); !errors.Is(err, indicators.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
