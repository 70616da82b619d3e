package service

import (
	"context"

	"CoinSight/internal/domain/models"
)

// Forecaster fits a baseline model to a bar history and produces a finite
// sequence of future points with its training-fit metrics. Forecasts are a
// labeled annotation only; recommendation rules never depend on them.
type Forecaster interface {
	Forecast(ctx context.Context, bars []models.Bar, steps int) (*models.ForecastNote, error)
}
