package forecast

import (
	"context"
	"fmt"
	"math"

	"CoinSight/internal/domain/models"
	domsvc "CoinSight/internal/domain/service"
	"CoinSight/internal/services/indicators"
)

// AutoRegressive is the second baseline: an AR(p) model on daily returns,
// fit with the same normal equations as the linear regression and compounded
// back into closes for the forecast points.
type AutoRegressive struct {
	order int
}

// NewAutoRegressive builds an AR forecaster with the given lag order.
func NewAutoRegressive(order int) *AutoRegressive {
	if order <= 0 {
		order = 5
	}
	return &AutoRegressive{order: order}
}

func (m *AutoRegressive) Forecast(ctx context.Context, bars []models.Bar, steps int) (*models.ForecastNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// order lags plus enough rows to make the fit meaningful
	minBars := m.order*3 + 2
	if len(bars) < minBars {
		return nil, fmt.Errorf("%w: need at least %d bars to fit, got %d",
			indicators.ErrInsufficientData, minBars, len(bars))
	}

	closes := models.Closes(bars)
	rets := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		rets[i-1] = closes[i]/closes[i-1] - 1
	}

	var rows [][]float64
	var targets []float64
	for i := m.order; i < len(rets); i++ {
		row := make([]float64, 0, m.order+1)
		row = append(row, 1)
		for lag := 1; lag <= m.order; lag++ {
			row = append(row, rets[i-lag])
		}
		rows = append(rows, row)
		targets = append(targets, rets[i])
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no usable lag rows", indicators.ErrInsufficientData)
	}

	coef, err := fitOLS(rows, targets)
	if err != nil {
		return nil, fmt.Errorf("fit ar: %w", err)
	}

	note := &models.ForecastNote{Model: fmt.Sprintf("ar_%d", m.order)}
	var sqErr, absErr float64
	for i, row := range rows {
		diff := dot(coef, row) - targets[i]
		sqErr += diff * diff
		absErr += math.Abs(diff)
	}
	note.RMSE = math.Sqrt(sqErr / float64(len(rows)))
	note.MAE = absErr / float64(len(rows))

	// Iterative forecast: predicted returns extend the lag history and
	// compound onto the last close.
	working := append([]float64(nil), rets...)
	price := closes[len(closes)-1]
	lastDate := bars[len(bars)-1].Date
	for s := 0; s < steps; s++ {
		row := make([]float64, 0, m.order+1)
		row = append(row, 1)
		for lag := 1; lag <= m.order; lag++ {
			row = append(row, working[len(working)-lag])
		}
		pred := dot(coef, row)
		working = append(working, pred)
		price *= 1 + pred
		lastDate = lastDate.AddDate(0, 0, 1)
		note.Points = append(note.Points, models.ForecastPoint{Date: lastDate, Value: price})
	}
	return note, nil
}

var _ domsvc.Forecaster = (*AutoRegressive)(nil)
