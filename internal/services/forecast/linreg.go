package forecast

import (
	"context"
	"fmt"
	"math"

	"CoinSight/internal/domain/models"
	domsvc "CoinSight/internal/domain/service"
	"CoinSight/internal/services/indicators"
)

// LinearRegression is the baseline price forecaster: ordinary least squares
// over lagged close/return features plus moving-average ratios and rolling
// volatilities, forecasting iteratively one step at a time.
type LinearRegression struct {
	lags    []int
	windows []int
}

// NewLinearRegression builds the forecaster with its default feature set.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{lags: []int{1, 2, 3}, windows: []int{7, 30}}
}

func (m *LinearRegression) minHistory() int {
	longest := 0
	for _, w := range m.windows {
		if w > longest {
			longest = w
		}
	}
	// longest window of returns plus one forecast target
	return longest + 2
}

// Forecast fits the model on the full history and extends it `steps` days
// past the last bar. The returned note carries training-fit metrics so
// consumers can judge how seriously to take the points.
func (m *LinearRegression) Forecast(ctx context.Context, bars []models.Bar, steps int) (*models.ForecastNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bars) < m.minHistory()*2 {
		return nil, fmt.Errorf("%w: need at least %d bars to fit, got %d",
			indicators.ErrInsufficientData, m.minHistory()*2, len(bars))
	}

	closes := models.Closes(bars)
	rows, targets := m.supervised(closes)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no usable feature rows", indicators.ErrInsufficientData)
	}

	coef, err := fitOLS(rows, targets)
	if err != nil {
		return nil, fmt.Errorf("fit regression: %w", err)
	}

	note := &models.ForecastNote{Model: "linear_regression"}
	var sqErr, absErr float64
	for i, row := range rows {
		pred := dot(coef, row)
		diff := pred - targets[i]
		sqErr += diff * diff
		absErr += math.Abs(diff)
	}
	note.RMSE = math.Sqrt(sqErr / float64(len(rows)))
	note.MAE = absErr / float64(len(rows))

	// Iterative forecast: each predicted close becomes history for the next.
	working := append([]float64(nil), closes...)
	lastDate := bars[len(bars)-1].Date
	for s := 0; s < steps; s++ {
		row := m.featureRow(working, len(working)-1)
		if row == nil {
			return nil, fmt.Errorf("%w: history too short to roll the forecast", indicators.ErrInsufficientData)
		}
		pred := dot(coef, row)
		lastDate = lastDate.AddDate(0, 0, 1)
		note.Points = append(note.Points, models.ForecastPoint{Date: lastDate, Value: pred})
		working = append(working, pred)
	}
	return note, nil
}

// supervised builds the design matrix: one row per index with every feature
// defined, target = next day's close.
func (m *LinearRegression) supervised(closes []float64) (rows [][]float64, targets []float64) {
	for i := 0; i < len(closes)-1; i++ {
		row := m.featureRow(closes, i)
		if row == nil {
			continue
		}
		rows = append(rows, row)
		targets = append(targets, closes[i+1])
	}
	return rows, targets
}

// featureRow computes the feature vector at index i, or nil when any lag or
// window reaches past the start of the series. Leading 1 is the intercept.
func (m *LinearRegression) featureRow(closes []float64, i int) []float64 {
	longest := 0
	for _, w := range m.windows {
		if w > longest {
			longest = w
		}
	}
	if i < longest+1 { // window of returns needs one extra close
		return nil
	}
	row := []float64{1}
	for _, lag := range m.lags {
		row = append(row, closes[i-lag])
		row = append(row, closes[i-lag+1]/closes[i-lag]-1)
	}
	for _, w := range m.windows {
		var sum float64
		for j := i - w + 1; j <= i; j++ {
			sum += closes[j]
		}
		ma := sum / float64(w)
		row = append(row, ma/closes[i]-1)

		rets := make([]float64, 0, w)
		for j := i - w + 1; j <= i; j++ {
			rets = append(rets, closes[j]/closes[j-1]-1)
		}
		row = append(row, std(rets))
	}
	return row
}

// fitOLS solves the normal equations (X'X + eps*I) b = X'y. The tiny ridge
// term keeps collinear feature sets (e.g. perfectly trending prices) solvable.
func fitOLS(rows [][]float64, y []float64) ([]float64, error) {
	k := len(rows[0])
	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	xty := make([]float64, k)
	for r, row := range rows {
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * y[r]
		}
	}
	const eps = 1e-8
	for i := 0; i < k; i++ {
		xtx[i][i] += eps
	}
	return solve(xtx, xty)
}

// solve runs Gaussian elimination with partial pivoting.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-15 {
			return nil, fmt.Errorf("singular design matrix at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func std(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	m := sum / float64(len(xs))
	var acc float64
	for _, x := range xs {
		acc += (x - m) * (x - m)
	}
	return math.Sqrt(acc / float64(len(xs)-1))
}

var _ domsvc.Forecaster = (*LinearRegression)(nil)
