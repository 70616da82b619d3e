package models

import "time"

// AnalysisReport is the full per-index output of one symbol's pipeline plus
// the single latest recommendation. Consumers treat it as read-only columnar
// data; nothing in it is re-derived downstream.
// Alignment: Returns, Volatility, Regimes and Sharpe are aligned to Dates[1:]
// (one row per daily return); everything else is aligned to Dates.
// Undefined rolling-window values are NaN, undefined regimes the empty label.
type AnalysisReport struct {
	Symbol      string    `json:"symbol"`
	Pair        string    `json:"pair,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Dates  []time.Time `json:"dates"`
	Closes []float64   `json:"closes"`

	Returns    []float64        `json:"returns"`
	Volatility []float64        `json:"volatility"`
	Regimes    []RegimeLabel    `json:"regimes"`
	Thresholds RegimeThresholds `json:"regime_thresholds"`
	Sharpe     []float64        `json:"sharpe"`

	Drawdown    []float64 `json:"drawdown"`
	MaxDrawdown []float64 `json:"max_drawdown"`

	MAShort    []float64        `json:"ma_short"`
	MALong     []float64        `json:"ma_long"`
	Trend      []TrendState     `json:"trend"`
	Crossovers []CrossoverEvent `json:"crossovers"`

	Spread   *SpreadSnapshot `json:"spread,omitempty"`
	Forecast *ForecastNote   `json:"forecast,omitempty"`

	Recommendation Recommendation `json:"recommendation"`
}

// BatchAnalysis collects per-symbol reports for a multi-symbol run.
// A failed symbol lands in Errors and never aborts its siblings.
type BatchAnalysis struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Reports     map[string]*AnalysisReport `json:"reports"`
	Errors      map[string]string          `json:"errors,omitempty"`
}
