package models

import "time"

// RegimeLabel is the discrete volatility-level classification of one index.
// The empty label marks indices where rolling volatility is still undefined.
type RegimeLabel string

const (
	RegimeLow    RegimeLabel = "LOW"
	RegimeNormal RegimeLabel = "NORMAL"
	RegimeHigh   RegimeLabel = "HIGH"
)

// RegimeThresholds are the percentile cut points used to bucket volatility,
// exposed so callers can report where the latest value sits in its own history.
type RegimeThresholds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// TrendState compares the close to the long moving average.
type TrendState string

const (
	TrendBull    TrendState = "BULL"
	TrendBear    TrendState = "BEAR"
	TrendNeutral TrendState = "NEUTRAL"
)

// CrossoverKind discriminates golden from death crosses.
type CrossoverKind string

const (
	GoldenCross CrossoverKind = "golden"
	DeathCross  CrossoverKind = "death"
)

// CrossoverEvent records a short/long MA transition at a bar index.
type CrossoverEvent struct {
	Index int           `json:"index"`
	Date  time.Time     `json:"date"`
	Kind  CrossoverKind `json:"kind"`
}

// SpreadLabel qualifies the latest cross-asset spread z-score.
type SpreadLabel string

const (
	SpreadStretchedHigh SpreadLabel = "STRETCHED_HIGH"
	SpreadStretchedLow  SpreadLabel = "STRETCHED_LOW"
	SpreadNormal        SpreadLabel = "NORMAL"
)

// SpreadSnapshot is the output of the cross-asset spread analyzer over the
// common date intersection of two return series.
type SpreadSnapshot struct {
	PairSymbol string      `json:"pair_symbol"`
	Dates      []time.Time `json:"dates"`
	ZScores    []float64   `json:"z_scores"`
	Latest     float64     `json:"latest"`
	Label      SpreadLabel `json:"label"`
}

// Verdict is the discrete recommendation emitted once per run.
type Verdict string

const (
	LeanLong  Verdict = "LEAN_LONG"
	LeanShort Verdict = "LEAN_SHORT"
	Wait      Verdict = "WAIT"
)

// Recommendation couples the verdict with its ordered human-readable reasons.
type Recommendation struct {
	Verdict Verdict  `json:"verdict"`
	Reasons []string `json:"reasons"`
}

// ForecastPoint is one step of a baseline price forecast.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ForecastNote is an optional, clearly-labeled forecaster annotation on a
// report. It never participates in the recommendation rules.
type ForecastNote struct {
	Model  string          `json:"model"`
	RMSE   float64         `json:"rmse"`
	MAE    float64         `json:"mae"`
	Points []ForecastPoint `json:"points"`
}
