package usecase

import (
	"fmt"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/services/indicators"
)

// Reason strings are stable output; downstream consumers match on them.
const (
	reasonCrashRegime   = "high volatility regime with deep drawdown"
	reasonGoldenCross   = "recent bullish MA crossover confirmed by trend"
	reasonDeathCross    = "recent bearish MA crossover confirmed by trend"
	reasonSpreadExtreme = "cross-asset spread at extreme, mean-reversion expected"
	reasonNoSignal      = "no confirmed directional signal"
)

// Synthesize evaluates the recommendation rules over the latest defined
// value of each signal in fixed priority order; the first matching rule
// wins. A signal whose latest value is undefined simply drops out of the
// evaluation rather than failing the run.
func Synthesize(rep *models.AnalysisReport, p indicators.Params) models.Recommendation {
	rec := evaluateRules(rep, p)
	if rep.Forecast != nil && len(rep.Forecast.Points) > 0 {
		last := rep.Forecast.Points[len(rep.Forecast.Points)-1]
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"forecast (%s, advisory only): close %.2f in %d days",
			rep.Forecast.Model, last.Value, len(rep.Forecast.Points)))
	}
	return rec
}

func evaluateRules(rep *models.AnalysisReport, p indicators.Params) models.Recommendation {
	// Rule 1: crash regime. Needs a defined latest regime; max drawdown is
	// defined at every index by construction.
	if regime := latestRegime(rep.Regimes); regime == models.RegimeHigh && len(rep.MaxDrawdown) > 0 {
		if rep.MaxDrawdown[len(rep.MaxDrawdown)-1] <= p.CrashDrawdown {
			return models.Recommendation{Verdict: models.LeanShort, Reasons: []string{reasonCrashRegime}}
		}
	}

	// Rules 2 and 3: a crossover inside the lookback window, confirmed by
	// the latest trend state.
	if ev, ok := latestCrossover(rep, p.CrossoverLookback); ok {
		trend := latestTrend(rep.Trend)
		if ev.Kind == models.GoldenCross && trend == models.TrendBull {
			return models.Recommendation{Verdict: models.LeanLong, Reasons: []string{reasonGoldenCross}}
		}
		if ev.Kind == models.DeathCross && trend == models.TrendBear {
			return models.Recommendation{Verdict: models.LeanShort, Reasons: []string{reasonDeathCross}}
		}
	}

	// Rule 4: stretched cross-asset spread, only when a pair is configured.
	// A positive stretch means the primary ran ahead of the pair, so the
	// mean-reversion stance is short; a negative stretch is the inverse.
	if rep.Spread != nil {
		switch rep.Spread.Label {
		case models.SpreadStretchedHigh:
			return models.Recommendation{Verdict: models.LeanShort, Reasons: []string{reasonSpreadExtreme}}
		case models.SpreadStretchedLow:
			return models.Recommendation{Verdict: models.LeanLong, Reasons: []string{reasonSpreadExtreme}}
		}
	}

	return models.Recommendation{Verdict: models.Wait, Reasons: []string{reasonNoSignal}}
}

func latestRegime(labels []models.RegimeLabel) models.RegimeLabel {
	for i := len(labels) - 1; i >= 0; i-- {
		if labels[i] != "" {
			return labels[i]
		}
	}
	return ""
}

func latestTrend(trend []models.TrendState) models.TrendState {
	if len(trend) == 0 {
		return models.TrendNeutral
	}
	return trend[len(trend)-1]
}

// latestCrossover returns the most recent event if it falls within the last
// `lookback` bars of the series.
func latestCrossover(rep *models.AnalysisReport, lookback int) (models.CrossoverEvent, bool) {
	if len(rep.Crossovers) == 0 {
		return models.CrossoverEvent{}, false
	}
	ev := rep.Crossovers[len(rep.Crossovers)-1]
	if ev.Index < len(rep.Dates)-lookback {
		return models.CrossoverEvent{}, false
	}
	return ev, true
}
