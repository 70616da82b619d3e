package usecase

import (
	"strings"
	"testing"
	"time"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/services/indicators"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func baseReport(n int) *models.AnalysisReport {
	rep := &models.AnalysisReport{
		Dates:       make([]time.Time, n),
		MaxDrawdown: make([]float64, n),
		Trend:       make([]models.TrendState, n),
		Regimes:     make([]models.RegimeLabel, n-1),
	}
	for i := range rep.Dates {
		rep.Dates[i] = day(i)
		rep.Trend[i] = models.TrendNeutral
	}
	for i := range rep.Regimes {
		rep.Regimes[i] = models.RegimeNormal
	}
	return rep
}

func TestSynthesizeRulePriority(t *testing.T) {
	p := indicators.DefaultParams()
	n := 50

	cases := []struct {
		name    string
		mutate  func(*models.AnalysisReport)
		verdict models.Verdict
		reason  string
	}{
		{
			name: "crash regime beats bullish crossover",
			mutate: func(r *models.AnalysisReport) {
				r.Regimes[len(r.Regimes)-1] = models.RegimeHigh
				r.MaxDrawdown[n-1] = -0.25
				r.Trend[n-1] = models.TrendBull
				r.Crossovers = []models.CrossoverEvent{{Index: n - 1, Date: day(n - 1), Kind: models.GoldenCross}}
			},
			verdict: models.LeanShort,
			reason:  reasonCrashRegime,
		},
		{
			name: "high regime without deep drawdown falls through",
			mutate: func(r *models.AnalysisReport) {
				r.Regimes[len(r.Regimes)-1] = models.RegimeHigh
				r.MaxDrawdown[n-1] = -0.05
			},
			verdict: models.Wait,
			reason:  reasonNoSignal,
		},
		{
			name: "recent golden cross confirmed by bull trend",
			mutate: func(r *models.AnalysisReport) {
				r.Trend[n-1] = models.TrendBull
				r.Crossovers = []models.CrossoverEvent{{Index: n - 2, Date: day(n - 2), Kind: models.GoldenCross}}
			},
			verdict: models.LeanLong,
			reason:  reasonGoldenCross,
		},
		{
			name: "recent death cross confirmed by bear trend",
			mutate: func(r *models.AnalysisReport) {
				r.Trend[n-1] = models.TrendBear
				r.Crossovers = []models.CrossoverEvent{{Index: n - 1, Date: day(n - 1), Kind: models.DeathCross}}
			},
			verdict: models.LeanShort,
			reason:  reasonDeathCross,
		},
		{
			name: "golden cross without trend confirmation is ignored",
			mutate: func(r *models.AnalysisReport) {
				r.Trend[n-1] = models.TrendBear
				r.Crossovers = []models.CrossoverEvent{{Index: n - 1, Date: day(n - 1), Kind: models.GoldenCross}}
			},
			verdict: models.Wait,
			reason:  reasonNoSignal,
		},
		{
			name: "stale crossover outside the lookback is ignored",
			mutate: func(r *models.AnalysisReport) {
				r.Trend[n-1] = models.TrendBull
				r.Crossovers = []models.CrossoverEvent{{Index: n - p.CrossoverLookback - 1, Kind: models.GoldenCross}}
			},
			verdict: models.Wait,
			reason:  reasonNoSignal,
		},
		{
			name: "stretched-high spread leans short",
			mutate: func(r *models.AnalysisReport) {
				r.Spread = &models.SpreadSnapshot{Label: models.SpreadStretchedHigh, Latest: 2.4}
			},
			verdict: models.LeanShort,
			reason:  reasonSpreadExtreme,
		},
		{
			name: "stretched-low spread leans long",
			mutate: func(r *models.AnalysisReport) {
				r.Spread = &models.SpreadSnapshot{Label: models.SpreadStretchedLow, Latest: -2.4}
			},
			verdict: models.LeanLong,
			reason:  reasonSpreadExtreme,
		},
		{
			name:    "no signal waits",
			mutate:  func(r *models.AnalysisReport) {},
			verdict: models.Wait,
			reason:  reasonNoSignal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := baseReport(n)
			tc.mutate(rep)
			rec := Synthesize(rep, p)
			if rec.Verdict != tc.verdict {
				t.Fatalf("verdict = %s, want %s (reasons %v)", rec.Verdict, tc.verdict, rec.Reasons)
			}
			if len(rec.Reasons) == 0 || rec.Reasons[0] != tc.reason {
				t.Fatalf("reasons = %v, want first %q", rec.Reasons, tc.reason)
			}
		})
	}
}

func TestSynthesizeAppendsForecastReason(t *testing.T) {
	rep := baseReport(50)
	rep.Forecast = &models.ForecastNote{
		Model:  "linreg",
		Points: []models.ForecastPoint{{Date: day(50), Value: 101.5}},
	}
	rec := Synthesize(rep, indicators.DefaultParams())
	if rec.Verdict != models.Wait {
		t.Fatalf("verdict = %s, want WAIT", rec.Verdict)
	}
	if len(rec.Reasons) != 2 {
		t.Fatalf("reasons = %v, want verdict reason plus forecast note", rec.Reasons)
	}
	if !strings.Contains(rec.Reasons[1], "advisory only") {
		t.Fatalf("forecast reason %q not labeled advisory", rec.Reasons[1])
	}
}

func TestSynthesizeUndefinedRegimeSkipsCrashRule(t *testing.T) {
	rep := baseReport(50)
	for i := range rep.Regimes {
		rep.Regimes[i] = ""
	}
	rep.MaxDrawdown[len(rep.MaxDrawdown)-1] = -0.5
	rec := Synthesize(rep, indicators.DefaultParams())
	if rec.Verdict != models.Wait {
		t.Fatalf("verdict = %s, want WAIT when regime undefined", rec.Verdict)
	}
}
