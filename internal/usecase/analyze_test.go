package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"CoinSight/internal/domain/models"
	domrepo "CoinSight/internal/domain/repository"
	"CoinSight/internal/services/indicators"
)

type fakeBarSource struct {
	bars map[string][]models.Bar
	errs map[string]error
}

func (f *fakeBarSource) Fetch(_ context.Context, q domrepo.BarQuery) ([]models.Bar, error) {
	if err, ok := f.errs[q.Symbol]; ok {
		return nil, err
	}
	bars, ok := f.bars[q.Symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", q.Symbol)
	}
	return bars, nil
}

func risingBars(symbol string, n int, start float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		c := start + float64(i)
		bars[i] = models.Bar{
			Date:   day(i),
			Symbol: symbol,
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestAnalyzeRisingSeries(t *testing.T) {
	src := &fakeBarSource{bars: map[string][]models.Bar{
		"BTC-USDT": risingBars("BTC-USDT", 100, 100),
	}}
	a := NewAnalyzer(src, nil, nil, indicators.DefaultParams())

	rep, err := a.Analyze(context.Background(), AnalyzeParams{Symbol: "BTC-USDT"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(rep.Returns) != 99 {
		t.Fatalf("returns length = %d, want 99", len(rep.Returns))
	}
	if len(rep.Volatility) != len(rep.Returns) || len(rep.Regimes) != len(rep.Returns) {
		t.Fatalf("volatility/regime lengths %d/%d not aligned to returns %d",
			len(rep.Volatility), len(rep.Regimes), len(rep.Returns))
	}
	if len(rep.Drawdown) != 100 || len(rep.Trend) != 100 {
		t.Fatalf("drawdown/trend lengths %d/%d, want 100", len(rep.Drawdown), len(rep.Trend))
	}

	// Steadily rising closes sit above the long MA and never draw down.
	if got := rep.Trend[len(rep.Trend)-1]; got != models.TrendBull {
		t.Fatalf("latest trend = %s, want BULL", got)
	}
	if dd := rep.Drawdown[len(rep.Drawdown)-1]; dd != 0 {
		t.Fatalf("latest drawdown = %v, want 0", dd)
	}
	// The short MA leads from the first evaluable index, so no crossover
	// event ever fires and the verdict stays WAIT.
	if len(rep.Crossovers) != 0 {
		t.Fatalf("crossovers = %v, want none on a monotone series", rep.Crossovers)
	}
	if rep.Recommendation.Verdict != models.Wait {
		t.Fatalf("verdict = %s, want WAIT", rep.Recommendation.Verdict)
	}
	if rep.Spread != nil || rep.Forecast != nil {
		t.Fatalf("spread/forecast set without pair or forecaster")
	}
}

func TestAnalyzeShortHistoryInsufficient(t *testing.T) {
	src := &fakeBarSource{bars: map[string][]models.Bar{
		"ETH-USDT": risingBars("ETH-USDT", 5, 50),
	}}
	a := NewAnalyzer(src, nil, nil, indicators.DefaultParams())

	_, err := a.Analyze(context.Background(), AnalyzeParams{Symbol: "ETH-USDT"})
	if !errors.Is(err, indicators.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestAnalyzeRejectsInvalidBars(t *testing.T) {
	bad := risingBars("SOL-USDT", 60, 20)
	bad[10].High = bad[10].Low - 1
	src := &fakeBarSource{bars: map[string][]models.Bar{"SOL-USDT": bad}}
	a := NewAnalyzer(src, nil, nil, indicators.DefaultParams())

	_, err := a.Analyze(context.Background(), AnalyzeParams{Symbol: "SOL-USDT"})
	if !errors.Is(err, models.ErrInvalidBar) {
		t.Fatalf("err = %v, want ErrInvalidBar", err)
	}
}

func TestAnalyzeWithPairProducesSpread(t *testing.T) {
	src := &fakeBarSource{bars: map[string][]models.Bar{
		"BTC-USDT": risingBars("BTC-USDT", 100, 100),
		"ETH-USDT": risingBars("ETH-USDT", 100, 50),
	}}
	a := NewAnalyzer(src, nil, nil, indicators.DefaultParams())

	rep, err := a.Analyze(context.Background(), AnalyzeParams{Symbol: "BTC-USDT", Pair: "ETH-USDT"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rep.Spread == nil {
		t.Fatal("expected spread snapshot when pair is set")
	}
	if rep.Spread.PairSymbol != "ETH-USDT" {
		t.Fatalf("pair symbol = %s, want ETH-USDT", rep.Spread.PairSymbol)
	}
	if len(rep.Spread.Dates) != 99 {
		t.Fatalf("spread dates = %d, want the 99 shared return dates", len(rep.Spread.Dates))
	}
}

func TestAnalyzeBatchIsolatesFailures(t *testing.T) {
	src := &fakeBarSource{
		bars: map[string][]models.Bar{"BTC-USDT": risingBars("BTC-USDT", 100, 100)},
		errs: map[string]error{"DOGE-USDT": errors.New("exchange unavailable")},
	}
	a := NewAnalyzer(src, nil, nil, indicators.DefaultParams())

	batch := a.AnalyzeBatch(context.Background(), []string{"BTC-USDT", "DOGE-USDT"}, AnalyzeParams{})
	if len(batch.Reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(batch.Reports))
	}
	if _, ok := batch.Reports["BTC-USDT"]; !ok {
		t.Fatal("BTC-USDT report missing")
	}
	if msg, ok := batch.Errors["DOGE-USDT"]; !ok || msg == "" {
		t.Fatalf("errors = %v, want DOGE-USDT entry", batch.Errors)
	}
}

func TestAnalyzeParamOverrides(t *testing.T) {
	src := &fakeBarSource{bars: map[string][]models.Bar{
		"BTC-USDT": risingBars("BTC-USDT", 100, 100),
	}}
	a := NewAnalyzer(src, nil, nil, indicators.DefaultParams())

	_, err := a.Analyze(context.Background(), AnalyzeParams{
		Symbol:    "BTC-USDT",
		Overrides: indicators.Params{ShortWindow: 30, LongWindow: 7},
	})
	if err == nil {
		t.Fatal("expected error for short window >= long window")
	}

	rep, err := a.Analyze(context.Background(), AnalyzeParams{
		Symbol:    "BTC-USDT",
		Overrides: indicators.Params{ShortWindow: 5, LongWindow: 20},
	})
	if err != nil {
		t.Fatalf("Analyze with overrides: %v", err)
	}
	if !indicators.Defined(rep.MAShort[4]) || indicators.Defined(rep.MAShort[3]) {
		t.Fatalf("short MA window override not applied")
	}
}

func TestAnalyzeRejectsNegativeWindowOverride(t *testing.T) {
	src := &fakeBarSource{bars: map[string][]models.Bar{
		"BTC-USDT": risingBars("BTC-USDT", 100, 100),
		"ETH-USDT": risingBars("ETH-USDT", 100, 50),
	}}
	a := NewAnalyzer(src, nil, nil, indicators.DefaultParams())

	_, err := a.Analyze(context.Background(), AnalyzeParams{
		Symbol:    "BTC-USDT",
		Pair:      "ETH-USDT",
		Overrides: indicators.Params{SpreadWindow: -3},
	})
	if err == nil {
		t.Fatal("expected error for negative spread window")
	}

	_, err = a.Analyze(context.Background(), AnalyzeParams{
		Symbol:    "BTC-USDT",
		Overrides: indicators.Params{DrawdownWindow: -90},
	})
	if err == nil {
		t.Fatal("expected error for negative drawdown window")
	}
}
