package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CoinSight/internal/domain/models"
	domrepo "CoinSight/internal/domain/repository"
	domsvc "CoinSight/internal/domain/service"
	"CoinSight/internal/services/indicators"
)

// Analyzer runs the full signal pipeline for one symbol: returns and rolling
// volatility, regime classification, drawdown, Sharpe, MA crossovers, the
// optional cross-asset spread, and the final recommendation. Every series is
// recomputed fresh from the bar snapshot on each call; nothing is mutated
// incrementally.
type Analyzer struct {
	source     domrepo.BarSource
	forecaster domsvc.Forecaster // optional
	metrics    domrepo.Metrics
	params     indicators.Params
	timeout    time.Duration
}

func NewAnalyzer(source domrepo.BarSource, forecaster domsvc.Forecaster, metrics domrepo.Metrics, params indicators.Params) *Analyzer {
	return &Analyzer{
		source:     source,
		forecaster: forecaster,
		metrics:    metrics,
		params:     params,
		timeout:    30 * time.Second,
	}
}

// AnalyzeParams selects the analysis window and optional overrides for one run.
type AnalyzeParams struct {
	Symbol        string
	Pair          string // optional secondary asset for the spread signal
	From          time.Time
	To            time.Time
	Force         bool // bypass the price-source cache
	ForecastSteps int  // 0 disables the forecaster annotation
	Overrides     indicators.Params
}

func (a *Analyzer) effectiveParams(overrides indicators.Params) (indicators.Params, error) {
	p := overrides
	// Zero-valued fields fall back to the analyzer's configured set, then to
	// the documented defaults.
	if p.VolWindow == 0 {
		p.VolWindow = a.params.VolWindow
	}
	if p.DrawdownWindow == 0 {
		p.DrawdownWindow = a.params.DrawdownWindow
	}
	if p.SharpeWindow == 0 {
		p.SharpeWindow = a.params.SharpeWindow
	}
	if p.SpreadWindow == 0 {
		p.SpreadWindow = a.params.SpreadWindow
	}
	if p.ShortWindow == 0 {
		p.ShortWindow = a.params.ShortWindow
	}
	if p.LongWindow == 0 {
		p.LongWindow = a.params.LongWindow
	}
	if p.RegimeLowerPct == 0 {
		p.RegimeLowerPct = a.params.RegimeLowerPct
	}
	if p.RegimeUpperPct == 0 {
		p.RegimeUpperPct = a.params.RegimeUpperPct
	}
	if p.SpreadZBound == 0 {
		p.SpreadZBound = a.params.SpreadZBound
	}
	if p.CrashDrawdown == 0 {
		p.CrashDrawdown = a.params.CrashDrawdown
	}
	if p.CrossoverLookback == 0 {
		p.CrossoverLookback = a.params.CrossoverLookback
	}
	if p.RiskFreeRate == 0 {
		p.RiskFreeRate = a.params.RiskFreeRate
	}
	if p.TradingDaysPerYear == 0 {
		p.TradingDaysPerYear = a.params.TradingDaysPerYear
	}
	err := p.Normalize()
	return p, err
}

// Analyze runs the pipeline for one symbol.
func (a *Analyzer) Analyze(ctx context.Context, ap AnalyzeParams) (*models.AnalysisReport, error) {
	if ap.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	p, err := a.effectiveParams(ap.Overrides)
	if err != nil {
		return nil, fmt.Errorf("engine params: %w", err)
	}

	start := time.Now()
	bars, err := a.fetch(ctx, ap.Symbol, ap)
	if err != nil {
		return nil, err
	}

	rep := &models.AnalysisReport{
		Symbol:      ap.Symbol,
		Pair:        ap.Pair,
		GeneratedAt: time.Now().UTC(),
		Dates:       models.Dates(bars),
		Closes:      models.Closes(bars),
	}

	rep.Returns, err = indicators.Returns(rep.Closes)
	if err != nil {
		return nil, fmt.Errorf("returns %s: %w", ap.Symbol, err)
	}
	rep.Volatility = indicators.RollingVolatility(rep.Returns, p.VolWindow, p.TradingDaysPerYear)

	rep.Regimes, rep.Thresholds, err = indicators.ClassifyRegimes(rep.Volatility, p.RegimeLowerPct, p.RegimeUpperPct)
	if err != nil {
		return nil, fmt.Errorf("regime %s: %w", ap.Symbol, err)
	}

	rep.Drawdown, rep.MaxDrawdown = indicators.Drawdowns(rep.Closes, p.DrawdownWindow)
	rep.Sharpe = indicators.RollingSharpe(rep.Returns, rep.Volatility, p.SharpeWindow, p.RiskFreeRate, p.TradingDaysPerYear)

	cross := indicators.DetectCrossovers(rep.Dates, rep.Closes, p.ShortWindow, p.LongWindow)
	rep.MAShort, rep.MALong = cross.Short, cross.Long
	rep.Trend, rep.Crossovers = cross.Trend, cross.Events

	if ap.Pair != "" {
		rep.Spread, err = a.spread(ctx, ap, rep, p)
		if err != nil {
			return nil, err
		}
	}

	if a.forecaster != nil && ap.ForecastSteps > 0 {
		// Advisory only: a failed forecast never fails the pipeline.
		if note, ferr := a.forecaster.Forecast(ctx, bars, ap.ForecastSteps); ferr == nil {
			rep.Forecast = note
		} else if a.metrics != nil {
			a.metrics.RecordError("forecast")
		}
	}

	rep.Recommendation = Synthesize(rep, p)

	if a.metrics != nil {
		a.metrics.RecordLatency("analyze", time.Since(start).Seconds())
		if n := len(rep.Closes); n > 0 {
			a.metrics.RecordLastPrice(ap.Symbol, rep.Closes[n-1])
		}
	}
	return rep, nil
}

func (a *Analyzer) fetch(ctx context.Context, symbol string, ap AnalyzeParams) ([]models.Bar, error) {
	bars, err := a.source.Fetch(ctx, domrepo.BarQuery{
		Symbol:   symbol,
		Interval: domrepo.Interval1D,
		From:     ap.From,
		To:       ap.To,
		Force:    ap.Force,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}
	// Ingestion boundary: nothing invalid reaches the engine.
	if err := models.ValidateBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func (a *Analyzer) spread(ctx context.Context, ap AnalyzeParams, rep *models.AnalysisReport, p indicators.Params) (*models.SpreadSnapshot, error) {
	pairBars, err := a.fetch(ctx, ap.Pair, ap)
	if err != nil {
		return nil, err
	}
	pairCloses := models.Closes(pairBars)
	pairRets, err := indicators.Returns(pairCloses)
	if err != nil {
		return nil, fmt.Errorf("returns %s: %w", ap.Pair, err)
	}
	primary := indicators.DatedSeries{Dates: rep.Dates[1:], Values: rep.Returns}
	secondary := indicators.DatedSeries{Dates: models.Dates(pairBars)[1:], Values: pairRets}
	snap, err := indicators.AnalyzeSpread(ap.Pair, primary, secondary, p.SpreadWindow, p.SpreadZBound)
	if err != nil {
		return nil, fmt.Errorf("spread %s/%s: %w", ap.Symbol, ap.Pair, err)
	}
	return snap, nil
}

// AnalyzeBatch runs one pipeline per symbol concurrently. A failed symbol
// records its error and never aborts the others.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, symbols []string, base AnalyzeParams) *models.BatchAnalysis {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res := &models.BatchAnalysis{
		GeneratedAt: time.Now().UTC(),
		Reports:     make(map[string]*models.AnalysisReport, len(symbols)),
		Errors:      make(map[string]string),
	}

	type item struct {
		symbol string
		rep    *models.AnalysisReport
		err    error
	}
	ch := make(chan item, len(symbols))
	var wg sync.WaitGroup
	for _, s := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			ap := base
			ap.Symbol = symbol
			rep, err := a.Analyze(ctx, ap)
			ch <- item{symbol, rep, err}
		}(s)
	}
	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.symbol] = it.err.Error()
			if a.metrics != nil {
				a.metrics.RecordError("analyze")
			}
			continue
		}
		res.Reports[it.symbol] = it.rep
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res
}
