package api

import (
	"fmt"
	"math"
	"sync"
	"time"

	models "CoinSight/internal/domain/models"
	"CoinSight/internal/services/indicators"
	"CoinSight/internal/usecase"

	"github.com/labstack/echo/v4"
)

// JSON cannot carry NaN, so every float series crosses the wire as pointers
// with nil marking undefined values.

type reportResponse struct {
	Symbol      string    `json:"symbol"`
	Pair        string    `json:"pair,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Dates  []time.Time `json:"dates"`
	Closes []float64   `json:"closes"`

	Returns    []float64               `json:"returns"`
	Volatility []*float64              `json:"volatility"`
	Regimes    []models.RegimeLabel    `json:"regimes"`
	Thresholds models.RegimeThresholds `json:"regime_thresholds"`
	Sharpe     []*float64              `json:"sharpe"`

	Drawdown    []float64 `json:"drawdown"`
	MaxDrawdown []float64 `json:"max_drawdown"`

	MAShort    []*float64              `json:"ma_short"`
	MALong     []*float64              `json:"ma_long"`
	Trend      []models.TrendState     `json:"trend"`
	Crossovers []models.CrossoverEvent `json:"crossovers"`

	Spread   *spreadResponse      `json:"spread,omitempty"`
	Forecast *models.ForecastNote `json:"forecast,omitempty"`

	Recommendation models.Recommendation `json:"recommendation"`
}

type spreadResponse struct {
	PairSymbol string             `json:"pair_symbol"`
	Dates      []time.Time        `json:"dates"`
	ZScores    []*float64         `json:"z_scores"`
	Latest     *float64           `json:"latest"`
	Label      models.SpreadLabel `json:"label"`
}

func reportView(rep *models.AnalysisReport) *reportResponse {
	out := &reportResponse{
		Symbol:         rep.Symbol,
		Pair:           rep.Pair,
		GeneratedAt:    rep.GeneratedAt,
		Dates:          rep.Dates,
		Closes:         rep.Closes,
		Returns:        rep.Returns,
		Volatility:     nullableFloats(rep.Volatility),
		Regimes:        rep.Regimes,
		Thresholds:     rep.Thresholds,
		Sharpe:         nullableFloats(rep.Sharpe),
		Drawdown:       rep.Drawdown,
		MaxDrawdown:    rep.MaxDrawdown,
		MAShort:        nullableFloats(rep.MAShort),
		MALong:         nullableFloats(rep.MALong),
		Trend:          rep.Trend,
		Crossovers:     rep.Crossovers,
		Forecast:       rep.Forecast,
		Recommendation: rep.Recommendation,
	}
	if rep.Spread != nil {
		out.Spread = &spreadResponse{
			PairSymbol: rep.Spread.PairSymbol,
			Dates:      rep.Spread.Dates,
			ZScores:    nullableFloats(rep.Spread.ZScores),
			Latest:     nullableFloat(rep.Spread.Latest),
			Label:      rep.Spread.Label,
		}
	}
	return out
}

func nullableFloats(vals []float64) []*float64 {
	if vals == nil {
		return nil
	}
	out := make([]*float64, len(vals))
	for i := range vals {
		out[i] = nullableFloat(vals[i])
	}
	return out
}

func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type correlationResponse struct {
	Symbols []string     `json:"symbols"`
	Matrix  [][]*float64 `json:"matrix"`
	Days    int          `json:"days"`
}

func (h *AnalysisHandler) correlate(c echo.Context, req *models.CorrelationRequest) (*correlationResponse, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -req.Days)

	type item struct {
		symbol string
		series indicators.DatedSeries
		err    error
	}
	ch := make(chan item, len(req.Symbols))
	var wg sync.WaitGroup
	for _, s := range req.Symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
				Symbol: symbol,
				From:   from,
				To:     to,
			})
			if err != nil {
				ch <- item{symbol: symbol, err: err}
				return
			}
			closes := models.Closes(res.Bars)
			rets, err := indicators.Returns(closes)
			if err != nil {
				ch <- item{symbol: symbol, err: err}
				return
			}
			ch <- item{symbol: symbol, series: indicators.DatedSeries{
				Dates:  models.Dates(res.Bars)[1:],
				Values: rets,
			}}
		}(s)
	}
	go func() { wg.Wait(); close(ch) }()

	series := make(map[string]indicators.DatedSeries, len(req.Symbols))
	for it := range ch {
		if it.err != nil {
			return nil, fmt.Errorf("correlation %s: %w", it.symbol, it.err)
		}
		series[it.symbol] = it.series
	}

	symbols, matrix := indicators.CorrelationMatrix(series)
	out := make([][]*float64, len(matrix))
	for i, row := range matrix {
		out[i] = nullableFloats(row)
	}
	return &correlationResponse{Symbols: symbols, Matrix: out, Days: req.Days}, nil
}
