package api

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"time"

	models "CoinSight/internal/domain/models"
	domsvc "CoinSight/internal/domain/service"
	icache "CoinSight/internal/service/cache"
	"CoinSight/internal/service/metrics"
	"CoinSight/internal/service/ratelimit"
	"CoinSight/internal/services/indicators"
	"CoinSight/internal/usecase"
	pkgcache "CoinSight/pkg/cache"
	xhttp "CoinSight/pkg/http"
	xlogger "CoinSight/pkg/logger"
	pkgqueue "CoinSight/pkg/queue"
	"CoinSight/pkg/util"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler exposes the signal engine over HTTP.
type AnalysisHandler struct {
	logger     *xlogger.Logger
	analyzer   *usecase.Analyzer
	bars       *usecase.BarsUseCase
	forecaster domsvc.Forecaster
	cache      icache.BytesCache
	queue      pkgqueue.QueueService
	rl         *ratelimit.Limiter

	defaultPair   string // spread pair used when the request names none
	forecastSteps int    // 0 disables the forecast annotation on reports
}

func NewAnalysisHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer, bars *usecase.BarsUseCase, forecaster domsvc.Forecaster) *AnalysisHandler {
	metrics.Register()
	return &AnalysisHandler{
		logger:     logger,
		analyzer:   analyzer,
		bars:       bars,
		forecaster: forecaster,
		rl:         ratelimit.New(),
	}
}

// SetDefaults configures the fallback spread pair and forecast horizon.
func (h *AnalysisHandler) SetDefaults(pair string, forecastSteps int) {
	h.defaultPair = pair
	h.forecastSteps = forecastSteps
}

// SetCache enables short-lived response caching for analysis results.
func (h *AnalysisHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetQueue enables async report runs over the redis queue.
func (h *AnalysisHandler) SetQueue(q pkgqueue.QueueService) { h.queue = q }

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Analysis)
	g.GET("/bars", h.Bars)
	g.GET("/forecast", h.Forecast)
	g.GET("/correlation", h.Correlation)
	g.POST("/reports", h.Reports)
}

func (h *AnalysisHandler) Analysis(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.AnalyticsLatency.WithLabelValues("analysis").Observe(time.Since(start).Seconds()) }()

	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":analysis", 5, 2) {
		return xhttp.TooManyRequestsResponse(c)
	}

	pair := req.Pair
	if pair == "" && h.defaultPair != req.Symbol {
		pair = h.defaultPair
	}

	cacheKey := pkgcache.GenerateKeyWithParams("analysis", req.Symbol, pair, req.Days)
	if h.cache != nil && !req.Force {
		if b, ok, err := h.cache.GetBytes(cacheKey); err == nil && ok {
			c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
			return xhttp.SuccessResponse(c, json.RawMessage(b))
		}
	}

	to := time.Now().UTC()
	rep, err := h.analyzer.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Symbol:        req.Symbol,
		Pair:          pair,
		From:          to.AddDate(0, 0, -req.Days),
		To:            to,
		Force:         req.Force,
		ForecastSteps: h.forecastSteps,
		Overrides:     overridesFromRequest(req),
	})
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues("analysis").Inc()
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	view := reportView(rep)
	if h.cache != nil {
		if b, err := json.Marshal(view); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, 30*time.Second); err != nil {
				h.logger.Warn("analysis cache write failed", xlogger.Error(err))
			}
		}
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, view)
}

func (h *AnalysisHandler) Bars(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.AnalyticsLatency.WithLabelValues("bars").Observe(time.Since(start).Seconds()) }()

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":bars", 10, 5) {
		return xhttp.TooManyRequestsResponse(c)
	}

	now := time.Now().UTC()
	to := util.ParseTimeDefault(req.To, now)
	from := util.ParseTimeDefault(req.From, to.AddDate(0, 0, -req.Days))
	from, to = util.AlignFromTo(from, to, "1D")

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
		Force:  req.Force,
	})
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues("bars").Inc()
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Forecast(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.AnalyticsLatency.WithLabelValues("forecast").Observe(time.Since(start).Seconds()) }()

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":forecast", 5, 2) {
		return xhttp.TooManyRequestsResponse(c)
	}

	to := time.Now().UTC()
	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol: req.Symbol,
		From:   to.AddDate(0, 0, -req.Days),
		To:     to,
	})
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues("forecast").Inc()
		h.logger.Error("forecast bars error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	note, err := h.forecaster.Forecast(c.Request().Context(), res.Bars, req.Steps)
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues("forecast").Inc()
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, note)
}

func (h *AnalysisHandler) Correlation(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.AnalyticsLatency.WithLabelValues("correlation").Observe(time.Since(start).Seconds()) }()

	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":correlation", 5, 2) {
		return xhttp.TooManyRequestsResponse(c)
	}

	res, err := h.correlate(c, req)
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues("correlation").Inc()
		h.logger.Error("correlation usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// Reports enqueues a full analysis run; the worker publishes the result to
// the reports topic.
func (h *AnalysisHandler) Reports(c echo.Context) error {
	if h.queue == nil {
		return xhttp.DataResponse(c, nethttp.StatusServiceUnavailable, "report queue disabled")
	}

	req := &models.ReportsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":reports", 2, 1) {
		return xhttp.TooManyRequestsResponse(c)
	}

	payload := usecase.ReportRequest{Symbol: req.Symbol, Pair: req.Pair, Days: req.Days}
	if err := h.queue.PublishMessage(c.Request().Context(), usecase.ReportJobType, payload); err != nil {
		metrics.AnalyticsErrors.WithLabelValues("reports").Inc()
		h.logger.Error("report enqueue failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.DataResponse(c, nethttp.StatusAccepted, map[string]string{"symbol": req.Symbol, "status": "queued"})
}

// toAppError maps domain validation failures to 400s; everything else
// surfaces as an internal error.
func toAppError(err error) error {
	if errors.Is(err, indicators.ErrInsufficientData) || errors.Is(err, models.ErrInvalidBar) {
		return xhttp.BadRequestError(err.Error()).WithError(err)
	}
	return err
}

func overridesFromRequest(req *models.AnalysisRequest) indicators.Params {
	return indicators.Params{
		VolWindow:    req.VolWindow,
		SharpeWindow: req.SharpeWindow,
		ShortWindow:  req.ShortWindow,
		LongWindow:   req.LongWindow,
	}
}
