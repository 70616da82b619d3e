package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"CoinSight/internal/domain/models"
	domrepo "CoinSight/internal/domain/repository"
	"CoinSight/internal/service/ratelimit"
	pkghttp "CoinSight/pkg/http"
	applogger "CoinSight/pkg/logger"
)

const (
	okxMaxRowsPerPage = 100
	okxMaxPages       = 40
)

// OKXBarSource fetches historical candles from the OKX public REST API and
// normalizes them into ascending, deduplicated daily bars.
type OKXBarSource struct {
	http    *pkghttp.Client
	limiter *ratelimit.Limiter
	baseURL string
	l       *applogger.Logger
}

func NewOKXBarSource(client *pkghttp.Client, limiter *ratelimit.Limiter, baseURL string) *OKXBarSource {
	if baseURL == "" {
		baseURL = "https://www.okx.com"
	}
	return &OKXBarSource{http: client, limiter: limiter, baseURL: strings.TrimRight(baseURL, "/")}
}

// SetLogger injects a structured logger.
func (s *OKXBarSource) SetLogger(l *applogger.Logger) { s.l = l }

// NormalizeSymbol maps common quote aliases onto OKX instrument ids, e.g.
// BTC-USD becomes BTC-USDT.
func NormalizeSymbol(symbol string) string {
	up := strings.ToUpper(strings.TrimSpace(symbol))
	up = strings.ReplaceAll(up, "/", "-")
	if strings.HasSuffix(up, "-USD") {
		return up + "T"
	}
	return up
}

func barParam(iv domrepo.Interval) (string, error) {
	switch iv {
	case domrepo.Interval1D:
		return "1Dutc", nil
	case domrepo.Interval4H:
		return "4H", nil
	case domrepo.Interval1H:
		return "1H", nil
	default:
		return "", fmt.Errorf("unsupported interval: %s", iv)
	}
}

type okxCandleResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// Fetch pages backwards through /api/v5/market/history-candles until the
// requested From date is covered, then returns the ascending series.
func (s *OKXBarSource) Fetch(ctx context.Context, q domrepo.BarQuery) ([]models.Bar, error) {
	instID := NormalizeSymbol(q.Symbol)
	bar, err := barParam(q.Interval)
	if err != nil {
		return nil, err
	}
	from, to := q.From, q.To
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}

	seen := make(map[int64]models.Bar)
	after := "" // pagination cursor, ms timestamp of the oldest row seen
	for page := 0; page < okxMaxPages; page++ {
		if s.limiter != nil && !s.limiter.Allow("okx:candles", 20, 10) {
			// token bucket drained; short pause instead of hammering
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(150 * time.Millisecond):
			}
		}

		rows, err := s.page(ctx, instID, bar, after)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}

		oldest := int64(0)
		for _, row := range rows {
			b, ms, err := parseRESTRow(instID, row)
			if err != nil {
				continue
			}
			if oldest == 0 || ms < oldest {
				oldest = ms
			}
			seen[ms] = b
		}
		if oldest == 0 || time.UnixMilli(oldest).Before(from) || len(rows) < okxMaxRowsPerPage {
			break
		}
		after = strconv.FormatInt(oldest, 10)
	}

	out := make([]models.Bar, 0, len(seen))
	for ms, b := range seen {
		t := time.UnixMilli(ms).UTC()
		if t.Before(from) || t.After(to) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	if s.l != nil {
		s.l.Info("okx candles fetched",
			applogger.String("inst_id", instID),
			applogger.String("bar", bar),
			applogger.Int("rows", len(out)),
		)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("okx: no candles for %s", instID)
	}
	return out, nil
}

func (s *OKXBarSource) page(ctx context.Context, instID, bar, after string) ([][]string, error) {
	params := map[string][]string{
		"instId": {instID},
		"bar":    {bar},
		"limit":  {strconv.Itoa(okxMaxRowsPerPage)},
	}
	if after != "" {
		params["after"] = []string{after}
	}

	var resp okxCandleResponse
	err := s.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         s.baseURL + "/api/v5/market/history-candles",
		QueryParams: params,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("okx candles %s: %w", instID, err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx candles %s: code %s: %s", instID, resp.Code, resp.Msg)
	}
	return resp.Data, nil
}

// parseRESTRow decodes one [ts, o, h, l, c, vol, ...] row.
func parseRESTRow(symbol string, row []string) (models.Bar, int64, error) {
	if len(row) < 6 {
		return models.Bar{}, 0, fmt.Errorf("short candle row")
	}
	ms, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Bar{}, 0, err
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return models.Bar{}, 0, err
		}
		vals[i] = v
	}
	b := models.Bar{
		Date:   time.UnixMilli(ms).UTC(),
		Symbol: symbol,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}
	if err := b.Validate(); err != nil {
		return models.Bar{}, 0, err
	}
	return b, ms, nil
}

var _ domrepo.BarSource = (*OKXBarSource)(nil)
