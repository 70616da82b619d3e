package repository

import (
	"context"
	"fmt"
	"time"

	"CoinSight/internal/domain/models"
)

// Interval represents candle resolution buckets.
type Interval string

const (
	Interval1D Interval = "1D"
	Interval4H Interval = "4H"
	Interval1H Interval = "1H"
)

// BarQuery identifies one fetch from a price source. Its cache key covers
// symbol, interval and date range; Force bypasses any cached entry.
type BarQuery struct {
	Symbol   string
	Interval Interval
	From     time.Time
	To       time.Time
	Force    bool
}

// CacheKey returns the keyed-store key for this query.
func (q BarQuery) CacheKey() string {
	return fmt.Sprintf("bars:%s:%s:%s:%s",
		q.Symbol, q.Interval, q.From.Format("2006-01-02"), q.To.Format("2006-01-02"))
}

// BarSource returns a validated, ascending, deduplicated bar series per
// symbol. Implementations own retry and caching; the engine only consumes.
type BarSource interface {
	Fetch(ctx context.Context, q BarQuery) ([]models.Bar, error)
}
