package repository

import (
	"context"
	"testing"
	"time"

	"CoinSight/internal/domain/models"
	domrepo "CoinSight/internal/domain/repository"
	pkgcache "CoinSight/pkg/cache"
)

type countingSource struct {
	calls int
	bars  []models.Bar
}

func (c *countingSource) Fetch(_ context.Context, _ domrepo.BarQuery) ([]models.Bar, error) {
	c.calls++
	return c.bars, nil
}

func sampleBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 100.0 + float64(i)
		bars[i] = models.Bar{
			Date: base.AddDate(0, 0, i), Symbol: "BTC-USDT",
			Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 10,
		}
	}
	return bars
}

func TestCachedBarSourceHitSkipsUpstream(t *testing.T) {
	upstream := &countingSource{bars: sampleBars(5)}
	src := NewCachedBarSource(upstream, pkgcache.NewMemoryCache(), time.Minute)

	q := domrepo.BarQuery{
		Symbol:   "BTC-USDT",
		Interval: domrepo.Interval1D,
		From:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	first, err := src.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := src.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if upstream.calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", upstream.calls)
	}
	if len(first) != len(second) || !second[0].Date.Equal(first[0].Date) {
		t.Fatalf("cached series differs from original")
	}
}

func TestCachedBarSourceForceBypassesLookup(t *testing.T) {
	upstream := &countingSource{bars: sampleBars(5)}
	src := NewCachedBarSource(upstream, pkgcache.NewMemoryCache(), time.Minute)

	q := domrepo.BarQuery{Symbol: "BTC-USDT", Interval: domrepo.Interval1D}
	if _, err := src.Fetch(context.Background(), q); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	q.Force = true
	if _, err := src.Fetch(context.Background(), q); err != nil {
		t.Fatalf("force fetch: %v", err)
	}
	if upstream.calls != 2 {
		t.Fatalf("upstream calls = %d, want 2 with force", upstream.calls)
	}
}

func TestCachedBarSourceDistinctKeys(t *testing.T) {
	a := domrepo.BarQuery{Symbol: "BTC-USDT", Interval: domrepo.Interval1D}
	b := domrepo.BarQuery{Symbol: "ETH-USDT", Interval: domrepo.Interval1D}
	if a.CacheKey() == b.CacheKey() {
		t.Fatal("cache keys collide across symbols")
	}
}

func TestNormalizeSymbol(t *testing.T) {
	cases := map[string]string{
		"BTC-USD":  "BTC-USDT",
		"btc-usd":  "BTC-USDT",
		"BTC/USD":  "BTC-USDT",
		"BTC-USDT": "BTC-USDT",
		"ETH-BTC":  "ETH-BTC",
	}
	for in, want := range cases {
		if got := NormalizeSymbol(in); got != want {
			t.Fatalf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}
