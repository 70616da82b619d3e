package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"CoinSight/internal/domain/models"
	domrepo "CoinSight/internal/domain/repository"
	pkgcache "CoinSight/pkg/cache"
	applogger "CoinSight/pkg/logger"
)

// CachedBarSource decorates a BarSource with a keyed cache. Hits skip the
// upstream entirely; Force queries bypass the lookup but still refresh the
// entry. Entries are stored as JSON strings so memory and redis backends
// behave the same.
type CachedBarSource struct {
	next  domrepo.BarSource
	cache pkgcache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedBarSource(next domrepo.BarSource, cache pkgcache.Service, ttl time.Duration) *CachedBarSource {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedBarSource{next: next, cache: cache, ttl: ttl}
}

// SetLogger injects a structured logger.
func (s *CachedBarSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CachedBarSource) Fetch(ctx context.Context, q domrepo.BarQuery) ([]models.Bar, error) {
	key := q.CacheKey()

	if !q.Force {
		if bars, ok := s.lookup(ctx, key); ok {
			return bars, nil
		}
	}

	bars, err := s.next.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(bars); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil && s.l != nil {
			s.l.Warn("bar cache write failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return bars, nil
}

func (s *CachedBarSource) lookup(ctx context.Context, key string) ([]models.Bar, bool) {
	var raw string
	err := s.cache.Get(ctx, key, &raw)
	if err != nil {
		if !errors.Is(err, pkgcache.ErrCacheMiss) && s.l != nil {
			// degraded cache is not fatal; fall through to upstream
			s.l.Warn("bar cache read failed", applogger.String("key", key), applogger.Error(err))
		}
		return nil, false
	}
	var bars []models.Bar
	if err := json.Unmarshal([]byte(raw), &bars); err != nil || len(bars) == 0 {
		return nil, false
	}
	if s.l != nil {
		s.l.Debug("bar cache hit", applogger.String("key", key), applogger.Int("rows", len(bars)))
	}
	return bars, true
}

var _ domrepo.BarSource = (*CachedBarSource)(nil)
