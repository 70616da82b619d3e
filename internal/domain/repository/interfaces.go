package repository

import (
	"context"
	"time"

	"CoinSight/internal/domain/models"
)

// CandleStream streams live daily candle updates from an exchange.
type CandleStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.BarUpdate, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher exports bar updates and finished reports to a message backend.
type Publisher interface {
	Publish(ctx context.Context, u *models.BarUpdate) error
	PublishBatch(ctx context.Context, updates []*models.BarUpdate) error
	PublishReport(ctx context.Context, r *models.AnalysisReport) error
	Close() error
}

// BarStore persists bar history and serves it back for analysis.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, u *models.BarUpdate) error
	StoreBatch(ctx context.Context, updates []*models.BarUpdate) error
	Query(ctx context.Context, symbol string, from, to time.Time, iv Interval) ([]models.Bar, error)
	LatestN(ctx context.Context, symbol string, n int, iv Interval) ([]models.Bar, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
