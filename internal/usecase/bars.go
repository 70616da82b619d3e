package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinSight/internal/domain/models"
	domrepo "CoinSight/internal/domain/repository"
)

// BarsUseCase serves raw bar history straight from the price source, without
// running the analysis pipeline.
type BarsUseCase struct {
	source domrepo.BarSource
}

func NewBarsUseCase(source domrepo.BarSource) *BarsUseCase {
	return &BarsUseCase{source: source}
}

type GetBarsParams struct {
	Symbol   string
	From     time.Time
	To       time.Time
	Interval domrepo.Interval
	Limit    int
	Force    bool
}

type GetBarsResult struct {
	Symbol   string
	Interval string
	From     time.Time
	To       time.Time
	Count    int
	Bars     []models.Bar
}

func (uc *BarsUseCase) GetBars(ctx context.Context, p GetBarsParams) (*GetBarsResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Interval == "" {
		p.Interval = domrepo.DefaultInterval()
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	bars, err := uc.source.Fetch(ctx, domrepo.BarQuery{
		Symbol:   p.Symbol,
		Interval: p.Interval,
		From:     p.From,
		To:       p.To,
		Force:    p.Force,
	})
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	if err := models.ValidateBars(bars); err != nil {
		return nil, err
	}
	if len(bars) > p.Limit {
		bars = bars[len(bars)-p.Limit:]
	}

	return &GetBarsResult{
		Symbol:   p.Symbol,
		Interval: string(p.Interval),
		From:     p.From,
		To:       p.To,
		Count:    len(bars),
		Bars:     bars,
	}, nil
}
