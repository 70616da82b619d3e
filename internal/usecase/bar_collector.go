package usecase

import (
	"context"

	"CoinSight/internal/domain/models"
	drepo "CoinSight/internal/domain/repository"
	mid "CoinSight/internal/middleware"
)

// BarCollector consumes the live candle stream and hands updates to the
// pipeline (or directly to the processor when no pipeline is configured).
type BarCollector struct {
	stream  drepo.CandleStream
	proc    *BarProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

// NewBarCollector creates a new BarCollector instance.
func NewBarCollector(stream drepo.CandleStream, proc *BarProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *BarCollector {
	return &BarCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the candle stream is connected.
func (c *BarCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *BarCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	upCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, upCh, errCh)
	return nil
}

func (c *BarCollector) consume(ctx context.Context, upCh <-chan *models.BarUpdate, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case u := <-upCh:
			if u == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, u)
			} else {
				_ = c.proc.Process(ctx, u)
			}
			c.metrics.RecordLastPrice(u.Bar.Symbol, u.Bar.Close)
		}
	}
}

func (c *BarCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying BarProcessor for lifecycle management.
func (c *BarCollector) Processor() *BarProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *BarCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
