package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/domain/repository"
	pkgkafka "CoinSight/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. Candle updates go to the
// bars topic keyed by symbol; finished analysis reports go to a separate
// reports topic.
type KafkaPublisher struct {
	producer     *pkgkafka.Producer
	barsTopic    string
	reportsTopic string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, barsTopic, reportsTopic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, barsTopic: barsTopic, reportsTopic: reportsTopic}
}

func barMessage(u *models.BarUpdate) map[string]interface{} {
	return map[string]interface{}{
		"symbol":    u.Bar.Symbol,
		"t":         u.Bar.Date.Unix(),
		"o":         u.Bar.Open,
		"h":         u.Bar.High,
		"l":         u.Bar.Low,
		"c":         u.Bar.Close,
		"v":         u.Bar.Volume,
		"confirmed": u.Confirmed,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, u *models.BarUpdate) error {
	return p.producer.Publish(ctx, p.barsTopic, []byte(u.Bar.Symbol), barMessage(u))
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, updates []*models.BarUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(updates))
	for i, u := range updates {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(u.Bar.Symbol),
			Value: barMessage(u),
		}
	}
	return p.producer.PublishBatch(ctx, p.barsTopic, msgs)
}

func (p *KafkaPublisher) PublishReport(ctx context.Context, r *models.AnalysisReport) error {
	b, err := json.Marshal(reportExport(r))
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return p.producer.Publish(ctx, p.reportsTopic, []byte(r.Symbol), b)
}

// reportExport is the compact report view exported to the message bus. The
// full per-index series stay on the HTTP API; consumers of the topic only
// need the latest state and the verdict.
func reportExport(r *models.AnalysisReport) map[string]interface{} {
	out := map[string]interface{}{
		"symbol":       r.Symbol,
		"generated_at": r.GeneratedAt,
		"verdict":      r.Recommendation.Verdict,
		"reasons":      r.Recommendation.Reasons,
	}
	if n := len(r.Closes); n > 0 {
		out["close"] = r.Closes[n-1]
	}
	if n := len(r.Regimes); n > 0 && r.Regimes[n-1] != "" {
		out["regime"] = r.Regimes[n-1]
	}
	if n := len(r.Trend); n > 0 {
		out["trend"] = r.Trend[n-1]
	}
	if n := len(r.MaxDrawdown); n > 0 {
		out["max_drawdown"] = r.MaxDrawdown[n-1]
	}
	if r.Spread != nil {
		out["spread_label"] = r.Spread.Label
	}
	return out
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
