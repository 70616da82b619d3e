package usecase

import (
	"context"
	"testing"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/services/indicators"
)

type fakePublisher struct {
	reports []*models.AnalysisReport
}

func (f *fakePublisher) Publish(context.Context, *models.BarUpdate) error        { return nil }
func (f *fakePublisher) PublishBatch(context.Context, []*models.BarUpdate) error { return nil }
func (f *fakePublisher) PublishReport(_ context.Context, r *models.AnalysisReport) error {
	f.reports = append(f.reports, r)
	return nil
}
func (f *fakePublisher) Close() error { return nil }

func TestReportJobPublishesAnalysis(t *testing.T) {
	src := &fakeBarSource{bars: map[string][]models.Bar{
		"BTC-USDT": risingBars("BTC-USDT", 100, 100),
	}}
	pub := &fakePublisher{}
	job := NewReportJob(NewAnalyzer(src, nil, nil, indicators.DefaultParams()), pub)

	if job.Type() != ReportJobType {
		t.Fatalf("job type = %q", job.Type())
	}

	// Queue payloads arrive as generic maps after JSON round-trips.
	payload := map[string]interface{}{"symbol": "BTC-USDT", "days": 120}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(pub.reports) != 1 {
		t.Fatalf("published %d reports, want 1", len(pub.reports))
	}
	if pub.reports[0].Symbol != "BTC-USDT" {
		t.Fatalf("report symbol = %q", pub.reports[0].Symbol)
	}
	if pub.reports[0].Recommendation.Verdict == "" {
		t.Fatal("report missing recommendation verdict")
	}
}

func TestReportJobRejectsEmptySymbol(t *testing.T) {
	job := NewReportJob(NewAnalyzer(&fakeBarSource{}, nil, nil, indicators.DefaultParams()), &fakePublisher{})
	if err := job.Handle(context.Background(), ReportRequest{}); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}
