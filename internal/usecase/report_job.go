package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "CoinSight/internal/domain/repository"
	"CoinSight/pkg/queue"
)

// ReportJobType is the queue message type handled by ReportJob.
const ReportJobType = "analysis.report"

// ReportRequest is the payload of a queued report run.
type ReportRequest struct {
	Symbol string `json:"symbol"`
	Pair   string `json:"pair,omitempty"`
	Days   int    `json:"days,omitempty"`
}

// ReportJob runs a full analysis off the request path and publishes the
// resulting report to the reports topic.
type ReportJob struct {
	analyzer *Analyzer
	pub      domrepo.Publisher
}

func NewReportJob(analyzer *Analyzer, pub domrepo.Publisher) *ReportJob {
	return &ReportJob{analyzer: analyzer, pub: pub}
}

func (j *ReportJob) Name() string { return "analysis-report" }

func (j *ReportJob) Type() string { return ReportJobType }

func (j *ReportJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[ReportRequest](payload)
	if err != nil {
		return fmt.Errorf("parse report payload: %w", err)
	}
	if req.Symbol == "" {
		return fmt.Errorf("report payload missing symbol")
	}

	days := req.Days
	if days <= 0 {
		days = 365
	}
	to := time.Now().UTC()

	rep, err := j.analyzer.Analyze(ctx, AnalyzeParams{
		Symbol: req.Symbol,
		Pair:   req.Pair,
		From:   to.AddDate(0, 0, -days),
		To:     to,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", req.Symbol, err)
	}

	if err := j.pub.PublishReport(ctx, rep); err != nil {
		return fmt.Errorf("publish report %s: %w", req.Symbol, err)
	}
	return nil
}

var _ queue.Job = (*ReportJob)(nil)
