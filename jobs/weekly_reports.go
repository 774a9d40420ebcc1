package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/finpulse/finpulse/internal/jobs"
	"github.com/finpulse/finpulse/internal/report"
)

// WeeklyReportsJob runs the report batch for all active customers.
type WeeklyReportsJob struct {
	service *report.Service
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewWeeklyReportsJob constructs the job handler.
func NewWeeklyReportsJob(service *report.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *WeeklyReportsJob {
	if metrics == nil {
		metrics = jobmetrics.NewMetrics(nil)
	}
	return &WeeklyReportsJob{service: service, logger: logger, metrics: metrics}
}

// Handle processes TaskWeeklyReports tasks. Customer failures are already
// isolated inside the batch; only a failure to start the batch at all is
// surfaced to Asynq for retry.
func (j *WeeklyReportsJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload WeeklyReportsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics.Track("weekly_reports")
	summary, err := j.service.RunAll(ctx)
	if err != nil {
		j.logger.Error("weekly report batch", slog.Any("error", err))
		return tracker.End(err)
	}

	failed := len(summary.Failures)
	j.metrics.AddReports("sent", summary.Sent)
	j.metrics.AddReports("unsent", summary.Succeeded-summary.Sent)
	j.metrics.AddReports("failed", failed)
	j.logger.Info("weekly report batch finished",
		slog.String("trigger", payload.Trigger),
		slog.Int("attempted", summary.Attempted),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", failed),
	)
	return tracker.End(nil)
}
