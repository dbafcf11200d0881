package jobs

import (
	"context"
	"log/slog"

	"backoffice/internal/adapters/out/notify"

	"github.com/robfig/cron/v3"
)

// OutboxDrainer sends what is pending in the outbox.
type OutboxDrainer interface {
	Drain(ctx context.Context) (notify.Report, error)
}

// OutboxDispatchJob drains the notification outbox every two seconds.
type OutboxDispatchJob struct {
	drainer OutboxDrainer
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewOutboxDispatchJob(drainer OutboxDrainer, logger *slog.Logger) *OutboxDispatchJob {
	return &OutboxDispatchJob{
		drainer: drainer,
		cron:    newCron(),
		logger:  logger.With("component", "outbox_dispatch_job"),
	}
}

// Start schedules the job. A pass that is still running when the next one
// is due makes that one skip.
func (j *OutboxDispatchJob) Start() error {
	if _, err := j.cron.AddFunc("*/2 * * * * *", func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job started (running every 2 seconds)")
	return nil
}

func (j *OutboxDispatchJob) RunOnce(ctx context.Context) {
	report, err := j.drainer.Drain(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox dispatch failed", "error", err)
		return
	}
	if report != (notify.Report{}) {
		j.logger.DebugContext(ctx, "Outbox drained",
			"sent", report.Sent,
			"retried", report.Retried,
			"failed", report.Failed,
			"skipped", report.Skipped,
		)
	}
}

// Stop waits for a running pass to finish.
func (j *OutboxDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job stopped")
}
