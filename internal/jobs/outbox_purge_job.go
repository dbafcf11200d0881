package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SentMessagePurger deletes delivered outbox messages.
type SentMessagePurger interface {
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}

// OutboxPurgeJob removes sent messages older than the retention window
// once a day at 03:00.
type OutboxPurgeJob struct {
	purger    SentMessagePurger
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

func NewOutboxPurgeJob(purger SentMessagePurger, retention time.Duration, logger *slog.Logger) *OutboxPurgeJob {
	return &OutboxPurgeJob{
		purger:    purger,
		retention: retention,
		cron:      newCron(),
		logger:    logger.With("component", "outbox_purge_job"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (j *OutboxPurgeJob) Start() error {
	if _, err := j.cron.AddFunc("0 0 3 * * *", func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox purge job started (running daily at 03:00)",
		"retention", j.retention.String())
	return nil
}

func (j *OutboxPurgeJob) RunOnce(ctx context.Context) {
	before := j.now().Add(-j.retention)
	purged, err := j.purger.PurgeSent(ctx, before)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox purge failed", "error", err)
		return
	}
	j.logger.InfoContext(ctx, "Outbox purged", "deleted", purged, "before", before)
}

func (j *OutboxPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox purge job stopped")
}
