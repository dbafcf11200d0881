package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// newCron returns a seconds-resolution scheduler that recovers panics and
// never runs two passes of the same job at once.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	dispatchJob *OutboxDispatchJob
	purgeJob    *OutboxPurgeJob
}

func NewJobManager(
	drainer OutboxDrainer,
	purger SentMessagePurger,
	retention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob: NewOutboxDispatchJob(drainer, logger),
		purgeJob:    NewOutboxPurgeJob(purger, retention, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox dispatch job: %w", err)
	}

	if err := jm.purgeJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.dispatchJob.Stop()
		return fmt.Errorf("failed to start outbox purge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running passes.
func (jm *JobManager) StopAll() {
	jm.purgeJob.Stop()
	jm.dispatchJob.Stop()
}
