// Package jobs provides scheduled background tasks for the back office.
//
// Jobs run on github.com/robfig/cron/v3 with seconds resolution.
//
// # Available Jobs
//
// 1. OutboxDispatchJob - every 2 seconds, sends pending notifications from the outbox
// 2. OutboxPurgeJob - daily at 03:00, deletes sent notifications past the retention window
//
// # Usage
//
//	jobManager := jobs.NewJobManager(dispatcher, outboxRepo, 30*24*time.Hour, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Job failures are logged and never stop the scheduler. Notification
// failures are recorded on the message itself by the dispatcher.
package jobs
