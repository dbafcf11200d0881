// Package notify drains the outbox and hands each message to the sender
// for its channel. Delivery problems are logged and recorded on the message;
// they never reach the operation that produced it.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

const (
	defaultBatchSize   = 50
	defaultSendTimeout = 10 * time.Second
)

// Report summarizes one Drain pass.
type Report struct {
	Sent    int
	Retried int
	Failed  int
	Skipped int
}

// Dispatcher sends pending outbox messages. The claimer is optional; with
// it, several replicas can drain the same outbox.
type Dispatcher struct {
	outbox      ports.OutboxRepository
	senders     map[notification.Channel]ports.NotificationSender
	claimer     ports.MessageClaimer
	logger      *slog.Logger
	batchSize   int
	sendTimeout time.Duration
	now         func() time.Time
}

func NewDispatcher(
	outbox ports.OutboxRepository,
	senders map[notification.Channel]ports.NotificationSender,
	claimer ports.MessageClaimer,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		outbox:      outbox,
		senders:     senders,
		claimer:     claimer,
		logger:      logger.With("component", "notification_dispatcher"),
		batchSize:   defaultBatchSize,
		sendTimeout: defaultSendTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Drain makes one pass over the pending messages. Only a failure to read
// the outbox is returned; everything else ends up in the report and the log.
func (d *Dispatcher) Drain(ctx context.Context) (Report, error) {
	var report Report

	messages, err := d.outbox.FetchPending(ctx, d.batchSize)
	if err != nil {
		return report, fmt.Errorf("fetch pending messages: %w", err)
	}

	for i := range messages {
		if ctx.Err() != nil {
			break
		}
		m := &messages[i]

		if !d.claim(ctx, m) {
			report.Skipped++
			continue
		}

		d.deliver(ctx, m, &report)

		if err = d.outbox.Save(ctx, *m); err != nil {
			d.logger.ErrorContext(ctx, "Failed to save outbox message",
				"message_id", m.ID, "error", err)
		}

		// A sent message keeps its claim until the TTL runs out, so a replica
		// holding a stale read cannot send it again.
		if m.Status != notification.StatusSent {
			d.release(ctx, m)
		}
	}

	return report, nil
}

func (d *Dispatcher) claim(ctx context.Context, m *notification.Message) bool {
	if d.claimer == nil {
		return true
	}
	ok, err := d.claimer.Claim(ctx, m.ID)
	if err != nil {
		d.logger.WarnContext(ctx, "Failed to claim outbox message", "message_id", m.ID, "error", err)
		return false
	}
	return ok
}

func (d *Dispatcher) release(ctx context.Context, m *notification.Message) {
	if d.claimer == nil {
		return
	}
	if err := d.claimer.Release(ctx, m.ID); err != nil {
		d.logger.WarnContext(ctx, "Failed to release outbox message", "message_id", m.ID, "error", err)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, m *notification.Message, report *Report) {
	sender, ok := d.senders[m.Channel]
	if !ok {
		m.GiveUp(errs.NewNotificationError(string(m.Channel), string(m.Event),
			fmt.Errorf("no sender configured")))
		report.Failed++
		d.logger.WarnContext(ctx, "No sender for channel",
			"message_id", m.ID, "channel", m.Channel, "event", m.Event)
		return
	}

	err := d.send(ctx, sender, *m)
	if err == nil {
		m.MarkSent(d.now())
		report.Sent++
		return
	}

	m.RecordFailure(err)
	if m.Status == notification.StatusFailed {
		report.Failed++
	} else {
		report.Retried++
	}
	d.logger.WarnContext(ctx, "Notification delivery failed",
		"message_id", m.ID,
		"channel", m.Channel,
		"event", m.Event,
		"order_id", m.OrderID,
		"attempts", m.Attempts,
		"error", err,
	)
}

// send calls the sender with its own timeout and turns both errors and
// panics into a NotificationError.
func (d *Dispatcher) send(ctx context.Context, sender ports.NotificationSender, m notification.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.NewNotificationError(string(m.Channel), string(m.Event), fmt.Errorf("sender panicked: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if sendErr := sender.Send(ctx, m); sendErr != nil {
		return errs.NewNotificationError(string(m.Channel), string(m.Event), sendErr)
	}
	return nil
}
