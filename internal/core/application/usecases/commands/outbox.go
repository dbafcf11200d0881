package commands

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
)

// mailbox collects the messages of one command before they are written to
// the outbox together with the state change that caused them.
type mailbox struct {
	messages []notification.Message
	errList  []error
	now      time.Time
}

func newMailbox(now time.Time) *mailbox {
	return &mailbox{now: now}
}

// toCustomer addresses the order's contact by email and SMS, skipping the
// channels the customer left empty.
func (m *mailbox) toCustomer(o *order.Order, event notification.Event, payload map[string]string) {
	contact := o.Contact()
	if contact.Email != "" {
		m.add(notification.ChannelEmail, contact.Email, event, o, payload)
	}
	if contact.Phone != "" {
		m.add(notification.ChannelSMS, contact.Phone, event, o, payload)
	}
}

func (m *mailbox) toAdmin(o *order.Order, event notification.Event, payload map[string]string) {
	m.add(notification.ChannelAdmin, "", event, o, payload)
}

func (m *mailbox) add(channel notification.Channel, target string, event notification.Event, o *order.Order, payload map[string]string) {
	msg, err := notification.NewMessage(channel, target, event, o.ID(), payload, m.now)
	if err != nil {
		m.errList = append(m.errList, err)
		return
	}
	m.messages = append(m.messages, msg)
}

// post writes the collected messages to the outbox.
func (m *mailbox) post(ctx context.Context, outbox ports.OutboxRepository) error {
	if err := errors.Join(m.errList...); err != nil {
		return err
	}
	if len(m.messages) == 0 {
		return nil
	}
	return outbox.Add(ctx, m.messages...)
}
