// Package notification describes outbound messages produced by order and
// delivery transitions. Messages are written to an outbox in the same
// transaction as the transition and delivered later.
package notification

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// MaxAttempts is how many deliveries are tried before a message is given up.
const MaxAttempts = 5

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelAdmin Channel = "admin"
)

type Event string

const (
	EventOrderPlaced           Event = "order_placed"
	EventOrderApproved         Event = "order_approved"
	EventPaymentRequired       Event = "payment_required"
	EventPaymentConfirmed      Event = "payment_confirmed"
	EventPaymentStatusChanged  Event = "payment_status_changed"
	EventOrderRejected         Event = "order_rejected"
	EventOrderCancelled        Event = "order_cancelled"
	EventOrderDeleted          Event = "order_deleted"
	EventOrderRescheduled      Event = "order_rescheduled"
	EventDeliveryStatusChanged Event = "delivery_status_changed"
)

var eventLines = map[Event]string{
	EventOrderPlaced:           "New order %s is waiting for approval.",
	EventOrderApproved:         "Order %s was approved.",
	EventPaymentRequired:       "Order %s is waiting for your payment.",
	EventPaymentConfirmed:      "Payment for order %s is confirmed.",
	EventPaymentStatusChanged:  "Payment status of order %s changed.",
	EventOrderRejected:         "Order %s was rejected.",
	EventOrderCancelled:        "Order %s was cancelled.",
	EventOrderDeleted:          "Order %s was deleted.",
	EventOrderRescheduled:      "Order %s was rescheduled.",
	EventDeliveryStatusChanged: "Delivery of order %s changed status.",
}

type Status string

const (
	StatusPending Status = "Pending"
	StatusSent    Status = "Sent"
	StatusFailed  Status = "Failed"
)

// Message is one outbox entry.
type Message struct {
	ID        kernel.UUID
	Channel   Channel
	Target    string
	Event     Event
	OrderID   kernel.UUID
	Payload   map[string]string
	Status    Status
	Attempts  int
	LastError string
	CreatedAt time.Time
	SentAt    *time.Time
}

// NewMessage builds a pending message. Email and SMS messages need a target;
// admin messages go to the shared admin stream and ignore it.
func NewMessage(channel Channel, target string, event Event, orderID kernel.UUID, payload map[string]string, now time.Time) (Message, error) {
	target = strings.TrimSpace(target)
	switch channel {
	case ChannelEmail, ChannelSMS:
		if target == "" {
			return Message{}, errs.NewValueIsRequiredError("target")
		}
	case ChannelAdmin:
	default:
		return Message{}, errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("unknown channel %q", channel))
	}
	if _, ok := eventLines[event]; !ok {
		return Message{}, errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("unknown event %q", event))
	}

	return Message{
		ID:        kernel.NewUUID(),
		Channel:   channel,
		Target:    target,
		Event:     event,
		OrderID:   orderID,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: now,
	}, nil
}

// Text renders the message as a single line followed by its payload in key
// order, e.g. "Order 1f.. was cancelled. reason=out of stock".
func (m Message) Text() string {
	line, ok := eventLines[m.Event]
	if !ok {
		line = string(m.Event) + " %s"
	}
	var b strings.Builder
	fmt.Fprintf(&b, line, m.OrderID)

	keys := make([]string, 0, len(m.Payload))
	for k := range m.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m.Payload[k] == "" {
			continue
		}
		fmt.Fprintf(&b, " %s=%s", k, m.Payload[k])
	}
	return b.String()
}

// MarkSent records a successful delivery.
func (m *Message) MarkSent(now time.Time) {
	m.Attempts++
	m.Status = StatusSent
	m.LastError = ""
	m.SentAt = &now
}

// RecordFailure counts a failed attempt. After MaxAttempts the message is
// marked Failed and no longer retried.
func (m *Message) RecordFailure(cause error) {
	m.Attempts++
	if cause != nil {
		m.LastError = cause.Error()
	}
	if m.Attempts >= MaxAttempts {
		m.Status = StatusFailed
	}
}

// GiveUp marks the message Failed regardless of attempts left.
func (m *Message) GiveUp(cause error) {
	m.RecordFailure(cause)
	m.Status = StatusFailed
}
