package notify

import (
	"context"
	"encoding/json"
	"time"

	"backoffice/internal/core/domain/model/notification"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the admin sender needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter builds a writer for the admin topic. The caller closes it.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
}

// KafkaAdminSender publishes admin notifications to a shared topic keyed
// by order, so every event of one order lands on the same partition.
type KafkaAdminSender struct {
	writer MessageWriter
}

func NewKafkaAdminSender(writer MessageWriter) *KafkaAdminSender {
	return &KafkaAdminSender{writer: writer}
}

type adminEvent struct {
	ID        string            `json:"id"`
	Event     string            `json:"event"`
	OrderID   string            `json:"order_id"`
	Text      string            `json:"text"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func (s *KafkaAdminSender) Send(ctx context.Context, m notification.Message) error {
	value, err := json.Marshal(adminEvent{
		ID:        m.ID.String(),
		Event:     string(m.Event),
		OrderID:   m.OrderID.String(),
		Text:      m.Text(),
		Payload:   m.Payload,
		CreatedAt: m.CreatedAt,
	})
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(m.OrderID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(m.Event)},
		},
	})
}
