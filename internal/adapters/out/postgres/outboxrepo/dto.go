// Package outboxrepo stores notification messages written by commands and
// drained by the dispatcher job.
package outboxrepo

import (
	"encoding/json"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OutboxMessageDTO is a row of outbox_messages.
type OutboxMessageDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Channel   string         `gorm:"type:varchar(16);not null"`
	Target    string         `gorm:"type:varchar(255)"`
	Event     string         `gorm:"type:varchar(64);not null"`
	OrderID   uuid.UUID      `gorm:"type:uuid;index"`
	Payload   datatypes.JSON `gorm:"not null"`
	Status    string         `gorm:"type:varchar(16);not null;index:idx_outbox_status_created,priority:1"`
	Attempts  int            `gorm:"not null;default:0"`
	LastError string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"index:idx_outbox_status_created,priority:2"`
	SentAt    *time.Time
}

func (OutboxMessageDTO) TableName() string {
	return "outbox_messages"
}

func fromDomain(m notification.Message) (OutboxMessageDTO, error) {
	payload := m.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return OutboxMessageDTO{}, err
	}
	return OutboxMessageDTO{
		ID:        m.ID.Bytes(),
		Channel:   string(m.Channel),
		Target:    m.Target,
		Event:     string(m.Event),
		OrderID:   m.OrderID.Bytes(),
		Payload:   datatypes.JSON(raw),
		Status:    string(m.Status),
		Attempts:  m.Attempts,
		LastError: m.LastError,
		CreatedAt: m.CreatedAt,
		SentAt:    m.SentAt,
	}, nil
}

func toDomain(dto OutboxMessageDTO) (notification.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return notification.Message{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return notification.Message{}, err
	}
	payload := map[string]string{}
	if len(dto.Payload) > 0 {
		if err := json.Unmarshal(dto.Payload, &payload); err != nil {
			return notification.Message{}, err
		}
	}
	return notification.Message{
		ID:        id,
		Channel:   notification.Channel(dto.Channel),
		Target:    dto.Target,
		Event:     notification.Event(dto.Event),
		OrderID:   orderID,
		Payload:   payload,
		Status:    notification.Status(dto.Status),
		Attempts:  dto.Attempts,
		LastError: dto.LastError,
		CreatedAt: dto.CreatedAt,
		SentAt:    dto.SentAt,
	}, nil
}
