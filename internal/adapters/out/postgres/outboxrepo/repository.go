package outboxrepo

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/core/domain/model/notification"

	"gorm.io/gorm"
)

// GormOutboxRepository implements ports.OutboxRepository.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Add(ctx context.Context, messages ...notification.Message) error {
	if len(messages) == 0 {
		return nil
	}
	rows := make([]OutboxMessageDTO, 0, len(messages))
	for _, m := range messages {
		dto, err := fromDomain(m)
		if err != nil {
			return fmt.Errorf("encode outbox message %s: %w", m.ID, err)
		}
		rows = append(rows, dto)
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return pgerr.Wrap("insert outbox messages", err)
	}
	return nil
}

func (r *GormOutboxRepository) FetchPending(ctx context.Context, limit int) ([]notification.Message, error) {
	var rows []OutboxMessageDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", string(notification.StatusPending)).
		Order("created_at").Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, pgerr.Wrap("fetch pending outbox messages", err)
	}

	messages := make([]notification.Message, 0, len(rows))
	for _, row := range rows {
		m, err := toDomain(row)
		if err != nil {
			return nil, fmt.Errorf("decode outbox message %s: %w", row.ID, err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormOutboxRepository) Save(ctx context.Context, message notification.Message) error {
	result := r.db.WithContext(ctx).Model(&OutboxMessageDTO{}).
		Where("id = ?", message.ID.Bytes()).
		Updates(map[string]any{
			"status":     string(message.Status),
			"attempts":   message.Attempts,
			"last_error": message.LastError,
			"sent_at":    message.SentAt,
		})
	if result.Error != nil {
		return pgerr.Wrap("save outbox message", result.Error)
	}
	if result.RowsAffected == 0 {
		return pgerr.NotFound("outbox message", message.ID.String(), "save outbox message", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormOutboxRepository) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND sent_at < ?", string(notification.StatusSent), before).
		Delete(&OutboxMessageDTO{})
	if result.Error != nil {
		return 0, pgerr.Wrap("purge sent outbox messages", result.Error)
	}
	return result.RowsAffected, nil
}
