package ports

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/notification"
)

// OutboxRepository stores notification messages until they are delivered.
type OutboxRepository interface {
	Add(ctx context.Context, messages ...notification.Message) error

	// FetchPending returns up to limit pending messages, oldest first.
	FetchPending(ctx context.Context, limit int) ([]notification.Message, error)

	// Save writes the delivery bookkeeping of a message: status, attempts,
	// last error and sent time.
	Save(ctx context.Context, message notification.Message) error

	// PurgeSent deletes sent messages older than before and reports how many.
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}
