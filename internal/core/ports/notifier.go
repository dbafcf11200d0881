package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"
)

// NotificationSender delivers a message over one channel.
type NotificationSender interface {
	Send(ctx context.Context, message notification.Message) error
}

// MessageClaimer keeps two dispatcher replicas from sending the same
// message at the same time.
type MessageClaimer interface {
	// Claim reports whether the caller now owns id.
	Claim(ctx context.Context, id kernel.UUID) (bool, error)
	Release(ctx context.Context, id kernel.UUID) error
}
