// Package ports defines the contracts between the back office core and its
// infrastructure: repositories bound to a unit of work, the catalog lookup
// and the notification senders.
package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
)

// OrderRepository persists the Order aggregate together with its items and
// its Transaction projection.
type OrderRepository interface {
	// Add inserts the order, its items and a Transaction row mirroring the
	// payment flag.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order's mutable columns and the Transaction's payment
	// status in one go. Items are never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get reads the order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate reads the order and holds an exclusive row lock on it until
	// the surrounding transaction ends. Every status transition goes through it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Delete removes the order's items, its Transaction and the order row.
	// It reports how many order rows were deleted.
	Delete(ctx context.Context, id kernel.UUID) (int64, error)
}
