package ports

import (
	"context"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
)

// DeliveryRepository persists deliveries and their driver and vehicle
// assignments.
type DeliveryRepository interface {
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update writes the delivery row and inserts any assignment pair not yet
	// stored. Existing pairs are left alone.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate reads the delivery under an exclusive row lock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetLatestByOrder returns the most recently created delivery of an order,
	// which is the authoritative one, or nil when the order has none.
	GetLatestByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// DeleteByOrder removes every delivery of the order with its assignments.
	DeleteByOrder(ctx context.Context, orderID kernel.UUID) error
}
