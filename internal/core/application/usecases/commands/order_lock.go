package commands

import (
	"context"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
)

type lockingUoW interface {
	TxManager
	OrderRepoFactory
}

// withOrderLock runs fn inside a fresh unit of work holding the order row
// lock. The transaction commits when fn returns nil and rolls back
// otherwise. Every status transition of an order goes through here.
func withOrderLock[U lockingUoW](
	ctx context.Context,
	create func() U,
	orderID kernel.UUID,
	fn func(uow U, o *order.Order) error,
) error {
	uow := create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}

	if err = fn(uow, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// withDeliveryLock locks the order owning deliveryID, then the delivery
// itself, and runs fn. The order lock comes first so delivery operations
// serialize with every other transition of the same order.
func withDeliveryLock(
	ctx context.Context,
	create func() UoW,
	deliveryID kernel.UUID,
	fn func(uow UoW, o *order.Order, d *delivery.Delivery) error,
) error {
	uow := create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveries := uow.DeliveryRepository()
	current, err := deliveries.Get(ctx, deliveryID)
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, current.OrderID())
	if err != nil {
		return err
	}

	d, err := deliveries.GetForUpdate(ctx, deliveryID)
	if err != nil {
		return err
	}

	if err = fn(uow, o, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
