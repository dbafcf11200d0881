package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

// PlaceOrderCommandHandler turns a checkout into an order in PendingApproval
// with its items and a pending transaction.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, catalog)
//	orderID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.CatalogReader
}

func NewPlaceOrderCommandHandler(uowFactory OrderUoWFactory, catalog ports.CatalogReader) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

// Handle prices every line from the catalog before opening the transaction,
// so the catalog lookup never holds a connection the transaction needs.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if cmd.Actor().Role != access.RoleCustomer {
		return kernel.UUID{}, errs.NewPermissionDeniedError("orders.place")
	}

	lines := cmd.Lines()
	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		price, err := h.catalog.UnitPrice(ctx, l.ProductID, l.VariationID)
		if err != nil {
			return kernel.UUID{}, err
		}
		item, err := order.NewItem(l.ProductID, l.VariationID, l.Quantity, price)
		if err != nil {
			return kernel.UUID{}, err
		}
		items = append(items, item)
	}

	now := time.Now().UTC()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.Actor().ID,
		items,
		cmd.PreferredDate(),
		cmd.PreferredTime(),
		cmd.Contact(),
		now,
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	mail := newMailbox(now)
	mail.toAdmin(o, notification.EventOrderPlaced, map[string]string{"amount": o.Amount().StringFixed(2)})
	if err = mail.post(ctx, uow.OutboxRepository()); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return o.ID(), nil
}
