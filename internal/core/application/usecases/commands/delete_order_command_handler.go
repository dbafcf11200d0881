package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/pkg/errs"
)

// DeleteOrderCommandHandler hard-deletes an order with everything hanging
// off it. A paid order first gives its items back to stock.
type DeleteOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     access.Policy
	reconciler services.StockReconciler
}

func NewDeleteOrderCommandHandler(uowFactory UoWFactory, policy access.Policy) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		reconciler: services.NewStockReconciler(),
	}
}

func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := access.Require(h.policy, cmd.Actor(), access.CapOrdersDelete); err != nil {
		return err
	}

	return withOrderLock(ctx, h.uowFactory.Create, cmd.OrderID(), func(uow UoW, o *order.Order) error {
		now := time.Now().UTC()

		restorations, err := h.reconciler.ForDeletion(o)
		if err != nil {
			return err
		}
		if _, err = NewInventoryLedger(uow.StockRepository()).ApplyAll(ctx, restorations, now); err != nil {
			return err
		}

		if err = uow.DeliveryRepository().DeleteByOrder(ctx, o.ID()); err != nil {
			return err
		}
		deleted, err := uow.OrderRepository().Delete(ctx, o.ID())
		if err != nil {
			return err
		}
		if deleted == 0 {
			return errs.NewConflictError("order "+o.ID().String(), "already deleted")
		}

		mail := newMailbox(now)
		mail.toAdmin(o, notification.EventOrderDeleted, map[string]string{
			"paymentFlag": o.PaymentFlag().String(),
			"status":      o.Status().String(),
		})
		return mail.post(ctx, uow.OutboxRepository())
	})
}
