package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels an order together with its active
// delivery. Stock is left alone: it follows the payment flag only.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     access.Policy
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, policy access.Policy) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle returns Cancelled on success. Cancelling an already cancelled order
// succeeds without writing anything or notifying anyone.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	var status order.Status
	err := withOrderLock(ctx, h.uowFactory.Create, cmd.OrderID(), func(uow UoW, o *order.Order) error {
		actor := cmd.Actor()
		if !o.IsOwnedBy(actor.ID) {
			if err := access.Require(h.policy, actor, access.CapOrdersCancel); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		changed, err := o.Cancel(actor.ID, cmd.Reason(), now)
		if err != nil {
			return err
		}
		status = o.Status()
		if !changed {
			return nil
		}

		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		deliveries := uow.DeliveryRepository()
		d, err := deliveries.GetLatestByOrder(ctx, o.ID())
		if err != nil {
			return err
		}
		if d != nil && d.IsActive() {
			if _, err = d.Cancel(now); err != nil {
				return err
			}
			if err = deliveries.Update(ctx, d); err != nil {
				return err
			}
		}

		payload := map[string]string{"reason": o.CancellationReason()}
		mail := newMailbox(now)
		mail.toCustomer(o, notification.EventOrderCancelled, payload)
		mail.toAdmin(o, notification.EventOrderCancelled, payload)
		return mail.post(ctx, uow.OutboxRepository())
	})
	if err != nil {
		return order.Unknown, err
	}

	return status, nil
}
