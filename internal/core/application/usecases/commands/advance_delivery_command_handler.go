package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
)

// AdvanceDeliveryCommandHandler records delivery progress reported by a
// driver assigned to the delivery, or by staff. Going OutForDelivery marks
// the order Ready; Delivered is where an order's life ends.
type AdvanceDeliveryCommandHandler struct {
	uowFactory UoWFactory
	policy     access.Policy
}

func NewAdvanceDeliveryCommandHandler(uowFactory UoWFactory, policy access.Policy) AdvanceDeliveryCommandHandler {
	return AdvanceDeliveryCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h AdvanceDeliveryCommandHandler) Handle(ctx context.Context, cmd AdvanceDeliveryCommand) (delivery.Status, error) {
	if err := cmd.Validate(); err != nil {
		return delivery.Unknown, err
	}

	var status delivery.Status
	err := withDeliveryLock(ctx, h.uowFactory.Create, cmd.DeliveryID(), func(uow UoW, o *order.Order, d *delivery.Delivery) error {
		actor := cmd.Actor()
		if actor.Role != access.RoleDriver || !d.IsVisibleTo(actor.ID) {
			if err := access.Require(h.policy, actor, access.CapDeliveriesAssign); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		if cmd.Target() == delivery.OutForDelivery {
			if err := o.MarkReady(now); err != nil {
				return err
			}
		}

		changed, err := d.Advance(cmd.Target(), now)
		if err != nil {
			return err
		}
		status = d.Status()
		if !changed {
			return nil
		}

		if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
			return err
		}
		if cmd.Target() == delivery.OutForDelivery {
			if err = uow.OrderRepository().Update(ctx, o); err != nil {
				return err
			}
		}

		mail := newMailbox(now)
		mail.toCustomer(o, notification.EventDeliveryStatusChanged, map[string]string{"status": status.String()})
		return mail.post(ctx, uow.OutboxRepository())
	})
	if err != nil {
		return delivery.Unknown, err
	}

	return status, nil
}
