package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
)

// ApproveOrderCommandHandler approves orders under the order row lock, so of
// two concurrent approvals exactly one wins and the other gets a
// ConflictError with the status it found.
//
// A rescheduled order that is still paid goes straight to Processing and its
// delivery back to Preparing; its stock stays deducted.
type ApproveOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     access.Policy
}

func NewApproveOrderCommandHandler(uowFactory UoWFactory, policy access.Policy) ApproveOrderCommandHandler {
	return ApproveOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h ApproveOrderCommandHandler) Handle(ctx context.Context, cmd ApproveOrderCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}
	if err := access.Require(h.policy, cmd.Actor(), access.CapOrdersAccept); err != nil {
		return order.Unknown, err
	}

	var status order.Status
	err := withOrderLock(ctx, h.uowFactory.Create, cmd.OrderID(), func(uow UoW, o *order.Order) error {
		now := time.Now().UTC()
		if err := o.Approve(cmd.Actor().ID, now); err != nil {
			return err
		}
		if err := uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		mail := newMailbox(now)
		if o.PaymentFlag() == order.Paid {
			if err := ensureDelivery(ctx, uow.DeliveryRepository(), o.ID(), now); err != nil {
				return err
			}
			mail.toCustomer(o, notification.EventOrderApproved, nil)
		} else {
			mail.toCustomer(o, notification.EventPaymentRequired, map[string]string{"amount": o.Amount().StringFixed(2)})
		}
		status = o.Status()
		return mail.post(ctx, uow.OutboxRepository())
	})
	if err != nil {
		return order.Unknown, err
	}

	return status, nil
}
