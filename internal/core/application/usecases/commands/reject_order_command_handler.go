package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
)

// RejectOrderCommandHandler turns down orders awaiting approval.
type RejectOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     access.Policy
}

func NewRejectOrderCommandHandler(uowFactory OrderUoWFactory, policy access.Policy) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}
	if err := access.Require(h.policy, cmd.Actor(), access.CapOrdersAccept); err != nil {
		return order.Unknown, err
	}

	var status order.Status
	err := withOrderLock(ctx, h.uowFactory.Create, cmd.OrderID(), func(uow OrderUoW, o *order.Order) error {
		now := time.Now().UTC()
		if err := o.Reject(cmd.Actor().ID, cmd.Reason(), now); err != nil {
			return err
		}
		if err := uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		mail := newMailbox(now)
		mail.toCustomer(o, notification.EventOrderRejected, map[string]string{"reason": o.RejectionReason()})
		status = o.Status()
		return mail.post(ctx, uow.OutboxRepository())
	})
	if err != nil {
		return order.Unknown, err
	}

	return status, nil
}
