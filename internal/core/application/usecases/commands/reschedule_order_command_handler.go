package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
)

type RescheduleResult struct {
	Status          order.Status
	RescheduleCount int
}

// RescheduleOrderCommandHandler lets a customer bring a cancelled order back
// with a new delivery date. The order returns to PendingApproval and its
// delivery, if any, to Pending. Three reschedules at most.
type RescheduleOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewRescheduleOrderCommandHandler(uowFactory UoWFactory) RescheduleOrderCommandHandler {
	return RescheduleOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RescheduleOrderCommandHandler) Handle(ctx context.Context, cmd RescheduleOrderCommand) (RescheduleResult, error) {
	if err := cmd.Validate(); err != nil {
		return RescheduleResult{}, err
	}

	var result RescheduleResult
	err := withOrderLock(ctx, h.uowFactory.Create, cmd.OrderID(), func(uow UoW, o *order.Order) error {
		deliveries := uow.DeliveryRepository()
		d, err := deliveries.GetLatestByOrder(ctx, o.ID())
		if err != nil {
			return err
		}
		deliveryCancelled := d != nil && d.Status() == delivery.Cancelled

		now := time.Now().UTC()
		if err = o.Reschedule(cmd.Actor().ID, cmd.Date(), cmd.Time(), deliveryCancelled, now); err != nil {
			return err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		if d != nil {
			d.ResetForReschedule(now)
			if err = deliveries.Update(ctx, d); err != nil {
				return err
			}
		}

		payload := map[string]string{"date": o.PreferredDate().String()}
		if t := o.PreferredTime(); t != nil {
			payload["time"] = t.String()
		}
		mail := newMailbox(now)
		mail.toAdmin(o, notification.EventOrderRescheduled, payload)
		if err = mail.post(ctx, uow.OutboxRepository()); err != nil {
			return err
		}

		result = RescheduleResult{Status: o.Status(), RescheduleCount: o.RescheduleCount()}
		return nil
	})
	if err != nil {
		return RescheduleResult{}, err
	}

	return result, nil
}
