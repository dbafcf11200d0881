package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
)

// PaymentResult is what SetPaymentStatusCommandHandler reports back.
type PaymentResult struct {
	Status       order.Status
	PaymentFlag  order.PaymentFlag
	StockUpdated bool
}

// SetPaymentStatusCommandHandler reconciles stock, delivery and the
// transaction with an order's payment flag.
//
// Going ToPay to Paid deducts every item from stock, makes sure the order has
// a delivery in Preparing and moves a WaitingPayment order to Processing.
// Going back restores exactly what was deducted. Setting the current flag
// again changes nothing but still tells the admins.
type SetPaymentStatusCommandHandler struct {
	uowFactory UoWFactory
	policy     access.Policy
	reconciler services.StockReconciler
}

func NewSetPaymentStatusCommandHandler(uowFactory UoWFactory, policy access.Policy) SetPaymentStatusCommandHandler {
	return SetPaymentStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		reconciler: services.NewStockReconciler(),
	}
}

func (h SetPaymentStatusCommandHandler) Handle(ctx context.Context, cmd SetPaymentStatusCommand) (PaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentResult{}, err
	}
	if err := access.Require(h.policy, cmd.Actor(), access.CapOrdersPayment); err != nil {
		return PaymentResult{}, err
	}

	var result PaymentResult
	err := withOrderLock(ctx, h.uowFactory.Create, cmd.OrderID(), func(uow UoW, o *order.Order) error {
		from, to := o.PaymentFlag(), cmd.Target()
		now := time.Now().UTC()
		if from == to {
			mail := newMailbox(now)
			mail.toAdmin(o, notification.EventPaymentStatusChanged, map[string]string{
				"paymentFlag": to.String(),
				"changed":     "false",
			})
			result = PaymentResult{Status: o.Status(), PaymentFlag: from}
			return mail.post(ctx, uow.OutboxRepository())
		}

		adjustments, err := h.reconciler.ForPaymentChange(o, from, to)
		if err != nil {
			return err
		}

		if to == order.Paid {
			if _, err = o.MarkPaid(cmd.ProofReference(), now); err != nil {
				return err
			}
		} else {
			o.MarkUnpaid(now)
		}

		stockUpdated, err := NewInventoryLedger(uow.StockRepository()).ApplyAll(ctx, adjustments, now)
		if err != nil {
			return err
		}

		if to == order.Paid {
			if err = ensureDelivery(ctx, uow.DeliveryRepository(), o.ID(), now); err != nil {
				return err
			}
		}

		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		mail := newMailbox(now)
		payload := map[string]string{"paymentFlag": to.String(), "changed": "true"}
		if to == order.Paid {
			mail.toCustomer(o, notification.EventPaymentConfirmed, nil)
		} else {
			mail.toCustomer(o, notification.EventPaymentRequired, map[string]string{"amount": o.Amount().StringFixed(2)})
		}
		mail.toAdmin(o, notification.EventPaymentStatusChanged, payload)
		if err = mail.post(ctx, uow.OutboxRepository()); err != nil {
			return err
		}

		result = PaymentResult{Status: o.Status(), PaymentFlag: to, StockUpdated: stockUpdated}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	return result, nil
}

// ensureDelivery gives the order a delivery in Preparing. A missing delivery
// is created, a Pending one is advanced, any other status is left alone.
func ensureDelivery(ctx context.Context, deliveries ports.DeliveryRepository, orderID kernel.UUID, now time.Time) error {
	d, err := deliveries.GetLatestByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if d == nil {
		d, err = delivery.NewDelivery(kernel.NewUUID(), orderID, now)
		if err != nil {
			return err
		}
		d.StartPreparing(now)
		return deliveries.Add(ctx, d)
	}

	if d.StartPreparing(now) {
		return deliveries.Update(ctx, d)
	}
	return nil
}
