package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/order"
)

// AssignDeliveryCommandHandler attaches drivers and vehicles to deliveries.
// Assignments accumulate; assigning the same pair twice is harmless.
type AssignDeliveryCommandHandler struct {
	uowFactory UoWFactory
	policy     access.Policy
}

func NewAssignDeliveryCommandHandler(uowFactory UoWFactory, policy access.Policy) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := access.Require(h.policy, cmd.Actor(), access.CapDeliveriesAssign); err != nil {
		return err
	}

	return withDeliveryLock(ctx, h.uowFactory.Create, cmd.DeliveryID(), func(uow UoW, _ *order.Order, d *delivery.Delivery) error {
		now := time.Now().UTC()

		var err error
		switch cmd.Resource() {
		case ResourceVehicle:
			err = d.AssignVehicle(cmd.ResourceID(), now)
		default:
			err = d.AssignDriver(cmd.ResourceID(), now)
		}
		if err != nil {
			return err
		}

		return uow.DeliveryRepository().Update(ctx, d)
	})
}
