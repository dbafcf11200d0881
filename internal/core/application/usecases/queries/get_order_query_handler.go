package queries

import (
	"context"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

// GetOrderQueryHandler serves order views to the order's owner, to staff and
// to drivers the order's active delivery is visible to. Anyone else gets
// NotFound rather than a hint that the order exists.
type GetOrderQueryHandler struct {
	orders      ports.OrderRepository
	deliveries  ports.DeliveryRepository
	assignments DriverAssignments
}

func NewGetOrderQueryHandler(
	orders ports.OrderRepository,
	deliveries ports.DeliveryRepository,
	assignments DriverAssignments,
) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		orders:      orders,
		deliveries:  deliveries,
		assignments: assignments,
	}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if err = h.authorize(ctx, query.Actor(), o); err != nil {
		return GetOrderQueryResponse{}, err
	}

	d, err := h.deliveries.GetLatestByOrder(ctx, o.ID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	s := o.Snapshot()
	resp := GetOrderQueryResponse{
		ID:                 s.ID,
		CustomerID:         s.CustomerID,
		Status:             s.Status.String(),
		PaymentFlag:        s.PaymentFlag.String(),
		Amount:             o.Amount(),
		PreferredDate:      s.PreferredDate,
		RescheduleCount:    s.RescheduleCount,
		RejectionReason:    s.RejectionReason,
		CancellationReason: s.CancellationReason,
		CreatedAt:          s.CreatedAt,
		Transaction: TransactionView{
			PaymentStatus:  string(s.PaymentFlag.TransactionStatus()),
			ProofReference: s.ProofReference,
		},
	}
	if s.PreferredTime != nil {
		resp.PreferredTime = s.PreferredTime.String()
	}
	for _, it := range o.Items() {
		resp.Items = append(resp.Items, OrderItemView{
			ProductID:   it.ProductID(),
			VariationID: it.VariationID(),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice(),
			Subtotal:    it.Subtotal(),
		})
	}
	if d != nil {
		resp.Delivery = &DeliveryView{
			ID:              d.ID(),
			Status:          d.Status().String(),
			RescheduleCount: d.RescheduleCount(),
			Drivers:         d.Drivers(),
			Vehicles:        d.Vehicles(),
		}
	}

	return resp, nil
}

func (h GetOrderQueryHandler) authorize(ctx context.Context, actor access.Actor, o *order.Order) error {
	switch {
	case actor.IsStaff(), o.IsOwnedBy(actor.ID):
		return nil
	case actor.Role == access.RoleDriver:
		visible, err := h.assignments.IsVisibleToDriver(ctx, o.ID(), actor.ID)
		if err != nil {
			return err
		}
		if visible {
			return nil
		}
	}
	return errs.NewObjectNotFoundError("order", o.ID().String())
}
