package queries

import (
	"context"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/pkg/errs"
)

// DriverOrdersQueryHandler returns a driver's visible orders together with
// how many of their deliveries are still open.
type DriverOrdersQueryHandler struct {
	assignments DriverAssignments
}

func NewDriverOrdersQueryHandler(assignments DriverAssignments) DriverOrdersQueryHandler {
	return DriverOrdersQueryHandler{assignments: assignments}
}

func (h DriverOrdersQueryHandler) Handle(ctx context.Context, query DriverOrdersQuery) (DriverOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return DriverOrdersQueryResponse{}, err
	}
	actor := query.Actor()
	if actor.Role != access.RoleDriver {
		return DriverOrdersQueryResponse{}, errs.NewPermissionDeniedError("drivers.orders")
	}

	orders, err := h.assignments.ListDriverOrders(ctx, actor.ID)
	if err != nil {
		return DriverOrdersQueryResponse{}, err
	}
	count, err := h.assignments.ActiveDeliveryCountForDriver(ctx, actor.ID)
	if err != nil {
		return DriverOrdersQueryResponse{}, err
	}

	return DriverOrdersQueryResponse{Orders: orders, ActiveCount: count}, nil
}
