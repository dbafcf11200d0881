package http

import (
	"net/http"
	"strings"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Handlers are the use cases the server exposes.
type Handlers struct {
	PlaceOrder       commands.PlaceOrderCommandHandler
	ApproveOrder     commands.ApproveOrderCommandHandler
	RejectOrder      commands.RejectOrderCommandHandler
	CancelOrder      commands.CancelOrderCommandHandler
	DeleteOrder      commands.DeleteOrderCommandHandler
	SetPaymentStatus commands.SetPaymentStatusCommandHandler
	RescheduleOrder  commands.RescheduleOrderCommandHandler
	AssignDelivery   commands.AssignDeliveryCommandHandler
	AdvanceDelivery  commands.AdvanceDeliveryCommandHandler

	GetOrder     queries.GetOrderQueryHandler
	DriverOrders queries.DriverOrdersQueryHandler
}

// Server implements ServerInterface on top of the command and query
// handlers. Errors are returned as is and mapped by ErrorHandler.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

var _ ServerInterface = (*Server)(nil)

func uuidOf(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func bindBody(ctx echo.Context, dst any) error {
	if err := ctx.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return nil
}

func parseTime(s *string) (*kernel.TimeOfDay, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	tod, err := kernel.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &tod, nil
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body NewOrder
	if err = bindBody(ctx, &body); err != nil {
		return err
	}

	lines := make([]commands.PlaceOrderLine, 0, len(body.Items))
	for _, it := range body.Items {
		productID, idErr := uuidOf(it.ProductID)
		if idErr != nil {
			return idErr
		}
		line := commands.PlaceOrderLine{ProductID: productID, Quantity: it.Quantity}
		if it.VariationID != nil {
			variationID, varErr := uuidOf(*it.VariationID)
			if varErr != nil {
				return varErr
			}
			line.VariationID = &variationID
		}
		lines = append(lines, line)
	}

	tod, err := parseTime(body.PreferredTime)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPlaceOrderCommand(actor, lines, kernel.DateOf(body.PreferredDate.Time), tod,
		order.Contact{Email: body.Contact.Email, Phone: body.Contact.Phone})
	if err != nil {
		return err
	}

	id, err := s.h.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, Created{ID: id.Bytes()})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidOf(orderID)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(actor, id)
	if err != nil {
		return err
	}
	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, orderResponse(view))
}

func orderResponse(v queries.GetOrderQueryResponse) Order {
	resp := Order{
		ID:                 v.ID.Bytes(),
		CustomerID:         v.CustomerID.Bytes(),
		Status:             v.Status,
		PaymentFlag:        v.PaymentFlag,
		Amount:             v.Amount.StringFixed(2),
		PreferredDate:      openapi_types.Date{Time: v.PreferredDate.Time()},
		PreferredTime:      v.PreferredTime,
		RescheduleCount:    v.RescheduleCount,
		RejectionReason:    v.RejectionReason,
		CancellationReason: v.CancellationReason,
		CreatedAt:          v.CreatedAt,
		Items:              make([]OrderItem, 0, len(v.Items)),
		Transaction: Transaction{
			PaymentStatus:  v.Transaction.PaymentStatus,
			ProofReference: v.Transaction.ProofReference,
		},
	}
	for _, it := range v.Items {
		item := OrderItem{
			ProductID: it.ProductID.Bytes(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal.StringFixed(2),
		}
		if it.VariationID != nil {
			variationID := it.VariationID.Bytes()
			item.VariationID = &variationID
		}
		resp.Items = append(resp.Items, item)
	}
	if v.Delivery != nil {
		resp.Delivery = &Delivery{
			ID:              v.Delivery.ID.Bytes(),
			Status:          v.Delivery.Status,
			RescheduleCount: v.Delivery.RescheduleCount,
			Drivers:         toAPIIDs(v.Delivery.Drivers),
			Vehicles:        toAPIIDs(v.Delivery.Vehicles),
		}
	}
	return resp
}

func toAPIIDs(ids []kernel.UUID) []openapi_types.UUID {
	out := make([]openapi_types.UUID, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Bytes())
	}
	return out
}

// DeleteOrder handles DELETE /api/v1/orders/{orderId}.
func (s *Server) DeleteOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidOf(orderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteOrderCommand(actor, id)
	if err != nil {
		return err
	}
	if err = s.h.DeleteOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, Deleted{Deleted: true})
}

// ApproveOrder handles POST /api/v1/orders/{orderId}/approve.
func (s *Server) ApproveOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidOf(orderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewApproveOrderCommand(actor, id)
	if err != nil {
		return err
	}
	status, err := s.h.ApproveOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StatusResult{Status: status.String()})
}

// RejectOrder handles POST /api/v1/orders/{orderId}/reject.
func (s *Server) RejectOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidOf(orderID)
	if err != nil {
		return err
	}

	var body Reason
	if err = bindBody(ctx, &body); err != nil {
		return err
	}

	cmd, err := commands.NewRejectOrderCommand(actor, id, body.Reason)
	if err != nil {
		return err
	}
	status, err := s.h.RejectOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StatusResult{Status: status.String()})
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel. The body is
// optional.
func (s *Server) CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidOf(orderID)
	if err != nil {
		return err
	}

	var body Reason
	if ctx.Request().ContentLength != 0 {
		if err = bindBody(ctx, &body); err != nil {
			return err
		}
	}

	cmd, err := commands.NewCancelOrderCommand(actor, id, body.Reason)
	if err != nil {
		return err
	}
	status, err := s.h.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StatusResult{Status: status.String()})
}

// SetPaymentStatus handles PUT /api/v1/orders/{orderId}/payment.
func (s *Server) SetPaymentStatus(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidOf(orderID)
	if err != nil {
		return err
	}

	var body PaymentUpdate
	if err = bindBody(ctx, &body); err != nil {
		return err
	}
	flag, err := order.ParsePaymentFlag(body.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSetPaymentStatusCommand(actor, id, flag, body.ProofReference)
	if err != nil {
		return err
	}
	result, err := s.h.SetPaymentStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, PaymentResult{
		Status:       result.Status.String(),
		PaymentFlag:  result.PaymentFlag.String(),
		StockUpdated: result.StockUpdated,
	})
}

// RescheduleOrder handles POST /api/v1/orders/{orderId}/reschedule.
func (s *Server) RescheduleOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidOf(orderID)
	if err != nil {
		return err
	}

	var body Schedule
	if err = bindBody(ctx, &body); err != nil {
		return err
	}
	tod, err := parseTime(body.PreferredTime)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRescheduleOrderCommand(actor, id, kernel.DateOf(body.PreferredDate.Time), tod)
	if err != nil {
		return err
	}
	result, err := s.h.RescheduleOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, RescheduleResult{
		Status:          result.Status.String(),
		RescheduleCount: result.RescheduleCount,
	})
}

// AssignDriver handles PUT /api/v1/deliveries/{deliveryId}/drivers/{driverId}.
func (s *Server) AssignDriver(ctx echo.Context, deliveryID, driverID openapi_types.UUID) error {
	return s.assign(ctx, deliveryID, driverID, commands.NewAssignDriverCommand)
}

// AssignVehicle handles PUT /api/v1/deliveries/{deliveryId}/vehicles/{vehicleId}.
func (s *Server) AssignVehicle(ctx echo.Context, deliveryID, vehicleID openapi_types.UUID) error {
	return s.assign(ctx, deliveryID, vehicleID, commands.NewAssignVehicleCommand)
}

type assignCommandFunc func(actor access.Actor, deliveryID, resourceID kernel.UUID) (commands.AssignDeliveryCommand, error)

func (s *Server) assign(ctx echo.Context, deliveryID, resourceID openapi_types.UUID, newCommand assignCommandFunc) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	did, err := uuidOf(deliveryID)
	if err != nil {
		return err
	}
	rid, err := uuidOf(resourceID)
	if err != nil {
		return err
	}

	cmd, err := newCommand(actor, did, rid)
	if err != nil {
		return err
	}
	if err = s.h.AssignDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AdvanceDelivery handles PUT /api/v1/deliveries/{deliveryId}/status.
func (s *Server) AdvanceDelivery(ctx echo.Context, deliveryID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidOf(deliveryID)
	if err != nil {
		return err
	}

	var body DeliveryStatusUpdate
	if err = bindBody(ctx, &body); err != nil {
		return err
	}
	target, err := delivery.ParseStatus(body.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAdvanceDeliveryCommand(actor, id, target)
	if err != nil {
		return err
	}
	status, err := s.h.AdvanceDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StatusResult{Status: status.String()})
}

// GetDriverOrders handles GET /api/v1/drivers/me/orders.
func (s *Server) GetDriverOrders(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	query, err := queries.NewDriverOrdersQuery(actor)
	if err != nil {
		return err
	}
	result, err := s.h.DriverOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := DriverOrders{Orders: make([]DriverOrder, 0, len(result.Orders)), ActiveCount: result.ActiveCount}
	for _, o := range result.Orders {
		resp.Orders = append(resp.Orders, DriverOrder{
			OrderID:        o.OrderID.Bytes(),
			OrderStatus:    o.OrderStatus,
			DeliveryID:     o.DeliveryID.Bytes(),
			DeliveryStatus: o.DeliveryStatus,
			PreferredDate:  openapi_types.Date{Time: o.PreferredDate.Time()},
			PreferredTime:  o.PreferredTime,
		})
	}
	return ctx.JSON(http.StatusOK, resp)
}
