package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/orders)
	PlaceOrder(ctx echo.Context) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (DELETE /api/v1/orders/{orderId})
	DeleteOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/approve)
	ApproveOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/reject)
	RejectOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (PUT /api/v1/orders/{orderId}/payment)
	SetPaymentStatus(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/reschedule)
	RescheduleOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (PUT /api/v1/deliveries/{deliveryId}/drivers/{driverId})
	AssignDriver(ctx echo.Context, deliveryID, driverID openapi_types.UUID) error
	// (PUT /api/v1/deliveries/{deliveryId}/vehicles/{vehicleId})
	AssignVehicle(ctx echo.Context, deliveryID, vehicleID openapi_types.UUID) error
	// (PUT /api/v1/deliveries/{deliveryId}/status)
	AdvanceDelivery(ctx echo.Context, deliveryID openapi_types.UUID) error
	// (GET /api/v1/drivers/me/orders)
	GetDriverOrders(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func (w *ServerInterfaceWrapper) PlaceOrder(ctx echo.Context) error {
	return w.Handler.PlaceOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetDriverOrders(ctx echo.Context) error {
	return w.Handler.GetDriverOrders(ctx)
}

// withOrderID binds the orderId path parameter before calling fn.
func (w *ServerInterfaceWrapper) withOrderID(fn func(echo.Context, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, err := bindUUID(ctx, "orderId")
		if err != nil {
			return err
		}
		return fn(ctx, orderID)
	}
}

func (w *ServerInterfaceWrapper) AssignDriver(ctx echo.Context) error {
	deliveryID, err := bindUUID(ctx, "deliveryId")
	if err != nil {
		return err
	}
	driverID, err := bindUUID(ctx, "driverId")
	if err != nil {
		return err
	}
	return w.Handler.AssignDriver(ctx, deliveryID, driverID)
}

func (w *ServerInterfaceWrapper) AssignVehicle(ctx echo.Context) error {
	deliveryID, err := bindUUID(ctx, "deliveryId")
	if err != nil {
		return err
	}
	vehicleID, err := bindUUID(ctx, "vehicleId")
	if err != nil {
		return err
	}
	return w.Handler.AssignVehicle(ctx, deliveryID, vehicleID)
}

func (w *ServerInterfaceWrapper) AdvanceDelivery(ctx echo.Context) error {
	deliveryID, err := bindUUID(ctx, "deliveryId")
	if err != nil {
		return err
	}
	return w.Handler.AdvanceDelivery(ctx, deliveryID)
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each operation's route to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/orders", w.PlaceOrder)
	router.GET(baseURL+"/orders/:orderId", w.withOrderID(si.GetOrder))
	router.DELETE(baseURL+"/orders/:orderId", w.withOrderID(si.DeleteOrder))
	router.POST(baseURL+"/orders/:orderId/approve", w.withOrderID(si.ApproveOrder))
	router.POST(baseURL+"/orders/:orderId/reject", w.withOrderID(si.RejectOrder))
	router.POST(baseURL+"/orders/:orderId/cancel", w.withOrderID(si.CancelOrder))
	router.PUT(baseURL+"/orders/:orderId/payment", w.withOrderID(si.SetPaymentStatus))
	router.POST(baseURL+"/orders/:orderId/reschedule", w.withOrderID(si.RescheduleOrder))
	router.PUT(baseURL+"/deliveries/:deliveryId/drivers/:driverId", w.AssignDriver)
	router.PUT(baseURL+"/deliveries/:deliveryId/vehicles/:vehicleId", w.AssignVehicle)
	router.PUT(baseURL+"/deliveries/:deliveryId/status", w.AdvanceDelivery)
	router.GET(baseURL+"/drivers/me/orders", w.GetDriverOrders)
}
