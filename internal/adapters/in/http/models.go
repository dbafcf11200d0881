package http

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Request and response bodies of openapi.yaml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Observed is the status a Conflict ran into.
	Observed string `json:"observed,omitempty"`
}

type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type NewOrderItem struct {
	ProductID   openapi_types.UUID  `json:"productId"`
	VariationID *openapi_types.UUID `json:"variationId,omitempty"`
	Quantity    int                 `json:"quantity"`
}

type NewOrder struct {
	Items         []NewOrderItem     `json:"items"`
	PreferredDate openapi_types.Date `json:"preferredDate"`
	PreferredTime *string            `json:"preferredTime,omitempty"`
	Contact       Contact            `json:"contact"`
}

type Created struct {
	ID openapi_types.UUID `json:"id"`
}

type Deleted struct {
	Deleted bool `json:"deleted"`
}

type Reason struct {
	Reason string `json:"reason"`
}

type PaymentUpdate struct {
	Status         string `json:"status"`
	ProofReference string `json:"proofReference,omitempty"`
}

type PaymentResult struct {
	Status       string `json:"status"`
	PaymentFlag  string `json:"paymentFlag"`
	StockUpdated bool   `json:"stockUpdated"`
}

type Schedule struct {
	PreferredDate openapi_types.Date `json:"preferredDate"`
	PreferredTime *string            `json:"preferredTime,omitempty"`
}

type RescheduleResult struct {
	Status          string `json:"status"`
	RescheduleCount int    `json:"rescheduleCount"`
}

type DeliveryStatusUpdate struct {
	Status string `json:"status"`
}

type StatusResult struct {
	Status string `json:"status"`
}

type OrderItem struct {
	ProductID   openapi_types.UUID  `json:"productId"`
	VariationID *openapi_types.UUID `json:"variationId,omitempty"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   string              `json:"unitPrice"`
	Subtotal    string              `json:"subtotal"`
}

type Transaction struct {
	PaymentStatus  string `json:"paymentStatus"`
	ProofReference string `json:"proofReference,omitempty"`
}

type Delivery struct {
	ID              openapi_types.UUID   `json:"id"`
	Status          string               `json:"status"`
	RescheduleCount int                  `json:"rescheduleCount"`
	Drivers         []openapi_types.UUID `json:"drivers"`
	Vehicles        []openapi_types.UUID `json:"vehicles"`
}

type Order struct {
	ID                 openapi_types.UUID `json:"id"`
	CustomerID         openapi_types.UUID `json:"customerId"`
	Status             string             `json:"status"`
	PaymentFlag        string             `json:"paymentFlag"`
	Amount             string             `json:"amount"`
	PreferredDate      openapi_types.Date `json:"preferredDate"`
	PreferredTime      string             `json:"preferredTime,omitempty"`
	RescheduleCount    int                `json:"rescheduleCount"`
	RejectionReason    string             `json:"rejectionReason,omitempty"`
	CancellationReason string             `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	Items              []OrderItem        `json:"items"`
	Transaction        Transaction        `json:"transaction"`
	Delivery           *Delivery          `json:"delivery,omitempty"`
}

type DriverOrder struct {
	OrderID        openapi_types.UUID `json:"orderId"`
	OrderStatus    string             `json:"orderStatus"`
	DeliveryID     openapi_types.UUID `json:"deliveryId"`
	DeliveryStatus string             `json:"deliveryStatus"`
	PreferredDate  openapi_types.Date `json:"preferredDate"`
	PreferredTime  string             `json:"preferredTime,omitempty"`
}

type DriverOrders struct {
	Orders      []DriverOrder `json:"orders"`
	ActiveCount int64         `json:"activeCount"`
}
