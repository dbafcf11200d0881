package queries

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order as seen by actor.
type GetOrderQuery struct {
	actor   access.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor access.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() access.Actor { return q.actor }
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is the full view of an order: lines, payment
// projection and the active delivery with its driver and vehicle sets.
type GetOrderQueryResponse struct {
	ID                 kernel.UUID
	CustomerID         kernel.UUID
	Status             string
	PaymentFlag        string
	Amount             decimal.Decimal
	PreferredDate      kernel.Date
	PreferredTime      string
	RescheduleCount    int
	RejectionReason    string
	CancellationReason string
	CreatedAt          time.Time
	Items              []OrderItemView
	Transaction        TransactionView
	Delivery           *DeliveryView
}

type OrderItemView struct {
	ProductID   kernel.UUID
	VariationID *kernel.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

type TransactionView struct {
	PaymentStatus  string
	ProofReference string
}

type DeliveryView struct {
	ID              kernel.UUID
	Status          string
	RescheduleCount int
	Drivers         []kernel.UUID
	Vehicles        []kernel.UUID
}

var ErrDriverOrdersQueryIsNotConstructed = errors.New(
	"DriverOrdersQuery must be created via NewDriverOrdersQuery constructor",
)

// DriverOrdersQuery lists the calling driver's work.
type DriverOrdersQuery struct {
	actor access.Actor
	guard guard.ConstructorGuard
}

func NewDriverOrdersQuery(actor access.Actor) (DriverOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return DriverOrdersQuery{}, err
	}
	return DriverOrdersQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q DriverOrdersQuery) Validate() error {
	return q.guard.Validate(ErrDriverOrdersQueryIsNotConstructed)
}

func (q DriverOrdersQuery) Actor() access.Actor { return q.actor }

type DriverOrdersQueryResponse struct {
	Orders      []DriverOrder
	ActiveCount int64
}
