package commands

import (
	"errors"
	"strings"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var (
	ErrApproveOrderCommandIsNotConstructed = errors.New(
		"ApproveOrderCommand must be created via NewApproveOrderCommand constructor",
	)
	ErrRejectOrderCommandIsNotConstructed = errors.New(
		"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
	)
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
	ErrDeleteOrderCommandIsNotConstructed = errors.New(
		"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
	)
	ErrSetPaymentStatusCommandIsNotConstructed = errors.New(
		"SetPaymentStatusCommand must be created via NewSetPaymentStatusCommand constructor",
	)
	ErrRescheduleOrderCommandIsNotConstructed = errors.New(
		"RescheduleOrderCommand must be created via NewRescheduleOrderCommand constructor",
	)
)

// orderTarget is the part every order command shares: who acts on which
// order.
type orderTarget struct {
	actor   access.Actor
	orderID kernel.UUID
}

func newOrderTarget(actor access.Actor, orderID kernel.UUID) (orderTarget, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return orderTarget{}, err
	}
	return orderTarget{actor: actor, orderID: orderID}, nil
}

func (t orderTarget) Actor() access.Actor { return t.actor }
func (t orderTarget) OrderID() kernel.UUID { return t.orderID }

// ApproveOrderCommand moves a PendingApproval order to WaitingPayment.
type ApproveOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	guard guard.ConstructorGuard
}

func NewApproveOrderCommand(actor access.Actor, orderID kernel.UUID) (ApproveOrderCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return ApproveOrderCommand{}, err
	}
	return ApproveOrderCommand{orderTarget: target, guard: guard.NewConstructorGuard()}, nil
}

func (c ApproveOrderCommand) Validate() error {
	return c.guard.Validate(ErrApproveOrderCommandIsNotConstructed)
}

// RejectOrderCommand turns down a PendingApproval order. The reason is
// mandatory and is sent to the customer.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	reason string
	guard  guard.ConstructorGuard
}

func NewRejectOrderCommand(actor access.Actor, orderID kernel.UUID, reason string) (RejectOrderCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("reason"))
	}
	if err != nil {
		return RejectOrderCommand{}, err
	}
	return RejectOrderCommand{orderTarget: target, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

func (c RejectOrderCommand) Reason() string { return c.reason }

// CancelOrderCommand cancels an order on behalf of its owner or of staff.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	reason string
	guard  guard.ConstructorGuard
}

func NewCancelOrderCommand(actor access.Actor, orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{
		orderTarget: target,
		reason:      strings.TrimSpace(reason),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Reason() string { return c.reason }

type DeleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	guard guard.ConstructorGuard
}

func NewDeleteOrderCommand(actor access.Actor, orderID kernel.UUID) (DeleteOrderCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return DeleteOrderCommand{}, err
	}
	return DeleteOrderCommand{orderTarget: target, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

// SetPaymentStatusCommand sets an order's payment flag. proofReference is
// optional and kept on the transaction when the order becomes Paid.
type SetPaymentStatusCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	target         order.PaymentFlag
	proofReference string
	guard          guard.ConstructorGuard
}

func NewSetPaymentStatusCommand(
	actor access.Actor,
	orderID kernel.UUID,
	target order.PaymentFlag,
	proofReference string,
) (SetPaymentStatusCommand, error) {
	orderTarget, err := newOrderTarget(actor, orderID)
	if err = errors.Join(err, target.Validate()); err != nil {
		return SetPaymentStatusCommand{}, err
	}
	return SetPaymentStatusCommand{
		orderTarget:    orderTarget,
		target:         target,
		proofReference: strings.TrimSpace(proofReference),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c SetPaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetPaymentStatusCommandIsNotConstructed)
}

func (c SetPaymentStatusCommand) Target() order.PaymentFlag { return c.target }
func (c SetPaymentStatusCommand) ProofReference() string { return c.proofReference }

// RescheduleOrderCommand asks for a cancelled order to be delivered on a new
// date. Business-hour and past-date checks happen in the order itself.
type RescheduleOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	date  kernel.Date
	time  *kernel.TimeOfDay
	guard guard.ConstructorGuard
}

func NewRescheduleOrderCommand(
	actor access.Actor,
	orderID kernel.UUID,
	date kernel.Date,
	tod *kernel.TimeOfDay,
) (RescheduleOrderCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if dateErr := date.Validate(); dateErr != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("date", dateErr))
	}
	if err != nil {
		return RescheduleOrderCommand{}, err
	}
	return RescheduleOrderCommand{orderTarget: target, date: date, time: tod, guard: guard.NewConstructorGuard()}, nil
}

func (c RescheduleOrderCommand) Validate() error {
	return c.guard.Validate(ErrRescheduleOrderCommandIsNotConstructed)
}

func (c RescheduleOrderCommand) Date() kernel.Date { return c.date }
func (c RescheduleOrderCommand) Time() *kernel.TimeOfDay { return c.time }
