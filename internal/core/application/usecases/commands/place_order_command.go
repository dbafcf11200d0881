package commands

import (
	"errors"
	"fmt"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderLine is one requested line of a checkout. Prices are not part of
// the request; they are read from the catalog.
type PlaceOrderLine struct {
	ProductID   kernel.UUID
	VariationID *kernel.UUID
	Quantity    int
}

// PlaceOrderCommand represents a customer's checkout.
//
// Example:
//
//	date, _ := kernel.ParseDate("2026-11-02")
//	at, _ := kernel.ParseTimeOfDay("09:30")
//	cmd, err := NewPlaceOrderCommand(actor, []PlaceOrderLine{{ProductID: cement, Quantity: 3}},
//	    date, &at, order.Contact{Email: "buyer@example.com"})
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	actor         access.Actor
	lines         []PlaceOrderLine
	preferredDate kernel.Date
	preferredTime *kernel.TimeOfDay
	contact       order.Contact

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(
	actor access.Actor,
	lines []PlaceOrderLine,
	preferredDate kernel.Date,
	preferredTime *kernel.TimeOfDay,
	contact order.Contact,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		preferredTime: preferredTime,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setLines(lines),
		cmd.setPreferredDate(preferredDate),
		cmd.setContact(contact),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) Actor() access.Actor { return c.actor }
func (c PlaceOrderCommand) PreferredDate() kernel.Date { return c.preferredDate }
func (c PlaceOrderCommand) PreferredTime() *kernel.TimeOfDay { return c.preferredTime }
func (c PlaceOrderCommand) Contact() order.Contact { return c.contact }

func (c PlaceOrderCommand) Lines() []PlaceOrderLine {
	out := make([]PlaceOrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *PlaceOrderCommand) setActor(actor access.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []PlaceOrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var errList []error
	for i, l := range lines {
		if err := l.ProductID.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("items[%d]: %w", i, err))
		}
		if l.VariationID != nil {
			if err := l.VariationID.Validate(); err != nil {
				errList = append(errList, fmt.Errorf("items[%d]: %w", i, err))
			}
		}
		if l.Quantity <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i), fmt.Errorf("%d is not a positive quantity", l.Quantity),
			))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.lines = append([]PlaceOrderLine(nil), lines...)
	return nil
}

func (c *PlaceOrderCommand) setPreferredDate(date kernel.Date) error {
	if err := date.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("preferredDate", err)
	}
	c.preferredDate = date
	return nil
}

func (c *PlaceOrderCommand) setContact(contact order.Contact) error {
	if err := contact.Validate(); err != nil {
		return err
	}
	c.contact = contact
	return nil
}
