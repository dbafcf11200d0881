package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/guard"
)

var (
	ErrAssignDeliveryCommandIsNotConstructed = errors.New(
		"AssignDeliveryCommand must be created via NewAssignDriverCommand or NewAssignVehicleCommand",
	)
	ErrAdvanceDeliveryCommandIsNotConstructed = errors.New(
		"AdvanceDeliveryCommand must be created via NewAdvanceDeliveryCommand constructor",
	)
)

// Resource is what gets attached to a delivery.
type Resource string

const (
	ResourceDriver  Resource = "driver"
	ResourceVehicle Resource = "vehicle"
)

// AssignDeliveryCommand attaches a driver or a vehicle to a delivery.
type AssignDeliveryCommand struct { //nolint:recvcheck //using for validation
	actor      access.Actor
	deliveryID kernel.UUID
	resource   Resource
	resourceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(actor access.Actor, deliveryID, driverID kernel.UUID) (AssignDeliveryCommand, error) {
	return newAssignDeliveryCommand(actor, deliveryID, ResourceDriver, driverID)
}

func NewAssignVehicleCommand(actor access.Actor, deliveryID, vehicleID kernel.UUID) (AssignDeliveryCommand, error) {
	return newAssignDeliveryCommand(actor, deliveryID, ResourceVehicle, vehicleID)
}

func newAssignDeliveryCommand(actor access.Actor, deliveryID kernel.UUID, resource Resource, resourceID kernel.UUID) (AssignDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), deliveryID.Validate(), resourceID.Validate()); err != nil {
		return AssignDeliveryCommand{}, err
	}
	return AssignDeliveryCommand{
		actor:      actor,
		deliveryID: deliveryID,
		resource:   resource,
		resourceID: resourceID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

func (c AssignDeliveryCommand) Actor() access.Actor { return c.actor }
func (c AssignDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c AssignDeliveryCommand) Resource() Resource { return c.resource }
func (c AssignDeliveryCommand) ResourceID() kernel.UUID { return c.resourceID }

// AdvanceDeliveryCommand moves a delivery one step forward.
type AdvanceDeliveryCommand struct { //nolint:recvcheck //using for validation
	actor      access.Actor
	deliveryID kernel.UUID
	target     delivery.Status

	guard guard.ConstructorGuard
}

func NewAdvanceDeliveryCommand(actor access.Actor, deliveryID kernel.UUID, target delivery.Status) (AdvanceDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), deliveryID.Validate(), target.Validate()); err != nil {
		return AdvanceDeliveryCommand{}, err
	}
	return AdvanceDeliveryCommand{
		actor:      actor,
		deliveryID: deliveryID,
		target:     target,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDeliveryCommandIsNotConstructed)
}

func (c AdvanceDeliveryCommand) Actor() access.Actor { return c.actor }
func (c AdvanceDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c AdvanceDeliveryCommand) Target() delivery.Status { return c.target }
