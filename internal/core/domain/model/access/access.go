// Package access describes who is acting and what they may do.
package access

import (
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleStaff, RoleDriver, RoleCustomer:
		return r, nil
	case "":
		return "", errs.NewValueIsRequiredError("role")
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("unknown role %q", s))
	}
}

// Capability names a guarded operation.
type Capability string

const (
	CapOrdersAccept     Capability = "orders.accept"
	CapOrdersPayment    Capability = "orders.payment"
	CapOrdersCancel     Capability = "orders.cancel"
	CapOrdersDelete     Capability = "orders.delete"
	CapDeliveriesAssign Capability = "deliveries.assign"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   kernel.UUID
	Role Role
}

func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

func (a Actor) Validate() error {
	_, err := NewActor(a.ID, a.Role)
	return err
}

// IsStaff reports whether the actor works for the store rather than buying
// from it or driving for it.
func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleStaff
}

// Policy answers capability checks for a role.
type Policy interface {
	HasPermission(role Role, capability Capability) bool
}

// StaticPolicy is a fixed role to capability table.
type StaticPolicy map[Role][]Capability

func (p StaticPolicy) HasPermission(role Role, capability Capability) bool {
	for _, c := range p[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// DefaultPolicy grants admins everything and staff everything but hard
// deletes. Drivers and customers hold no capability; their access is
// decided by ownership and assignment instead.
func DefaultPolicy() StaticPolicy {
	return StaticPolicy{
		RoleAdmin: {CapOrdersAccept, CapOrdersPayment, CapOrdersCancel, CapOrdersDelete, CapDeliveriesAssign},
		RoleStaff: {CapOrdersAccept, CapOrdersPayment, CapOrdersCancel, CapDeliveriesAssign},
	}
}

// Require returns a PermissionDeniedError unless actor's role holds capability.
func Require(policy Policy, actor Actor, capability Capability) error {
	if err := actor.Validate(); err != nil {
		return errors.Join(errs.NewPermissionDeniedError(string(capability)), err)
	}
	if policy == nil || !policy.HasPermission(actor.Role, capability) {
		return errs.NewPermissionDeniedError(string(capability))
	}
	return nil
}
