package delivery

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned by Validate for a Delivery that was
// not built by NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

// Delivery is the fulfillment record of one order. Several records may exist
// for an order over time; the most recently created one is authoritative.
type Delivery struct {
	id              kernel.UUID
	orderID         kernel.UUID
	status          Status
	rescheduleCount int

	legacyDriverID  *kernel.UUID
	legacyVehicleID *kernel.UUID
	drivers         []kernel.UUID
	vehicles        []kernel.UUID

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// Snapshot is the persisted state of a Delivery. Drivers and Vehicles hold the
// assignment-set members only; the legacy columns are separate.
type Snapshot struct {
	ID              kernel.UUID
	OrderID         kernel.UUID
	Status          Status
	RescheduleCount int
	LegacyDriverID  *kernel.UUID
	LegacyVehicleID *kernel.UUID
	Drivers         []kernel.UUID
	Vehicles        []kernel.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewDelivery opens a Pending delivery for orderID.
func NewDelivery(id, orderID kernel.UUID, now time.Time) (*Delivery, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	return &Delivery{
		id:            id,
		orderID:       orderID,
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

func RestoreDelivery(s Snapshot) (*Delivery, error) {
	if err := errors.Join(s.ID.Validate(), s.OrderID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	if s.RescheduleCount < 0 {
		return nil, errs.NewValueIsOutOfRangeError("rescheduleCount", s.RescheduleCount, 0, "unbounded")
	}
	return &Delivery{
		id:              s.ID,
		orderID:         s.OrderID,
		status:          s.Status,
		rescheduleCount: s.RescheduleCount,
		legacyDriverID:  s.LegacyDriverID,
		legacyVehicleID: s.LegacyVehicleID,
		drivers:         appendUnique(nil, s.Drivers...),
		vehicles:        appendUnique(nil, s.Vehicles...),
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		isConstructed:   true,
	}, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) Snapshot() Snapshot {
	return Snapshot{
		ID:              d.id,
		OrderID:         d.orderID,
		Status:          d.status,
		RescheduleCount: d.rescheduleCount,
		LegacyDriverID:  d.legacyDriverID,
		LegacyVehicleID: d.legacyVehicleID,
		Drivers:         append([]kernel.UUID(nil), d.drivers...),
		Vehicles:        append([]kernel.UUID(nil), d.vehicles...),
		CreatedAt:       d.createdAt,
		UpdatedAt:       d.updatedAt,
	}
}

func (d *Delivery) ID() kernel.UUID { return d.id }
func (d *Delivery) OrderID() kernel.UUID { return d.orderID }
func (d *Delivery) Status() Status { return d.status }
func (d *Delivery) RescheduleCount() int { return d.rescheduleCount }
func (d *Delivery) CreatedAt() time.Time { return d.createdAt }

// IsActive reports whether the delivery still has work ahead of it.
func (d *Delivery) IsActive() bool {
	return !d.status.IsFinal()
}

// Drivers returns the legacy driver followed by every assigned driver,
// without duplicates.
func (d *Delivery) Drivers() []kernel.UUID {
	return union(d.legacyDriverID, d.drivers)
}

// Vehicles is the vehicle counterpart of Drivers.
func (d *Delivery) Vehicles() []kernel.UUID {
	return union(d.legacyVehicleID, d.vehicles)
}

// IsVisibleTo reports whether driverID is the legacy driver or one of the
// assigned drivers.
func (d *Delivery) IsVisibleTo(driverID kernel.UUID) bool {
	if d.legacyDriverID != nil && d.legacyDriverID.IsEqual(driverID) {
		return true
	}
	return contains(d.drivers, driverID)
}

// StartPreparing advances a Pending delivery to Preparing and reports whether
// it did. Deliveries in any other status are left untouched.
func (d *Delivery) StartPreparing(now time.Time) bool {
	if d.status != Pending {
		return false
	}
	d.status = Preparing
	d.updatedAt = now
	return true
}

// Cancel marks the delivery Cancelled and reports whether it changed. A
// delivered delivery can not be cancelled.
func (d *Delivery) Cancel(now time.Time) (bool, error) {
	switch d.status {
	case Cancelled:
		return false, nil
	case Delivered:
		return false, errs.NewConflictError("delivery status", d.status.String())
	}
	d.status = Cancelled
	d.updatedAt = now
	return true, nil
}

// ResetForReschedule puts the delivery back to Pending and counts the
// reschedule. Assignments are kept.
func (d *Delivery) ResetForReschedule(now time.Time) {
	d.status = Pending
	d.rescheduleCount++
	d.updatedAt = now
}

// AssignDriver records driverID both in the legacy column and in the
// assignment set. Assigning the same driver twice is harmless.
func (d *Delivery) AssignDriver(driverID kernel.UUID, now time.Time) error {
	if err := d.checkAssignable(driverID); err != nil {
		return err
	}
	d.legacyDriverID = &driverID
	d.drivers = appendUnique(d.drivers, driverID)
	d.updatedAt = now
	return nil
}

// AssignVehicle is the vehicle counterpart of AssignDriver.
func (d *Delivery) AssignVehicle(vehicleID kernel.UUID, now time.Time) error {
	if err := d.checkAssignable(vehicleID); err != nil {
		return err
	}
	d.legacyVehicleID = &vehicleID
	d.vehicles = appendUnique(d.vehicles, vehicleID)
	d.updatedAt = now
	return nil
}

// Advance moves the delivery one step towards Delivered. Advancing to the
// current status is a no-op that reports false. Any other target is a
// ConflictError.
func (d *Delivery) Advance(target Status, now time.Time) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}
	if target == d.status {
		return false, nil
	}
	if next, ok := d.status.next(); !ok || next != target {
		return false, errs.NewConflictError("delivery status", d.status.String())
	}
	d.status = target
	d.updatedAt = now
	return true, nil
}

func (d *Delivery) checkAssignable(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if d.status.IsFinal() {
		return errs.NewConflictError("delivery status", d.status.String())
	}
	return nil
}

func contains(ids []kernel.UUID, id kernel.UUID) bool {
	for _, v := range ids {
		if v.IsEqual(id) {
			return true
		}
	}
	return false
}

func appendUnique(dst []kernel.UUID, ids ...kernel.UUID) []kernel.UUID {
	for _, id := range ids {
		if !contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}

func union(legacy *kernel.UUID, set []kernel.UUID) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(set)+1)
	if legacy != nil {
		out = append(out, *legacy)
	}
	return appendUnique(out, set...)
}
