// Package deliveryrepo persists deliveries and their driver and vehicle
// assignments.
package deliveryrepo

import (
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is a row of deliveries. DriverID and VehicleID are the legacy
// single-assignment columns.
type DeliveryDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status          string     `gorm:"type:varchar(32);not null;index"`
	RescheduleCount int        `gorm:"not null;default:0"`
	DriverID        *uuid.UUID `gorm:"type:uuid;index"`
	VehicleID       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time  `gorm:"index"`
	UpdatedAt       time.Time
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// DriverAssignmentDTO links a delivery and a driver.
type DriverAssignmentDTO struct {
	DeliveryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time
}

func (DriverAssignmentDTO) TableName() string {
	return "delivery_drivers"
}

// VehicleAssignmentDTO links a delivery and a vehicle.
type VehicleAssignmentDTO struct {
	DeliveryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time
}

func (VehicleAssignmentDTO) TableName() string {
	return "delivery_vehicles"
}

func fromDomain(d *delivery.Delivery) (DeliveryDTO, []DriverAssignmentDTO, []VehicleAssignmentDTO) {
	s := d.Snapshot()
	dto := DeliveryDTO{
		ID:              s.ID.Bytes(),
		OrderID:         s.OrderID.Bytes(),
		Status:          s.Status.String(),
		RescheduleCount: s.RescheduleCount,
		DriverID:        optionalID(s.LegacyDriverID),
		VehicleID:       optionalID(s.LegacyVehicleID),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}

	drivers := make([]DriverAssignmentDTO, 0, len(s.Drivers))
	for _, id := range s.Drivers {
		drivers = append(drivers, DriverAssignmentDTO{DeliveryID: dto.ID, DriverID: id.Bytes(), CreatedAt: s.UpdatedAt})
	}
	vehicles := make([]VehicleAssignmentDTO, 0, len(s.Vehicles))
	for _, id := range s.Vehicles {
		vehicles = append(vehicles, VehicleAssignmentDTO{DeliveryID: dto.ID, VehicleID: id.Bytes(), CreatedAt: s.UpdatedAt})
	}
	return dto, drivers, vehicles
}

func toDomain(dto DeliveryDTO, drivers []DriverAssignmentDTO, vehicles []VehicleAssignmentDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	legacyDriver, err := restoreOptional(dto.DriverID)
	if err != nil {
		return nil, err
	}
	legacyVehicle, err := restoreOptional(dto.VehicleID)
	if err != nil {
		return nil, err
	}

	driverIDs := make([]kernel.UUID, 0, len(drivers))
	for _, a := range drivers {
		v, idErr := kernel.UUIDFromBytes(a.DriverID[:])
		if idErr != nil {
			return nil, idErr
		}
		driverIDs = append(driverIDs, v)
	}
	vehicleIDs := make([]kernel.UUID, 0, len(vehicles))
	for _, a := range vehicles {
		v, idErr := kernel.UUIDFromBytes(a.VehicleID[:])
		if idErr != nil {
			return nil, idErr
		}
		vehicleIDs = append(vehicleIDs, v)
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:              id,
		OrderID:         orderID,
		Status:          status,
		RescheduleCount: dto.RescheduleCount,
		LegacyDriverID:  legacyDriver,
		LegacyVehicleID: legacyVehicle,
		Drivers:         driverIDs,
		Vehicles:        vehicleIDs,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	})
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptional(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
