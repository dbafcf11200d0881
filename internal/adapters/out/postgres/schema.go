package postgres

import (
	"context"
	"fmt"

	"backoffice/internal/adapters/out/postgres/catalogrepo"
	"backoffice/internal/adapters/out/postgres/deliveryrepo"
	"backoffice/internal/adapters/out/postgres/orderrepo"
	"backoffice/internal/adapters/out/postgres/outboxrepo"
	"backoffice/internal/adapters/out/postgres/stockrepo"

	"gorm.io/gorm"
)

// SchemaCapabilities records optional parts of the schema. It is detected
// once at startup and passed to everything that depends on it.
type SchemaCapabilities struct {
	// AssignmentJunctions is true when delivery_drivers and delivery_vehicles
	// exist. Without them deliveries only carry the legacy single driver and
	// vehicle columns.
	AssignmentJunctions bool
}

// DetectCapabilities inspects the connected schema.
func DetectCapabilities(ctx context.Context, db *gorm.DB) SchemaCapabilities {
	m := db.WithContext(ctx).Migrator()
	return SchemaCapabilities{
		AssignmentJunctions: m.HasTable(&deliveryrepo.DriverAssignmentDTO{}) &&
			m.HasTable(&deliveryrepo.VehicleAssignmentDTO{}),
	}
}

// CoreModels are the tables every deployment has.
func CoreModels() []any {
	return []any{
		&catalogrepo.ProductDTO{},
		&catalogrepo.VariationDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.TransactionDTO{},
		&deliveryrepo.DeliveryDTO{},
		&stockrepo.StockMovementDTO{},
		&outboxrepo.OutboxMessageDTO{},
	}
}

// AssignmentModels are the driver and vehicle junction tables.
func AssignmentModels() []any {
	return []any{
		&deliveryrepo.DriverAssignmentDTO{},
		&deliveryrepo.VehicleAssignmentDTO{},
	}
}

// Migrate creates or updates the schema. withAssignments controls whether the
// junction tables are created, so a legacy layout can be reproduced.
func Migrate(ctx context.Context, db *gorm.DB, withAssignments bool) error {
	models := CoreModels()
	if withAssignments {
		models = append(models, AssignmentModels()...)
	}
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
