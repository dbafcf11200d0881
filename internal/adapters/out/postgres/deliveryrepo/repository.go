package deliveryrepo

import (
	"context"
	"errors"

	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
//
// When the assignment tables are absent (junctions == false) only the legacy
// driver_id and vehicle_id columns are read and written.
type GormDeliveryRepository struct {
	db        *gorm.DB
	junctions bool
}

func NewGormDeliveryRepository(db *gorm.DB, junctions bool) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db, junctions: junctions}
}

func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto, drivers, vehicles := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Wrap("insert delivery", err)
	}
	return r.insertAssignments(ctx, drivers, vehicles)
}

// Update writes the delivery row, then inserts assignment pairs with
// ON CONFLICT DO NOTHING so that repeated assignments stay single rows.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto, drivers, vehicles := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"status":           dto.Status,
		"reschedule_count": dto.RescheduleCount,
		"driver_id":        dto.DriverID,
		"vehicle_id":       dto.VehicleID,
		"updated_at":       dto.UpdatedAt,
	})
	if result.Error != nil {
		return pgerr.Wrap("update delivery", result.Error)
	}
	if result.RowsAffected == 0 {
		return pgerr.NotFound("delivery", aggregate.ID().String(), "update delivery", gorm.ErrRecordNotFound)
	}
	return r.insertAssignments(ctx, drivers, vehicles)
}

func (r *GormDeliveryRepository) insertAssignments(ctx context.Context, drivers []DriverAssignmentDTO, vehicles []VehicleAssignmentDTO) error {
	if !r.junctions {
		return nil
	}
	if len(drivers) > 0 {
		if err := r.ignoringDuplicates(ctx).Create(&drivers).Error; err != nil {
			return pgerr.Wrap("insert driver assignments", err)
		}
	}
	if len(vehicles) > 0 {
		if err := r.ignoringDuplicates(ctx).Create(&vehicles).Error; err != nil {
			return pgerr.Wrap("insert vehicle assignments", err)
		}
	}
	return nil
}

func (r *GormDeliveryRepository) ignoringDuplicates(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true})
}

func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.getBy(ctx, r.db.WithContext(ctx), id)
}

func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.getBy(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormDeliveryRepository) getBy(ctx context.Context, q *gorm.DB, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto DeliveryDTO
	if err := q.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerr.NotFound("delivery", id.String(), "get delivery", err)
	}
	return r.load(ctx, dto)
}

// GetLatestByOrder returns nil, nil when the order has no delivery. Ties on
// created_at are broken by id so the pick is stable.
func (r *GormDeliveryRepository) GetLatestByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	var dto DeliveryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at DESC").Order("id DESC").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pgerr.Wrap("get latest delivery", err)
	}
	return r.load(ctx, dto)
}

func (r *GormDeliveryRepository) load(ctx context.Context, dto DeliveryDTO) (*delivery.Delivery, error) {
	var (
		drivers  []DriverAssignmentDTO
		vehicles []VehicleAssignmentDTO
	)
	if r.junctions {
		db := r.db.WithContext(ctx)
		if err := db.Order("created_at").Find(&drivers, "delivery_id = ?", dto.ID).Error; err != nil {
			return nil, pgerr.Wrap("get driver assignments", err)
		}
		if err := db.Order("created_at").Find(&vehicles, "delivery_id = ?", dto.ID).Error; err != nil {
			return nil, pgerr.Wrap("get vehicle assignments", err)
		}
	}
	return toDomain(dto, drivers, vehicles)
}

func (r *GormDeliveryRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	ids := db.Model(&DeliveryDTO{}).Select("id").Where("order_id = ?", orderID.Bytes())

	if r.junctions {
		if err := db.Where("delivery_id IN (?)", ids).Delete(&DriverAssignmentDTO{}).Error; err != nil {
			return pgerr.Wrap("delete driver assignments", err)
		}
		if err := db.Where("delivery_id IN (?)", ids).Delete(&VehicleAssignmentDTO{}).Error; err != nil {
			return pgerr.Wrap("delete vehicle assignments", err)
		}
	}
	if err := db.Where("order_id = ?", orderID.Bytes()).Delete(&DeliveryDTO{}).Error; err != nil {
		return pgerr.Wrap("delete deliveries", err)
	}
	return nil
}
