package orderrepo

import (
	"context"
	"errors"

	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order row, its lines and its transaction.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items, tx := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Create(&dto).Error; err != nil {
		return pgerr.Wrap("insert order", err)
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return pgerr.Wrap("insert order items", err)
		}
	}
	if err := db.Create(&tx).Error; err != nil {
		return pgerr.Wrap("insert transaction", err)
	}
	return nil
}

// Update writes the order's mutable columns and mirrors the payment flag
// into the transaction row. Zero values are written too, so columns are
// listed explicitly instead of relying on struct updates.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, _, tx := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"status":              dto.Status,
		"payment_flag":        dto.PaymentFlag,
		"preferred_date":      dto.PreferredDate,
		"preferred_time":      dto.PreferredTime,
		"reschedule_count":    dto.RescheduleCount,
		"last_rescheduled_at": dto.LastRescheduledAt,
		"approved_by":         dto.ApprovedBy,
		"approved_at":         dto.ApprovedAt,
		"rejected_by":         dto.RejectedBy,
		"rejected_at":         dto.RejectedAt,
		"rejection_reason":    dto.RejectionReason,
		"cancelled_by":        dto.CancelledBy,
		"cancelled_at":        dto.CancelledAt,
		"cancellation_reason": dto.CancellationReason,
		"updated_at":          dto.UpdatedAt,
	})
	if result.Error != nil {
		return pgerr.Wrap("update order", result.Error)
	}
	if result.RowsAffected == 0 {
		return pgerr.NotFound("order", aggregate.ID().String(), "update order", gorm.ErrRecordNotFound)
	}

	// Orders imported without a transaction row get one on first write.
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"payment_status":  tx.PaymentStatus,
			"proof_reference": tx.ProofReference,
			"updated_at":      tx.UpdatedAt,
		}),
	}).Create(&tx).Error
	return pgerr.Wrap("upsert transaction", err)
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate locks the order row with SELECT ... FOR UPDATE. Lines and the
// transaction are read without locks: lines never change and the
// transaction is only written under the order lock.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(ctx context.Context, q *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := q.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerr.NotFound("order", id.String(), "get order", err)
	}

	db := r.db.WithContext(ctx)
	var items []ItemDTO
	if err := db.Order("id").Find(&items, "order_id = ?", dto.ID).Error; err != nil {
		return nil, pgerr.Wrap("get order items", err)
	}

	var tx TransactionDTO
	txPtr := &tx
	if err := db.First(&tx, "order_id = ?", dto.ID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pgerr.Wrap("get transaction", err)
		}
		txPtr = nil
	}

	return toDomain(dto, items, txPtr)
}

// Delete removes lines, transaction and order, in that order, and reports
// how many order rows went away.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) (int64, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}
	db := r.db.WithContext(ctx)

	if err := db.Where("order_id = ?", id.Bytes()).Delete(&ItemDTO{}).Error; err != nil {
		return 0, pgerr.Wrap("delete order items", err)
	}
	if err := db.Where("order_id = ?", id.Bytes()).Delete(&TransactionDTO{}).Error; err != nil {
		return 0, pgerr.Wrap("delete transaction", err)
	}
	result := db.Where("id = ?", id.Bytes()).Delete(&OrderDTO{})
	if result.Error != nil {
		return 0, pgerr.Wrap("delete order", result.Error)
	}
	return result.RowsAffected, nil
}
