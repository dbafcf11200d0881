package stockrepo

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/adapters/out/postgres/catalogrepo"
	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/core/domain/model/inventory"
	"backoffice/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements ports.StockRepository.
type GormStockRepository struct {
	db *gorm.DB
}

func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Resolve locks the product row first and the variation row second. Callers
// adjusting several counters in one transaction go through products in a
// fixed order, so two transactions never wait on each other in a cycle.
func (r *GormStockRepository) Resolve(ctx context.Context, productID kernel.UUID, variationID *kernel.UUID) (*inventory.Stock, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	var product catalogrepo.ProductDTO
	if err := r.locked(ctx).Select("id", "stock_level", "minimum_threshold").
		First(&product, "id = ?", productID.Bytes()).Error; err != nil {
		return nil, pgerr.NotFound("product", productID.String(), "lock product stock", err)
	}

	if variationID != nil {
		var variation catalogrepo.VariationDTO
		err := r.locked(ctx).Select("id", "product_id", "stock_level").
			Where("id = ? AND product_id = ?", variationID.Bytes(), productID.Bytes()).
			First(&variation).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// A removed variation falls back to the product counter.
		case err != nil:
			return nil, pgerr.Wrap("lock variation stock", err)
		case variation.StockLevel != nil:
			return inventory.NewVariationStock(productID, *variationID, *variation.StockLevel, product.MinimumThreshold)
		}
	}
	return inventory.NewProductStock(productID, product.StockLevel, product.MinimumThreshold)
}

func (r *GormStockRepository) locked(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// Save writes level and status to the row Resolve picked.
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.Stock) error {
	db := r.db.WithContext(ctx)
	columns := map[string]any{
		"stock_level":  stock.Level(),
		"stock_status": string(stock.Status()),
		"updated_at":   time.Now().UTC(),
	}

	var result *gorm.DB
	switch stock.Target() {
	case inventory.TargetVariation:
		result = db.Model(&catalogrepo.VariationDTO{}).
			Where("id = ?", stock.VariationID().Bytes()).
			Updates(columns)
	default:
		result = db.Model(&catalogrepo.ProductDTO{}).
			Where("id = ?", stock.ProductID().Bytes()).
			Updates(columns)
	}
	if result.Error != nil {
		return pgerr.Wrap("save stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return pgerr.NotFound(string(stock.Target()), stock.ProductID().String(), "save stock", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormStockRepository) RecordMovement(ctx context.Context, movement inventory.Movement) error {
	dto := movementFromDomain(movement)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Wrap("insert stock movement", err)
	}
	return nil
}
