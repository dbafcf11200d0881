package catalogrepo

import (
	"context"
	"errors"

	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCatalogReader implements ports.CatalogReader.
type GormCatalogReader struct {
	db *gorm.DB
}

func NewGormCatalogReader(db *gorm.DB) *GormCatalogReader {
	return &GormCatalogReader{db: db}
}

func (r *GormCatalogReader) UnitPrice(ctx context.Context, productID kernel.UUID, variationID *kernel.UUID) (decimal.Decimal, error) {
	if err := productID.Validate(); err != nil {
		return decimal.Zero, err
	}
	db := r.db.WithContext(ctx)

	var product ProductDTO
	if err := db.Select("id", "price").First(&product, "id = ?", productID.Bytes()).Error; err != nil {
		return decimal.Zero, pgerr.NotFound("product", productID.String(), "get product price", err)
	}
	if variationID == nil {
		return product.Price, nil
	}

	var variation VariationDTO
	err := db.Select("id", "price").
		Where("id = ? AND product_id = ?", variationID.Bytes(), productID.Bytes()).
		First(&variation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, pgerr.NotFound("variation", variationID.String(), "get variation price", err)
	}
	if err != nil {
		return decimal.Zero, pgerr.Wrap("get variation price", err)
	}
	if variation.Price.Valid {
		return variation.Price.Decimal, nil
	}
	return product.Price, nil
}
