// Package catalogrepo maps the product catalog: products, their variations
// and the prices the checkout reads.
package catalogrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is a row of products. StockStatus is derived from StockLevel and
// MinimumThreshold and rewritten with every stock change.
type ProductDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name             string          `gorm:"type:varchar(255);not null"`
	Price            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StockLevel       int             `gorm:"not null;default:0"`
	MinimumThreshold int             `gorm:"not null;default:0"`
	StockStatus      string          `gorm:"type:varchar(16);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

// VariationDTO is a row of product_variations. A NULL StockLevel means the
// variation draws on its product's stock; a NULL Price means it sells at the
// product's price.
type VariationDTO struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	Name        string              `gorm:"type:varchar(255);not null"`
	Price       decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	StockLevel  *int
	StockStatus *string `gorm:"type:varchar(16)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (VariationDTO) TableName() string {
	return "product_variations"
}
