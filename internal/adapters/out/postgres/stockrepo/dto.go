// Package stockrepo reads and writes stock counters on products and
// variations, and appends the stock movement audit trail.
package stockrepo

import (
	"time"

	"backoffice/internal/core/domain/model/inventory"

	"github.com/google/uuid"
)

// StockMovementDTO is a row of stock_movements. Rows are only ever inserted.
type StockMovementDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	VariationID    *uuid.UUID `gorm:"type:uuid"`
	Target         string     `gorm:"type:varchar(16);not null"`
	Delta          int        `gorm:"not null"`
	ResultingLevel int        `gorm:"not null"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Reason         string     `gorm:"type:varchar(32);not null"`
	CreatedAt      time.Time
}

func (StockMovementDTO) TableName() string {
	return "stock_movements"
}

func movementFromDomain(m inventory.Movement) StockMovementDTO {
	dto := StockMovementDTO{
		ID:             m.ID.Bytes(),
		ProductID:      m.ProductID.Bytes(),
		Target:         string(m.Target),
		Delta:          m.Delta,
		ResultingLevel: m.ResultingLevel,
		OrderID:        m.OrderID.Bytes(),
		Reason:         string(m.Reason),
		CreatedAt:      m.CreatedAt,
	}
	if m.VariationID != nil {
		raw := m.VariationID.Bytes()
		dto.VariationID = &raw
	}
	return dto
}
