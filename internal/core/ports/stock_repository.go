package ports

import (
	"context"

	"backoffice/internal/core/domain/model/inventory"
	"backoffice/internal/core/domain/model/kernel"
)

// StockRepository reads and writes stock counters.
type StockRepository interface {
	// Resolve locks and returns the counter serving productID/variationID:
	// the variation's own level when it has one, the product's otherwise. The
	// threshold is always the product's.
	Resolve(ctx context.Context, productID kernel.UUID, variationID *kernel.UUID) (*inventory.Stock, error)

	// Save writes the level and the derived status back to the resolved row.
	Save(ctx context.Context, stock *inventory.Stock) error

	RecordMovement(ctx context.Context, movement inventory.Movement) error
}
