package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/inventory"
	"backoffice/internal/core/ports"
)

// InventoryLedger applies stock adjustments inside the caller's transaction.
// Each adjustment locks the counter it resolves to, updates level and status,
// and appends a stock movement.
type InventoryLedger struct {
	stock ports.StockRepository
}

func NewInventoryLedger(stock ports.StockRepository) InventoryLedger {
	return InventoryLedger{stock: stock}
}

// Adjust applies one signed change. The counter is the variation's own level
// when it has one and the product's otherwise; the threshold used for the
// status is always the product's.
func (l InventoryLedger) Adjust(ctx context.Context, adj inventory.Adjustment, now time.Time) (inventory.Movement, error) {
	if err := adj.Validate(); err != nil {
		return inventory.Movement{}, err
	}

	stock, err := l.stock.Resolve(ctx, adj.ProductID, adj.VariationID)
	if err != nil {
		return inventory.Movement{}, err
	}

	movement, err := stock.Apply(adj, now)
	if err != nil {
		return inventory.Movement{}, err
	}

	if err = l.stock.Save(ctx, stock); err != nil {
		return inventory.Movement{}, err
	}
	if err = l.stock.RecordMovement(ctx, movement); err != nil {
		return inventory.Movement{}, err
	}

	return movement, nil
}

// ApplyAll applies adjustments in order and reports whether any stock moved.
// The first failure stops the run; the caller's rollback undoes the rest.
func (l InventoryLedger) ApplyAll(ctx context.Context, adjustments []inventory.Adjustment, now time.Time) (bool, error) {
	for _, adj := range adjustments {
		if _, err := l.Adjust(ctx, adj, now); err != nil {
			return false, err
		}
	}
	return len(adjustments) > 0, nil
}
