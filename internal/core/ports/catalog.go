package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// CatalogReader looks up selling prices.
type CatalogReader interface {
	// UnitPrice returns the variation's price when variationID is set and the
	// variation has one, the product's price otherwise.
	UnitPrice(ctx context.Context, productID kernel.UUID, variationID *kernel.UUID) (decimal.Decimal, error)
}
