// Package memdb opens throwaway in-memory databases with the back office
// schema for tests, and seeds catalog rows into them.
package memdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"backoffice/internal/adapters/out/postgres"
	"backoffice/internal/adapters/out/postgres/catalogrepo"
	"backoffice/internal/core/domain/model/inventory"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory SQLite database. Each call gets its own
// database. A single connection is used so the whole test sees one store.
func Open(t *testing.T, withAssignments bool) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.Migrate(context.Background(), db, withAssignments))
	return db
}

// Product seeds a product and returns its id.
func Product(t *testing.T, db *gorm.DB, price string, level, threshold int) kernel.UUID {
	t.Helper()

	id := kernel.NewUUID()
	row := catalogrepo.ProductDTO{
		ID:               id.Bytes(),
		Name:             "product " + id.String()[:8],
		Price:            decimal.RequireFromString(price),
		StockLevel:       level,
		MinimumThreshold: threshold,
		StockStatus:      string(inventory.DeriveStatus(level, threshold)),
	}
	require.NoError(t, db.Create(&row).Error)
	return id
}

// Variation seeds a variation of productID. A nil level makes it draw on
// the product's stock; an empty price makes it sell at the product's price.
func Variation(t *testing.T, db *gorm.DB, productID kernel.UUID, price string, level *int) kernel.UUID {
	t.Helper()

	id := kernel.NewUUID()
	row := catalogrepo.VariationDTO{
		ID:         id.Bytes(),
		ProductID:  productID.Bytes(),
		Name:       "variation " + id.String()[:8],
		StockLevel: level,
	}
	if price != "" {
		row.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	if level != nil {
		status := string(inventory.DeriveStatus(*level, 0))
		row.StockStatus = &status
	}
	require.NoError(t, db.Create(&row).Error)
	return id
}

// ProductLevel reads a product's stock level and status.
func ProductLevel(t *testing.T, db *gorm.DB, id kernel.UUID) (int, string) {
	t.Helper()

	var row catalogrepo.ProductDTO
	require.NoError(t, db.First(&row, "id = ?", id.Bytes()).Error)
	return row.StockLevel, row.StockStatus
}

// VariationLevel reads a variation's own stock level, nil when it inherits.
func VariationLevel(t *testing.T, db *gorm.DB, id kernel.UUID) *int {
	t.Helper()

	var row catalogrepo.VariationDTO
	require.NoError(t, db.First(&row, "id = ?", id.Bytes()).Error)
	return row.StockLevel
}

// Count returns the number of rows in model's table matching where.
func Count(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
