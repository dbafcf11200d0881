// Package postgres implements the unit of work and schema plumbing on top of
// GORM. Repositories returned by a GormUnitOfWork share its transaction once
// Begin has been called.
package postgres

import (
	"context"

	"backoffice/internal/adapters/out/postgres/deliveryrepo"
	"backoffice/internal/adapters/out/postgres/orderrepo"
	"backoffice/internal/adapters/out/postgres/outboxrepo"
	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/adapters/out/postgres/stockrepo"
	"backoffice/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each call to Create returns an independent instance, so concurrent commands
// never share a transaction.
type GormUnitOfWorkFactory struct {
	db   *gorm.DB
	caps SchemaCapabilities
}

func NewGormUnitOfWorkFactory(db *gorm.DB, caps SchemaCapabilities) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, caps: caps}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db, caps: f.caps}
}

// GormUnitOfWork wraps one database transaction.
type GormUnitOfWork struct {
	db   *gorm.DB
	tx   *gorm.DB
	caps SchemaCapabilities
}

// Begin starts the transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return pgerr.Wrap("begin transaction", tx.Error)
	}
	uow.tx = tx
	return nil
}

// Commit finalizes the transaction. Serialization failures at commit time
// come back as TransientStoreError.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return pgerr.Wrap("commit transaction", err)
	}
	return nil
}

// Rollback discards the transaction. Without an active transaction it
// returns gorm.ErrInvalidTransaction, which callers deferring Rollback
// after a successful Commit ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.conn(), uow.caps.AssignmentJunctions)
}

func (uow *GormUnitOfWork) StockRepository() ports.StockRepository {
	return stockrepo.NewGormStockRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}
