package commands_test

import (
	"context"
	"testing"

	"backoffice/internal/adapters/out/postgres/deliveryrepo"
	"backoffice/internal/adapters/out/postgres/memdb"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paidOrder returns an order that has a delivery in Preparing.
func (f *fixture) paidOrder() (kernel.UUID, *delivery.Delivery) {
	f.t.Helper()
	a := memdb.Product(f.t, f.db, "3.00", 20, 5)
	id := f.placeOrder(f.customer, line(a, 1))
	f.approveOrder(id)
	_, err := f.setPayment(id, order.Paid)
	require.NoError(f.t, err)
	return id, f.latestDelivery(id)
}

func (f *fixture) assignDriver(by access.Actor, deliveryID, driverID kernel.UUID) error {
	f.t.Helper()
	cmd, err := commands.NewAssignDriverCommand(by, deliveryID, driverID)
	require.NoError(f.t, err)
	return f.assign.Handle(context.Background(), cmd)
}

func (f *fixture) advanceDelivery(by access.Actor, deliveryID kernel.UUID, target delivery.Status) (delivery.Status, error) {
	f.t.Helper()
	cmd, err := commands.NewAdvanceDeliveryCommand(by, deliveryID, target)
	require.NoError(f.t, err)
	return f.advance.Handle(context.Background(), cmd)
}

func TestAssignDelivery(t *testing.T) {
	t.Run("drivers accumulate and repeats are harmless", func(t *testing.T) {
		f := newFixture(t, true)
		_, d := f.paidOrder()
		first, second := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, f.assignDriver(f.staff, d.ID(), first))
		require.NoError(t, f.assignDriver(f.staff, d.ID(), second))
		require.NoError(t, f.assignDriver(f.staff, d.ID(), second))

		vehicle := kernel.NewUUID()
		cmd, err := commands.NewAssignVehicleCommand(f.staff, d.ID(), vehicle)
		require.NoError(t, err)
		require.NoError(t, f.assign.Handle(context.Background(), cmd))

		assert.Equal(t, int64(2), memdb.Count(t, f.db, &deliveryrepo.DriverAssignmentDTO{}, "delivery_id = ?", d.ID().Bytes()))

		var row deliveryrepo.DeliveryDTO
		require.NoError(t, f.db.First(&row, "id = ?", d.ID().Bytes()).Error)
		require.NotNil(t, row.DriverID)
		assert.Equal(t, second.String(), row.DriverID.String())
		require.NotNil(t, row.VehicleID)
		assert.Equal(t, vehicle.String(), row.VehicleID.String())
	})

	t.Run("legacy schema writes the column only", func(t *testing.T) {
		f := newFixture(t, false)
		_, d := f.paidOrder()
		driver := kernel.NewUUID()

		require.NoError(t, f.assignDriver(f.staff, d.ID(), driver))
		assert.True(t, f.latestDelivery(d.OrderID()).IsVisibleTo(driver))
	})

	t.Run("finished deliveries conflict", func(t *testing.T) {
		f := newFixture(t, true)
		id, d := f.paidOrder()
		_, err := f.cancelOrder(f.customer, id, "")
		require.NoError(t, err)

		assert.ErrorIs(t, f.assignDriver(f.staff, d.ID(), kernel.NewUUID()), errs.ErrConflict)
	})

	t.Run("needs the capability", func(t *testing.T) {
		f := newFixture(t, true)
		_, d := f.paidOrder()
		assert.ErrorIs(t, f.assignDriver(f.driver, d.ID(), f.driver.ID), errs.ErrPermissionDenied)
	})

	t.Run("unknown delivery", func(t *testing.T) {
		f := newFixture(t, true)
		assert.ErrorIs(t, f.assignDriver(f.staff, kernel.NewUUID(), kernel.NewUUID()), errs.ErrObjectNotFound)
	})
}

func TestAdvanceDelivery(t *testing.T) {
	t.Run("assigned driver walks it to Delivered", func(t *testing.T) {
		f := newFixture(t, true)
		id, d := f.paidOrder()
		require.NoError(t, f.assignDriver(f.staff, d.ID(), f.driver.ID))

		status, err := f.advanceDelivery(f.driver, d.ID(), delivery.OutForDelivery)
		require.NoError(t, err)
		assert.Equal(t, delivery.OutForDelivery, status)
		assert.Equal(t, order.Ready, f.loadOrder(id).Status())

		status, err = f.advanceDelivery(f.driver, d.ID(), delivery.OutForDelivery)
		require.NoError(t, err)
		assert.Equal(t, delivery.OutForDelivery, status)

		status, err = f.advanceDelivery(f.driver, d.ID(), delivery.Delivered)
		require.NoError(t, err)
		assert.Equal(t, delivery.Delivered, status)
		assert.Equal(t, order.Ready, f.loadOrder(id).Status())

		_, err = f.cancelOrder(f.staff, id, "")
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("unassigned driver is refused", func(t *testing.T) {
		f := newFixture(t, true)
		_, d := f.paidOrder()

		_, err := f.advanceDelivery(f.driver, d.ID(), delivery.OutForDelivery)
		assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	})

	t.Run("skipping a step conflicts", func(t *testing.T) {
		f := newFixture(t, true)
		_, d := f.paidOrder()

		_, err := f.advanceDelivery(f.staff, d.ID(), delivery.Delivered)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("unapproved order can not leave", func(t *testing.T) {
		f := newFixture(t, true)
		a := memdb.Product(t, f.db, "3.00", 20, 5)
		id := f.placeOrder(f.customer, line(a, 1))
		_, err := f.setPayment(id, order.Paid)
		require.NoError(t, err)
		d := f.latestDelivery(id)

		_, err = f.advanceDelivery(f.staff, d.ID(), delivery.OutForDelivery)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, delivery.Preparing, f.latestDelivery(id).Status())
	})
}
