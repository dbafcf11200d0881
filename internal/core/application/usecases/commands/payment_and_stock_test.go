package commands_test

import (
	"context"
	"testing"

	"backoffice/internal/adapters/out/postgres/deliveryrepo"
	"backoffice/internal/adapters/out/postgres/memdb"
	"backoffice/internal/adapters/out/postgres/orderrepo"
	"backoffice/internal/adapters/out/postgres/outboxrepo"
	"backoffice/internal/adapters/out/postgres/stockrepo"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/inventory"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentLifecycle_TwoProductScenario(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := memdb.Product(t, f.db, "12.50", 10, 2)
	b := memdb.Product(t, f.db, "40.00", 5, 1)
	id := f.placeOrder(f.customer, line(a, 3), line(b, 1))
	f.approveOrder(id)

	res, err := f.setPayment(id, order.Paid)
	require.NoError(t, err)
	assert.True(t, res.StockUpdated)
	assert.Equal(t, order.Processing, res.Status)
	assert.Equal(t, order.Paid, res.PaymentFlag)
	assert.Equal(t, 7, f.level(a))
	assert.Equal(t, 4, f.level(b))

	d := f.latestDelivery(id)
	require.NotNil(t, d)
	assert.Equal(t, delivery.Preparing, d.Status())

	var tx orderrepo.TransactionDTO
	require.NoError(t, f.db.First(&tx, "order_id = ?", id.Bytes()).Error)
	assert.Equal(t, string(order.TransactionPaid), tx.PaymentStatus)

	res, err = f.setPayment(id, order.ToPay)
	require.NoError(t, err)
	assert.True(t, res.StockUpdated)
	assert.Equal(t, order.WaitingPayment, res.Status)
	assert.Equal(t, 10, f.level(a))
	assert.Equal(t, 5, f.level(b))

	cmd, err := commands.NewDeleteOrderCommand(f.admin, id)
	require.NoError(t, err)
	require.NoError(t, f.remove.Handle(ctx, cmd))

	assert.Equal(t, 10, f.level(a))
	assert.Equal(t, 5, f.level(b))
	assert.Zero(t, memdb.Count(t, f.db, &orderrepo.OrderDTO{}, "id = ?", id.Bytes()))
	assert.Zero(t, memdb.Count(t, f.db, &orderrepo.ItemDTO{}, "order_id = ?", id.Bytes()))
	assert.Zero(t, memdb.Count(t, f.db, &orderrepo.TransactionDTO{}, "order_id = ?", id.Bytes()))
	assert.Zero(t, memdb.Count(t, f.db, &deliveryrepo.DeliveryDTO{}, "order_id = ?", id.Bytes()))
}

func TestSetPaymentStatus_StockIsConservedAcrossToggles(t *testing.T) {
	f := newFixture(t, true)
	a := memdb.Product(t, f.db, "3.00", 20, 5)
	id := f.placeOrder(f.customer, line(a, 4))
	f.approveOrder(id)

	for i := 0; i < 3; i++ {
		_, err := f.setPayment(id, order.Paid)
		require.NoError(t, err)
		assert.Equal(t, 16, f.level(a))
		_, err = f.setPayment(id, order.ToPay)
		require.NoError(t, err)
		assert.Equal(t, 20, f.level(a))
	}

	assert.Equal(t, int64(6), memdb.Count(t, f.db, &stockrepo.StockMovementDTO{}, "order_id = ?", id.Bytes()))
	// One delivery only, however often payment flips.
	assert.Equal(t, int64(1), memdb.Count(t, f.db, &deliveryrepo.DeliveryDTO{}, "order_id = ?", id.Bytes()))
}

func TestSetPaymentStatus_SameFlagIsNoOp(t *testing.T) {
	f := newFixture(t, true)
	a := memdb.Product(t, f.db, "3.00", 20, 5)
	id := f.placeOrder(f.customer, line(a, 4))
	f.approveOrder(id)

	_, err := f.setPayment(id, order.Paid)
	require.NoError(t, err)
	outboxBefore := memdb.Count(t, f.db, &outboxrepo.OutboxMessageDTO{}, "")

	res, err := f.setPayment(id, order.Paid)
	require.NoError(t, err)
	assert.False(t, res.StockUpdated)
	assert.Equal(t, order.Paid, res.PaymentFlag)
	assert.Equal(t, 16, f.level(a))
	assert.Equal(t, outboxBefore+1, memdb.Count(t, f.db, &outboxrepo.OutboxMessageDTO{}, ""))
	assert.Equal(t, int64(2), memdb.Count(t, f.db, &outboxrepo.OutboxMessageDTO{},
		"event = ? AND channel = ?", "payment_status_changed", "admin"))

	res, err = f.setPayment(f.placeOrder(f.customer, line(a, 1)), order.ToPay)
	require.NoError(t, err)
	assert.False(t, res.StockUpdated)
}

func TestSetPaymentStatus_VariationCounters(t *testing.T) {
	f := newFixture(t, true)
	own := 6
	product := memdb.Product(t, f.db, "10.00", 50, 5)
	withLevel := memdb.Variation(t, f.db, product, "11.00", &own)
	inheriting := memdb.Variation(t, f.db, product, "", nil)

	id := f.placeOrder(f.customer,
		commands.PlaceOrderLine{ProductID: product, VariationID: &withLevel, Quantity: 2},
		commands.PlaceOrderLine{ProductID: product, VariationID: &inheriting, Quantity: 3},
	)
	f.approveOrder(id)

	_, err := f.setPayment(id, order.Paid)
	require.NoError(t, err)
	assert.Equal(t, 4, *memdb.VariationLevel(t, f.db, withLevel))
	assert.Nil(t, memdb.VariationLevel(t, f.db, inheriting))
	assert.Equal(t, 47, f.level(product))

	_, err = f.setPayment(id, order.ToPay)
	require.NoError(t, err)
	assert.Equal(t, 6, *memdb.VariationLevel(t, f.db, withLevel))
	assert.Equal(t, 50, f.level(product))
}

func TestSetPaymentStatus_DerivesStockStatus(t *testing.T) {
	f := newFixture(t, true)
	a := memdb.Product(t, f.db, "1.00", 5, 2)
	id := f.placeOrder(f.customer, line(a, 5))
	f.approveOrder(id)

	_, err := f.setPayment(id, order.Paid)
	require.NoError(t, err)
	level, status := memdb.ProductLevel(t, f.db, a)
	assert.Equal(t, 0, level)
	assert.Equal(t, string(inventory.OutOfStock), status)
}

func TestSetPaymentStatus_PaidOnCancelledOrderConflicts(t *testing.T) {
	f := newFixture(t, true)
	a := memdb.Product(t, f.db, "3.00", 20, 5)
	id := f.placeOrder(f.customer, line(a, 4))
	_, err := f.cancelOrder(f.customer, id, "changed my mind")
	require.NoError(t, err)

	_, err = f.setPayment(id, order.Paid)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, 20, f.level(a))
	assert.Equal(t, order.ToPay, f.loadOrder(id).PaymentFlag())
	assert.Nil(t, f.latestDelivery(id))
}

func TestSetPaymentStatus_MissingProductRollsBack(t *testing.T) {
	f := newFixture(t, true)
	a := memdb.Product(t, f.db, "3.00", 20, 5)
	b := memdb.Product(t, f.db, "3.00", 20, 5)
	id := f.placeOrder(f.customer, line(a, 1), line(b, 1))
	f.approveOrder(id)
	require.NoError(t, f.db.Exec("DELETE FROM products WHERE id = ?", b.Bytes()).Error)

	_, err := f.setPayment(id, order.Paid)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, 20, f.level(a))
	assert.Equal(t, order.WaitingPayment, f.loadOrder(id).Status())
	assert.Zero(t, memdb.Count(t, f.db, &stockrepo.StockMovementDTO{}, ""))
}

func TestSetPaymentStatus_RequiresPaymentCapability(t *testing.T) {
	f := newFixture(t, true)
	a := memdb.Product(t, f.db, "3.00", 20, 5)
	id := f.placeOrder(f.customer, line(a, 1))

	cmd, err := commands.NewSetPaymentStatusCommand(f.customer, id, order.Paid, "")
	require.NoError(t, err)
	_, err = f.payment.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)
}

func TestDeleteOrder(t *testing.T) {
	t.Run("paid order gives every line back", func(t *testing.T) {
		f := newFixture(t, true)
		a := memdb.Product(t, f.db, "3.00", 10, 2)
		b := memdb.Product(t, f.db, "5.00", 5, 1)
		id := f.placeOrder(f.customer, line(a, 3), line(b, 1))
		f.approveOrder(id)
		_, err := f.setPayment(id, order.Paid)
		require.NoError(t, err)
		require.Equal(t, 7, f.level(a))
		require.Equal(t, 4, f.level(b))

		d := f.latestDelivery(id)
		require.NotNil(t, d)
		require.NoError(t, f.assignDriver(f.staff, d.ID(), kernel.NewUUID()))

		cmd, err := commands.NewDeleteOrderCommand(f.admin, id)
		require.NoError(t, err)
		require.NoError(t, f.remove.Handle(context.Background(), cmd))

		assert.Equal(t, 10, f.level(a))
		assert.Equal(t, 5, f.level(b))
		assert.Zero(t, memdb.Count(t, f.db, &deliveryrepo.DeliveryDTO{}, "order_id = ?", id.Bytes()))
		assert.Zero(t, memdb.Count(t, f.db, &deliveryrepo.DriverAssignmentDTO{}, "delivery_id = ?", d.ID().Bytes()))
		assert.Equal(t, int64(1), memdb.Count(t, f.db, &stockrepo.StockMovementDTO{}, "product_id = ? AND delta = ?", a.Bytes(), 3))
		assert.Equal(t, int64(1), memdb.Count(t, f.db, &stockrepo.StockMovementDTO{}, "product_id = ? AND delta = ?", b.Bytes(), 1))
	})

	t.Run("unpaid order leaves stock alone", func(t *testing.T) {
		f := newFixture(t, true)
		a := memdb.Product(t, f.db, "3.00", 20, 5)
		id := f.placeOrder(f.customer, line(a, 4))

		cmd, err := commands.NewDeleteOrderCommand(f.admin, id)
		require.NoError(t, err)
		require.NoError(t, f.remove.Handle(context.Background(), cmd))
		assert.Equal(t, 20, f.level(a))
		assert.Zero(t, memdb.Count(t, f.db, &stockrepo.StockMovementDTO{}, ""))
	})

	t.Run("missing order", func(t *testing.T) {
		f := newFixture(t, true)
		cmd, err := commands.NewDeleteOrderCommand(f.admin, kernel.NewUUID())
		require.NoError(t, err)
		assert.ErrorIs(t, f.remove.Handle(context.Background(), cmd), errs.ErrObjectNotFound)
	})

	t.Run("staff may not delete", func(t *testing.T) {
		f := newFixture(t, true)
		a := memdb.Product(t, f.db, "3.00", 20, 5)
		id := f.placeOrder(f.customer, line(a, 1))
		cmd, err := commands.NewDeleteOrderCommand(f.staff, id)
		require.NoError(t, err)
		assert.ErrorIs(t, f.remove.Handle(context.Background(), cmd), errs.ErrPermissionDenied)
	})
}
