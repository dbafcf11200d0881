package commands_test

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/adapters/out/postgres"
	"backoffice/internal/adapters/out/postgres/catalogrepo"
	"backoffice/internal/adapters/out/postgres/deliveryrepo"
	"backoffice/internal/adapters/out/postgres/memdb"
	"backoffice/internal/adapters/out/postgres/orderrepo"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uowFactory func() commands.UoW

func (f uowFactory) Create() commands.UoW { return f() }

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW { return f() }

// fixture wires every handler to one in-memory database.
type fixture struct {
	t         *testing.T
	db        *gorm.DB
	junctions bool

	admin    access.Actor
	staff    access.Actor
	customer access.Actor
	driver   access.Actor

	place      commands.PlaceOrderCommandHandler
	approve    commands.ApproveOrderCommandHandler
	reject     commands.RejectOrderCommandHandler
	cancel     commands.CancelOrderCommandHandler
	remove     commands.DeleteOrderCommandHandler
	payment    commands.SetPaymentStatusCommandHandler
	reschedule commands.RescheduleOrderCommandHandler
	assign     commands.AssignDeliveryCommandHandler
	advance    commands.AdvanceDeliveryCommandHandler
}

func newFixture(t *testing.T, junctions bool) *fixture {
	t.Helper()

	db := memdb.Open(t, junctions)
	factory := postgres.NewGormUnitOfWorkFactory(db, postgres.SchemaCapabilities{AssignmentJunctions: junctions})
	full := uowFactory(func() commands.UoW { return factory.Create() })
	narrow := orderUoWFactory(func() commands.OrderUoW { return factory.Create() })
	policy := access.DefaultPolicy()

	return &fixture{
		t:          t,
		db:         db,
		junctions:  junctions,
		admin:      actor(t, access.RoleAdmin),
		staff:      actor(t, access.RoleStaff),
		customer:   actor(t, access.RoleCustomer),
		driver:     actor(t, access.RoleDriver),
		place:      commands.NewPlaceOrderCommandHandler(narrow, catalogrepo.NewGormCatalogReader(db)),
		approve:    commands.NewApproveOrderCommandHandler(full, policy),
		reject:     commands.NewRejectOrderCommandHandler(narrow, policy),
		cancel:     commands.NewCancelOrderCommandHandler(full, policy),
		remove:     commands.NewDeleteOrderCommandHandler(full, policy),
		payment:    commands.NewSetPaymentStatusCommandHandler(full, policy),
		reschedule: commands.NewRescheduleOrderCommandHandler(full),
		assign:     commands.NewAssignDeliveryCommandHandler(full, policy),
		advance:    commands.NewAdvanceDeliveryCommandHandler(full, policy),
	}
}

func actor(t *testing.T, role access.Role) access.Actor {
	t.Helper()
	a, err := access.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func daysFromToday(n int) kernel.Date {
	return kernel.DateOf(time.Now().UTC().AddDate(0, 0, n))
}

func timeOfDay(t *testing.T, s string) *kernel.TimeOfDay {
	t.Helper()
	tod, err := kernel.ParseTimeOfDay(s)
	require.NoError(t, err)
	return &tod
}

func (f *fixture) placeOrder(by access.Actor, lines ...commands.PlaceOrderLine) kernel.UUID {
	f.t.Helper()
	cmd, err := commands.NewPlaceOrderCommand(by, lines, daysFromToday(2), timeOfDay(f.t, "09:00"),
		order.Contact{Email: "buyer@example.com", Phone: "+10000000000"})
	require.NoError(f.t, err)
	id, err := f.place.Handle(context.Background(), cmd)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) approveOrder(id kernel.UUID) {
	f.t.Helper()
	cmd, err := commands.NewApproveOrderCommand(f.staff, id)
	require.NoError(f.t, err)
	_, err = f.approve.Handle(context.Background(), cmd)
	require.NoError(f.t, err)
}

func (f *fixture) setPayment(id kernel.UUID, flag order.PaymentFlag) (commands.PaymentResult, error) {
	f.t.Helper()
	cmd, err := commands.NewSetPaymentStatusCommand(f.staff, id, flag, "")
	require.NoError(f.t, err)
	return f.payment.Handle(context.Background(), cmd)
}

func (f *fixture) cancelOrder(by access.Actor, id kernel.UUID, reason string) (order.Status, error) {
	f.t.Helper()
	cmd, err := commands.NewCancelOrderCommand(by, id, reason)
	require.NoError(f.t, err)
	return f.cancel.Handle(context.Background(), cmd)
}

func (f *fixture) loadOrder(id kernel.UUID) *order.Order {
	f.t.Helper()
	o, err := orderrepo.NewGormOrderRepository(f.db).Get(context.Background(), id)
	require.NoError(f.t, err)
	return o
}

func (f *fixture) latestDelivery(orderID kernel.UUID) *delivery.Delivery {
	f.t.Helper()
	d, err := deliveryrepo.NewGormDeliveryRepository(f.db, f.junctions).GetLatestByOrder(context.Background(), orderID)
	require.NoError(f.t, err)
	return d
}

func (f *fixture) level(productID kernel.UUID) int {
	f.t.Helper()
	level, _ := memdb.ProductLevel(f.t, f.db, productID)
	return level
}

func line(productID kernel.UUID, qty int) commands.PlaceOrderLine {
	return commands.PlaceOrderLine{ProductID: productID, Quantity: qty}
}
