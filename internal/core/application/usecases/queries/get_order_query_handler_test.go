package queries_test

import (
	"context"
	"testing"

	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrderQueryHandler(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, true)
	handler := queries.NewGetOrderQueryHandler(w.orders, w.deliveries, queries.NewDriverAssignments(w.db, true))

	o, d := w.orderWithDelivery(2)
	assigned := kernel.NewUUID()
	w.assign(d, assigned)

	read := func(role access.Role, id kernel.UUID) (queries.GetOrderQueryResponse, error) {
		actor, err := access.NewActor(id, role)
		require.NoError(t, err)
		q, err := queries.NewGetOrderQuery(actor, o.ID())
		require.NoError(t, err)
		return handler.Handle(ctx, q)
	}

	t.Run("owner", func(t *testing.T) {
		resp, err := read(access.RoleCustomer, w.customer)
		require.NoError(t, err)
		assert.Equal(t, "PendingApproval", resp.Status)
		assert.Equal(t, "ToPay", resp.PaymentFlag)
		assert.Equal(t, "Pending", resp.Transaction.PaymentStatus)
		assert.Equal(t, "10.00", resp.Amount.StringFixed(2))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.Items[0].Quantity)
		require.NotNil(t, resp.Delivery)
		assert.Equal(t, "Preparing", resp.Delivery.Status)
		assert.Equal(t, []kernel.UUID{assigned}, resp.Delivery.Drivers)
	})

	t.Run("staff", func(t *testing.T) {
		_, err := read(access.RoleStaff, kernel.NewUUID())
		assert.NoError(t, err)
	})

	t.Run("assigned driver", func(t *testing.T) {
		_, err := read(access.RoleDriver, assigned)
		assert.NoError(t, err)
	})

	t.Run("strangers see nothing", func(t *testing.T) {
		_, err := read(access.RoleDriver, kernel.NewUUID())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)

		_, err = read(access.RoleCustomer, kernel.NewUUID())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
