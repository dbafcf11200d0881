package delivery_test

import (
	"testing"
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), now)
	require.NoError(t, err)
	return d
}

func TestNewDelivery(t *testing.T) {
	d := newDelivery(t)

	require.NoError(t, d.Validate())
	assert.Equal(t, delivery.Pending, d.Status())
	assert.True(t, d.IsActive())
	assert.Empty(t, d.Drivers())

	_, err := delivery.NewDelivery(kernel.UUID{}, kernel.NewUUID(), now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestDelivery_StartPreparing(t *testing.T) {
	d := newDelivery(t)

	assert.True(t, d.StartPreparing(now))
	assert.Equal(t, delivery.Preparing, d.Status())
	assert.False(t, d.StartPreparing(now))

	_, err := d.Advance(delivery.OutForDelivery, now)
	require.NoError(t, err)
	assert.False(t, d.StartPreparing(now))
	assert.Equal(t, delivery.OutForDelivery, d.Status())
}

func TestDelivery_Advance(t *testing.T) {
	d := newDelivery(t)

	_, err := d.Advance(delivery.OutForDelivery, now)
	require.ErrorIs(t, err, errs.ErrConflict, "pending can not skip preparing")

	d.StartPreparing(now)
	changed, err := d.Advance(delivery.OutForDelivery, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = d.Advance(delivery.OutForDelivery, now)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = d.Advance(delivery.Preparing, now)
	require.ErrorIs(t, err, errs.ErrConflict)

	_, err = d.Advance(delivery.Delivered, now)
	require.NoError(t, err)
	assert.False(t, d.IsActive())

	_, err = d.Advance(delivery.Unknown, now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDelivery_Cancel(t *testing.T) {
	d := newDelivery(t)

	changed, err := d.Cancel(now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = d.Cancel(now)
	require.NoError(t, err)
	assert.False(t, changed)

	d.ResetForReschedule(now)
	assert.Equal(t, delivery.Pending, d.Status())
	assert.Equal(t, 1, d.RescheduleCount())

	d.StartPreparing(now)
	_, _ = d.Advance(delivery.OutForDelivery, now)
	_, _ = d.Advance(delivery.Delivered, now)
	_, err = d.Cancel(now)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestDelivery_Assignments(t *testing.T) {
	t.Run("mirrors legacy column and keeps the set", func(t *testing.T) {
		d := newDelivery(t)
		first, second := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, d.AssignDriver(first, now))
		require.NoError(t, d.AssignDriver(second, now))
		require.NoError(t, d.AssignDriver(second, now))

		snap := d.Snapshot()
		require.NotNil(t, snap.LegacyDriverID)
		assert.True(t, snap.LegacyDriverID.IsEqual(second))
		assert.Len(t, snap.Drivers, 2)
		assert.Len(t, d.Drivers(), 2)
		assert.True(t, d.IsVisibleTo(first))
		assert.True(t, d.IsVisibleTo(second))
		assert.False(t, d.IsVisibleTo(kernel.NewUUID()))
	})

	t.Run("legacy only and junction only are both visible", func(t *testing.T) {
		legacy, junction := kernel.NewUUID(), kernel.NewUUID()
		d, err := delivery.RestoreDelivery(delivery.Snapshot{
			ID:             kernel.NewUUID(),
			OrderID:        kernel.NewUUID(),
			Status:         delivery.Preparing,
			LegacyDriverID: &legacy,
			Drivers:        []kernel.UUID{junction},
		})
		require.NoError(t, err)

		assert.True(t, d.IsVisibleTo(legacy))
		assert.True(t, d.IsVisibleTo(junction))
		assert.Len(t, d.Drivers(), 2)
	})

	t.Run("vehicles", func(t *testing.T) {
		d := newDelivery(t)
		v := kernel.NewUUID()

		require.NoError(t, d.AssignVehicle(v, now))
		require.Len(t, d.Vehicles(), 1)
		assert.True(t, d.Vehicles()[0].IsEqual(v))
	})

	t.Run("final deliveries refuse assignments", func(t *testing.T) {
		d := newDelivery(t)
		_, _ = d.Cancel(now)

		require.ErrorIs(t, d.AssignDriver(kernel.NewUUID(), now), errs.ErrConflict)
		require.ErrorIs(t, d.AssignVehicle(kernel.NewUUID(), now), errs.ErrConflict)
	})
}

func TestParseStatus(t *testing.T) {
	s, err := delivery.ParseStatus("out for delivery")
	require.NoError(t, err)
	assert.Equal(t, delivery.OutForDelivery, s)

	_, err = delivery.ParseStatus("lost")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
