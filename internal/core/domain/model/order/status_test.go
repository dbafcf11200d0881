package order_test

import (
	"testing"

	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]order.Status{
		"":                order.PendingApproval,
		"  ":              order.PendingApproval,
		"PendingApproval": order.PendingApproval,
		"waitingpayment":  order.WaitingPayment,
		"Processing":      order.Processing,
		"Ready":           order.Ready,
		"Cancelled":       order.Cancelled,
		"Rejected":        order.Rejected,
	}
	for in, want := range cases {
		got, err := order.ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := order.ParseStatus("Completed")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Validate(t *testing.T) {
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
	assert.Equal(t, "Unknown", order.Status(42).String())
	require.NoError(t, order.Ready.Validate())
}

func TestStatus_Cancel(t *testing.T) {
	for _, s := range []order.Status{order.PendingApproval, order.WaitingPayment, order.Processing} {
		next, changed, err := s.Cancel()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.Cancelled, next)
	}

	next, changed, err := order.Cancelled.Cancel()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, order.Cancelled, next)

	for _, s := range []order.Status{order.Ready, order.Rejected} {
		_, _, err = s.Cancel()
		require.ErrorIs(t, err, errs.ErrConflict)
	}
}

func TestParsePaymentFlag(t *testing.T) {
	for in, want := range map[string]order.PaymentFlag{
		"Paid": order.Paid, "paid": order.Paid, "ToPay": order.ToPay, "to_pay": order.ToPay, "To Pay": order.ToPay,
	} {
		got, err := order.ParsePaymentFlag(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := order.ParsePaymentFlag("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = order.ParsePaymentFlag("refunded")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.Equal(t, order.TransactionPaid, order.Paid.TransactionStatus())
	assert.Equal(t, order.TransactionPending, order.ToPay.TransactionStatus())
}
