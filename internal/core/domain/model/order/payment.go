package order

import (
	"fmt"
	"strings"

	"backoffice/internal/pkg/errs"
)

// PaymentFlag says whether the customer has paid. While it is Paid the
// order's items are deducted from stock, and only then.
type PaymentFlag string

const (
	ToPay PaymentFlag = "ToPay"
	Paid  PaymentFlag = "Paid"
)

// ParsePaymentFlag accepts the flag names case-insensitively. "to_pay" and
// "to pay" are accepted as spellings of ToPay.
func ParsePaymentFlag(s string) (PaymentFlag, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.TrimSpace(s)))
	switch norm {
	case "topay":
		return ToPay, nil
	case "paid":
		return Paid, nil
	case "":
		return "", errs.NewValueIsRequiredError("paymentStatus")
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is neither ToPay nor Paid", s))
	}
}

func (f PaymentFlag) Validate() error {
	if f != ToPay && f != Paid {
		return errs.NewValueIsInvalidErrorWithCause("paymentFlag", fmt.Errorf("%q is neither ToPay nor Paid", string(f)))
	}
	return nil
}

func (f PaymentFlag) String() string { return string(f) }

// TransactionStatus is the payment status of the Transaction row that
// projects an order's payment flag.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "Pending"
	TransactionPaid    TransactionStatus = "Paid"
)

// TransactionStatus returns the projection of f.
func (f PaymentFlag) TransactionStatus() TransactionStatus {
	if f == Paid {
		return TransactionPaid
	}
	return TransactionPending
}
