package services

import (
	"sort"

	"backoffice/internal/core/domain/model/inventory"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
)

// StockReconciler derives stock adjustments from the payment flag of an order.
//
// Business rules:
//   - an order's items are deducted exactly while its payment flag is Paid
//   - ToPay -> Paid deducts every item quantity once
//   - Paid -> ToPay restores the exact same quantities through the same
//     product or variation resolution
//   - an unchanged flag produces no adjustment
//
// Adjustments come back sorted by product then variation so that callers
// locking stock rows in that order never deadlock against each other.
type StockReconciler struct{}

func NewStockReconciler() StockReconciler {
	return StockReconciler{}
}

// ForPaymentChange returns the adjustments for moving o from flag from to
// flag to.
func (r StockReconciler) ForPaymentChange(o *order.Order, from, to order.PaymentFlag) ([]inventory.Adjustment, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	switch {
	case from == order.ToPay && to == order.Paid:
		return r.adjustments(o, -1, inventory.ReasonPaymentConfirmed), nil
	case from == order.Paid && to == order.ToPay:
		return r.adjustments(o, 1, inventory.ReasonPaymentReversed), nil
	default:
		return nil, nil
	}
}

// ForDeletion returns the restorations owed when o is deleted: everything it
// holds if it is paid, nothing otherwise.
func (r StockReconciler) ForDeletion(o *order.Order) ([]inventory.Adjustment, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.PaymentFlag() != order.Paid {
		return nil, nil
	}
	return r.adjustments(o, 1, inventory.ReasonOrderDeleted), nil
}

func (r StockReconciler) adjustments(o *order.Order, sign int, reason inventory.Reason) []inventory.Adjustment {
	items := o.Items()
	out := make([]inventory.Adjustment, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.Adjustment{
			ProductID:   it.ProductID(),
			VariationID: it.VariationID(),
			Delta:       sign * it.Quantity(),
			OrderID:     o.ID(),
			Reason:      reason,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ProductID.IsEqual(b.ProductID) {
			return a.ProductID.Less(b.ProductID)
		}
		return lessOptional(a.VariationID, b.VariationID)
	})
	return out
}

func lessOptional(a, b *kernel.UUID) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Less(*b)
	}
}
