package order

import (
	"errors"
	"fmt"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is one order line. Lines never change after the order is placed.
type Item struct {
	id          kernel.UUID
	productID   kernel.UUID
	variationID *kernel.UUID
	quantity    int
	unitPrice   decimal.Decimal
}

// NewItem builds a line for a product, or for one of its variations when
// variationID is not nil.
func NewItem(productID kernel.UUID, variationID *kernel.UUID, quantity int, unitPrice decimal.Decimal) (Item, error) {
	return RestoreItem(kernel.NewUUID(), productID, variationID, quantity, unitPrice)
}

// RestoreItem rebuilds a persisted line.
func RestoreItem(id, productID kernel.UUID, variationID *kernel.UUID, quantity int, unitPrice decimal.Decimal) (Item, error) {
	var errList []error
	errList = append(errList, id.Validate(), productID.Validate())
	if variationID != nil {
		errList = append(errList, variationID.Validate())
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if unitPrice.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%s is negative", unitPrice)))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{
		id:          id,
		productID:   productID,
		variationID: variationID,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}, nil
}

func (i Item) ID() kernel.UUID { return i.id }
func (i Item) ProductID() kernel.UUID { return i.productID }
func (i Item) VariationID() *kernel.UUID { return i.variationID }
func (i Item) Quantity() int { return i.quantity }
func (i Item) UnitPrice() decimal.Decimal { return i.unitPrice }

// Subtotal is quantity times unit price.
func (i Item) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}
