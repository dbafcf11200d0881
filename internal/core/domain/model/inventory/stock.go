package inventory

import (
	"errors"
	"fmt"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// StockStatus is the label derived from a stock level and its threshold.
type StockStatus string

const (
	InStock    StockStatus = "InStock"
	LowStock   StockStatus = "LowStock"
	OutOfStock StockStatus = "OutOfStock"
)

// DeriveStatus labels level against minimumThreshold: OutOfStock at or below
// zero, LowStock at or below the threshold, InStock above it.
func DeriveStatus(level, minimumThreshold int) StockStatus {
	switch {
	case level <= 0:
		return OutOfStock
	case level <= minimumThreshold:
		return LowStock
	default:
		return InStock
	}
}

// Target says which row carries a counter.
type Target string

const (
	TargetProduct   Target = "product"
	TargetVariation Target = "variation"
)

// Reason explains a stock movement.
type Reason string

const (
	ReasonPaymentConfirmed Reason = "payment_confirmed"
	ReasonPaymentReversed  Reason = "payment_reversed"
	ReasonOrderDeleted     Reason = "order_deleted"
)

// Stock is the counter resolved for one adjustment: either a product's or a
// variation's own level, paired with the owning product's threshold.
type Stock struct {
	productID   kernel.UUID
	variationID *kernel.UUID
	target      Target
	level       int
	threshold   int
}

// NewProductStock wraps a product's counter.
func NewProductStock(productID kernel.UUID, level, minimumThreshold int) (*Stock, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	return &Stock{
		productID: productID,
		target:    TargetProduct,
		level:     level,
		threshold: minimumThreshold,
	}, nil
}

// NewVariationStock wraps a variation's own counter.
func NewVariationStock(productID, variationID kernel.UUID, level, minimumThreshold int) (*Stock, error) {
	if err := errors.Join(productID.Validate(), variationID.Validate()); err != nil {
		return nil, err
	}
	return &Stock{
		productID:   productID,
		variationID: &variationID,
		target:      TargetVariation,
		level:       level,
		threshold:   minimumThreshold,
	}, nil
}

func (s *Stock) ProductID() kernel.UUID { return s.productID }
func (s *Stock) VariationID() *kernel.UUID { return s.variationID }
func (s *Stock) Target() Target { return s.target }
func (s *Stock) Level() int { return s.level }
func (s *Stock) Threshold() int { return s.threshold }
func (s *Stock) Status() StockStatus { return DeriveStatus(s.level, s.threshold) }

// Apply adds adj.Delta to the level and returns the movement describing it.
func (s *Stock) Apply(adj Adjustment, now time.Time) (Movement, error) {
	if err := adj.Validate(); err != nil {
		return Movement{}, err
	}
	s.level += adj.Delta
	return Movement{
		ID:             kernel.NewUUID(),
		ProductID:      s.productID,
		VariationID:    s.variationID,
		Target:         s.target,
		Delta:          adj.Delta,
		ResultingLevel: s.level,
		OrderID:        adj.OrderID,
		Reason:         adj.Reason,
		CreatedAt:      now,
	}, nil
}

// Adjustment is a signed change requested for the counter that serves a
// product, or a variation of it.
type Adjustment struct {
	ProductID   kernel.UUID
	VariationID *kernel.UUID
	Delta       int
	OrderID     kernel.UUID
	Reason      Reason
}

func (a Adjustment) Validate() error {
	var errList []error
	errList = append(errList, a.ProductID.Validate())
	if a.VariationID != nil {
		errList = append(errList, a.VariationID.Validate())
	}
	if a.Delta == 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("delta", fmt.Errorf("zero delta for product %s", a.ProductID)))
	}
	if a.Reason == "" {
		errList = append(errList, errs.NewValueIsRequiredError("reason"))
	}
	return errors.Join(errList...)
}

// Movement is the append-only record of one applied adjustment.
type Movement struct {
	ID             kernel.UUID
	ProductID      kernel.UUID
	VariationID    *kernel.UUID
	Target         Target
	Delta          int
	ResultingLevel int
	OrderID        kernel.UUID
	Reason         Reason
	CreatedAt      time.Time
}
