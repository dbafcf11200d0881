package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MaxReschedules caps how many times a customer may rewind a cancelled order.
const MaxReschedules = 3

// ErrOrderIsNotConstructed is returned by Validate for an Order that was not
// built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Stamp records who performed a transition and when.
type Stamp struct {
	By kernel.UUID
	At time.Time
}

// Contact is the snapshot of the customer's notification targets taken at
// checkout. Either field may be empty.
type Contact struct {
	Email string
	Phone string
}

// Validate only checks the shape of a non-empty email.
func (c Contact) Validate() error {
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return errs.NewValueIsInvalidErrorWithCause("contact.email", fmt.Errorf("%q has no @", c.Email))
	}
	return nil
}

// Order is the aggregate root of a customer purchase.
//
// Invariants:
//   - status is one of the funnel statuses, never Unknown
//   - paymentFlag is ToPay or Paid; the Transaction row mirrors it
//   - items is non-empty and amount equals the sum of their subtotals
//   - rescheduleCount never exceeds MaxReschedules
type Order struct {
	id          kernel.UUID
	customerID  kernel.UUID
	status      Status
	paymentFlag PaymentFlag
	amount      decimal.Decimal
	items       []Item

	preferredDate kernel.Date
	preferredTime *kernel.TimeOfDay

	rescheduleCount   int
	lastRescheduledAt *time.Time

	approval           *Stamp
	rejection          *Stamp
	rejectionReason    string
	cancellation       *Stamp
	cancellationReason string

	contact        Contact
	proofReference string

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// Snapshot is the full persisted state of an Order. Repositories read it with
// Order.Snapshot and rebuild the aggregate with RestoreOrder.
type Snapshot struct {
	ID                 kernel.UUID
	CustomerID         kernel.UUID
	Status             Status
	PaymentFlag        PaymentFlag
	Amount             decimal.Decimal
	Items              []Item
	PreferredDate      kernel.Date
	PreferredTime      *kernel.TimeOfDay
	RescheduleCount    int
	LastRescheduledAt  *time.Time
	Approval           *Stamp
	Rejection          *Stamp
	RejectionReason    string
	Cancellation       *Stamp
	CancellationReason string
	Contact            Contact
	ProofReference     string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewOrder places an order in PendingApproval with payment flag ToPay.
//
// The preferred date must not be in the past relative to now, and the
// preferred time, when given, must fall within business hours.
func NewOrder(
	id, customerID kernel.UUID,
	items []Item,
	preferredDate kernel.Date,
	preferredTime *kernel.TimeOfDay,
	contact Contact,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        PendingApproval,
		paymentFlag:   ToPay,
		contact:       contact,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setSchedule(preferredDate, preferredTime, now),
		contact.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an Order from persisted state. Only structural
// checks run here; business-hour and past-date rules applied when the
// schedule was chosen are not re-evaluated.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.CustomerID.Validate(),
		s.Status.Validate(),
		s.PaymentFlag.Validate(),
	); err != nil {
		return nil, err
	}
	if s.RescheduleCount < 0 || s.RescheduleCount > MaxReschedules {
		return nil, errs.NewValueIsOutOfRangeError("rescheduleCount", s.RescheduleCount, 0, MaxReschedules)
	}

	return &Order{
		id:                 s.ID,
		customerID:         s.CustomerID,
		status:             s.Status,
		paymentFlag:        s.PaymentFlag,
		amount:             s.Amount,
		items:              append([]Item(nil), s.Items...),
		preferredDate:      s.PreferredDate,
		preferredTime:      s.PreferredTime,
		rescheduleCount:    s.RescheduleCount,
		lastRescheduledAt:  s.LastRescheduledAt,
		approval:           s.Approval,
		rejection:          s.Rejection,
		rejectionReason:    s.RejectionReason,
		cancellation:       s.Cancellation,
		cancellationReason: s.CancellationReason,
		contact:            s.Contact,
		proofReference:     s.ProofReference,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		isConstructed:      true,
	}, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Snapshot returns a copy of the order's state.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		CustomerID:         o.customerID,
		Status:             o.status,
		PaymentFlag:        o.paymentFlag,
		Amount:             o.amount,
		Items:              o.Items(),
		PreferredDate:      o.preferredDate,
		PreferredTime:      o.preferredTime,
		RescheduleCount:    o.rescheduleCount,
		LastRescheduledAt:  o.lastRescheduledAt,
		Approval:           o.approval,
		Rejection:          o.rejection,
		RejectionReason:    o.rejectionReason,
		Cancellation:       o.cancellation,
		CancellationReason: o.cancellationReason,
		Contact:            o.contact,
		ProofReference:     o.proofReference,
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
	}
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) CustomerID() kernel.UUID { return o.customerID }
func (o *Order) Status() Status { return o.status }
func (o *Order) PaymentFlag() PaymentFlag { return o.paymentFlag }
func (o *Order) Amount() decimal.Decimal { return o.amount }
func (o *Order) PreferredDate() kernel.Date { return o.preferredDate }
func (o *Order) PreferredTime() *kernel.TimeOfDay { return o.preferredTime }
func (o *Order) RescheduleCount() int { return o.rescheduleCount }
func (o *Order) Contact() Contact { return o.contact }
func (o *Order) RejectionReason() string { return o.rejectionReason }
func (o *Order) CancellationReason() string { return o.cancellationReason }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// IsOwnedBy reports whether customerID placed the order.
func (o *Order) IsOwnedBy(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// Approve moves the order from PendingApproval to WaitingPayment. Any other
// status yields a ConflictError carrying the observed status.
//
// A rescheduled order keeps its payment flag, so an order that is still Paid
// skips WaitingPayment and goes straight to Processing.
func (o *Order) Approve(actorID kernel.UUID, now time.Time) error {
	next, err := o.status.Approve()
	if err != nil {
		return err
	}
	if o.paymentFlag == Paid {
		next = Processing
	}
	o.status = next
	o.approval = &Stamp{By: actorID, At: now}
	o.updatedAt = now
	return nil
}

// Reject moves the order from PendingApproval to Rejected. reason is required.
func (o *Order) Reject(actorID kernel.UUID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	next, err := o.status.Reject()
	if err != nil {
		return err
	}
	o.status = next
	o.rejection = &Stamp{By: actorID, At: now}
	o.rejectionReason = reason
	o.updatedAt = now
	return nil
}

// Cancel moves a cancellable order to Cancelled and reports whether anything
// changed. Cancelling a cancelled order is a no-op.
func (o *Order) Cancel(actorID kernel.UUID, reason string, now time.Time) (bool, error) {
	next, changed, err := o.status.Cancel()
	if err != nil || !changed {
		return false, err
	}
	o.status = next
	o.cancellation = &Stamp{By: actorID, At: now}
	o.cancellationReason = strings.TrimSpace(reason)
	o.updatedAt = now
	return true, nil
}

// MarkPaid flips the payment flag to Paid. It reports false without touching
// anything when the order is already paid. A WaitingPayment order moves on to
// Processing; Cancelled and Rejected orders can not be paid.
func (o *Order) MarkPaid(proofReference string, now time.Time) (bool, error) {
	if o.paymentFlag == Paid {
		return false, nil
	}
	if o.status == Cancelled || o.status == Rejected {
		return false, o.status.conflict()
	}
	if o.status == WaitingPayment {
		o.status = Processing
	}
	o.paymentFlag = Paid
	if ref := strings.TrimSpace(proofReference); ref != "" {
		o.proofReference = ref
	}
	o.updatedAt = now
	return true, nil
}

// MarkUnpaid reverses a payment. It reports false when the order is already
// ToPay. A Processing order goes back to WaitingPayment.
func (o *Order) MarkUnpaid(now time.Time) bool {
	if o.paymentFlag == ToPay {
		return false
	}
	if o.status == Processing {
		o.status = WaitingPayment
	}
	o.paymentFlag = ToPay
	o.updatedAt = now
	return true
}

// MarkReady records that the order was handed over to its delivery.
func (o *Order) MarkReady(now time.Time) error {
	switch o.status {
	case Ready:
		return nil
	case Processing:
		o.status = Ready
		o.updatedAt = now
		return nil
	default:
		return o.status.conflict()
	}
}

// Reschedule rewinds a cancelled order to PendingApproval with a new preferred
// date and time. deliveryCancelled tells whether the order's active delivery
// is cancelled, which is accepted as a cancellation signal on its own.
//
// Rules, in evaluation order:
//   - only the owner may reschedule (PermissionDeniedError)
//   - the new date can not be before today and the time must be within
//     business hours (validation errors)
//   - at most MaxReschedules reschedules (LimitExceededError)
//   - the order or its delivery must be cancelled (ConflictError)
func (o *Order) Reschedule(
	actorID kernel.UUID,
	date kernel.Date,
	tod *kernel.TimeOfDay,
	deliveryCancelled bool,
	now time.Time,
) error {
	if !o.IsOwnedBy(actorID) {
		return errs.NewPermissionDeniedError("orders.reschedule")
	}
	if err := validateSchedule(date, tod, now); err != nil {
		return err
	}
	if o.rescheduleCount >= MaxReschedules {
		return errs.NewLimitExceededError("rescheduleCount", MaxReschedules)
	}
	if o.status != Cancelled && !deliveryCancelled {
		return o.status.conflict()
	}

	o.status = PendingApproval
	o.preferredDate = date
	o.preferredTime = tod
	o.rescheduleCount++
	o.lastRescheduledAt = &now
	o.approval = nil
	o.rejection = nil
	o.rejectionReason = ""
	o.cancellation = nil
	o.cancellationReason = ""
	o.updatedAt = now
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	amount := decimal.Zero
	for _, it := range items {
		if err := it.id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("items", err)
		}
		amount = amount.Add(it.Subtotal())
	}
	o.items = append([]Item(nil), items...)
	o.amount = amount
	return nil
}

func (o *Order) setSchedule(date kernel.Date, tod *kernel.TimeOfDay, now time.Time) error {
	if err := validateSchedule(date, tod, now); err != nil {
		return err
	}
	o.preferredDate = date
	o.preferredTime = tod
	return nil
}

func validateSchedule(date kernel.Date, tod *kernel.TimeOfDay, now time.Time) error {
	if err := date.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("preferredDate", err)
	}
	if today := kernel.DateOf(now); date.Before(today) {
		return errs.NewValueIsInvalidErrorWithCause("preferredDate",
			fmt.Errorf("%s is before %s", date, today))
	}
	if tod == nil {
		return nil
	}
	if err := tod.Validate(); err != nil {
		return err
	}
	return tod.RequireBusinessHours("preferredTime")
}
