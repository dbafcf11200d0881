package order

import (
	"fmt"
	"strings"

	"backoffice/internal/pkg/errs"
)

// Status is the position of an order in the approval funnel.
//
//	PendingApproval ──> WaitingPayment ──> Processing ──> Ready
//	       │                  │   ^             │
//	       │                  │   └─(reversal)──┤
//	       v                  v                 v
//	   Rejected           Cancelled <───────────┘
//
// A Cancelled order goes back to PendingApproval when rescheduled. Completion is
// tracked on the delivery, not here.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota
	PendingApproval
	WaitingPayment
	Processing
	Ready
	Cancelled
	Rejected
)

var statusNames = map[Status]string{
	PendingApproval: "PendingApproval",
	WaitingPayment:  "WaitingPayment",
	Processing:      "Processing",
	Ready:           "Ready",
	Cancelled:       "Cancelled",
	Rejected:        "Rejected",
}

// ParseStatus maps the stored representation back to a Status. Rows written
// before the status column existed carry an empty value, which means the order
// never left the approval queue.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PendingApproval, nil
	}
	for st, name := range statusNames {
		if strings.EqualFold(name, s) {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

// IsCancellable reports whether Cancel moves s to Cancelled.
func (s Status) IsCancellable() bool {
	return s == PendingApproval || s == WaitingPayment || s == Processing
}

func (s Status) conflict() error {
	return errs.NewConflictError("order status", s.String())
}

// Approve moves PendingApproval to WaitingPayment.
func (s Status) Approve() (Status, error) {
	if s != PendingApproval {
		return s, s.conflict()
	}
	return WaitingPayment, nil
}

// Reject moves PendingApproval to Rejected.
func (s Status) Reject() (Status, error) {
	if s != PendingApproval {
		return s, s.conflict()
	}
	return Rejected, nil
}

// Cancel moves a cancellable status to Cancelled. An already cancelled status
// is returned unchanged with changed == false.
func (s Status) Cancel() (next Status, changed bool, err error) {
	switch {
	case s == Cancelled:
		return Cancelled, false, nil
	case s.IsCancellable():
		return Cancelled, true, nil
	default:
		return s, false, s.conflict()
	}
}
