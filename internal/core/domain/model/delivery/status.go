package delivery

import (
	"fmt"
	"strings"

	"backoffice/internal/pkg/errs"
)

// Status is the fulfillment state of a delivery.
type Status int

const (
	Unknown Status = iota
	Pending
	Preparing
	OutForDelivery
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:        "Pending",
	Preparing:      "Preparing",
	OutForDelivery: "OutForDelivery",
	Delivered:      "Delivered",
	Cancelled:      "Cancelled",
}

func ParseStatus(s string) (Status, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for st, name := range statusNames {
		if strings.EqualFold(name, norm) {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("deliveryStatus", fmt.Errorf("%q is not a valid delivery status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("deliveryStatus", fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

// IsFinal reports whether no further work happens on a delivery in s.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// TerminalStatuses lists the statuses excluded from a driver's active count.
func TerminalStatuses() []Status {
	return []Status{Delivered, Cancelled}
}

// next returns the single forward step from s, if any.
func (s Status) next() (Status, bool) {
	switch s {
	case Preparing:
		return OutForDelivery, true
	case OutForDelivery:
		return Delivered, true
	default:
		return Unknown, false
	}
}
