package kernel

import (
	"time"

	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

// ErrDateIsNotConstructed is returned by Validate for the zero Date.
var ErrDateIsNotConstructed = errs.NewValueIsRequiredError("Date must be created via NewDate, DateOf or ParseDate")

// Date is a calendar day with no time zone attached.
type Date struct {
	t     time.Time
	guard guard.ConstructorGuard
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{
		t:     time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		guard: guard.NewConstructorGuard(),
	}
}

// DateOf truncates t to the calendar day it falls on in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, errs.NewValueIsRequiredError("date")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) IsEqual(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) Validate() error {
	return d.guard.Validate(ErrDateIsNotConstructed)
}
