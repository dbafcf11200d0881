package kernel

import (
	"fmt"
	"strings"
	"time"

	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var (
	// ErrTimeOfDayIsNotConstructed is returned by Validate for the zero TimeOfDay.
	ErrTimeOfDayIsNotConstructed = errs.NewValueIsRequiredError("TimeOfDay must be created via NewTimeOfDay or ParseTimeOfDay")

	// BusinessHoursOpen is the first second at which a delivery may be scheduled.
	BusinessHoursOpen = mustTimeOfDay(7, 0, 0)

	// BusinessHoursClose is exclusive: 18:00:00 itself is already closed.
	BusinessHoursClose = mustTimeOfDay(18, 0, 0)
)

const secondsPerDay = 24 * 60 * 60

// TimeOfDay is a wall-clock time without a date, with one second precision.
type TimeOfDay struct {
	seconds int
	guard   guard.ConstructorGuard
}

// NewTimeOfDay validates each component and builds the value.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("hour", hour, 0, 23)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("minute", minute, 0, 59)
	}
	if second < 0 || second > 59 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("second", second, 0, 59)
	}
	return TimeOfDay{
		seconds: hour*3600 + minute*60 + second,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func mustTimeOfDay(hour, minute, second int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeOfDay{}, errs.NewValueIsRequiredError("preferredTime")
	}

	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	parsed, err := time.Parse(layout, s)
	if err != nil {
		return TimeOfDay{}, errs.NewValueIsInvalidErrorWithCause("preferredTime", err)
	}
	return NewTimeOfDay(parsed.Hour(), parsed.Minute(), parsed.Second())
}

func (t TimeOfDay) Hour() int { return t.seconds / 3600 }
func (t TimeOfDay) Minute() int { return t.seconds % 3600 / 60 }
func (t TimeOfDay) Second() int { return t.seconds % 60 }

// String renders the value as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.seconds < other.seconds
}

func (t TimeOfDay) IsEqual(other TimeOfDay) bool {
	return t.seconds == other.seconds
}

func (t TimeOfDay) Validate() error {
	if err := t.guard.Validate(ErrTimeOfDayIsNotConstructed); err != nil {
		return err
	}
	if t.seconds < 0 || t.seconds >= secondsPerDay {
		return errs.NewValueIsOutOfRangeError("timeOfDay", t.seconds, 0, secondsPerDay-1)
	}
	return nil
}

// WithinBusinessHours reports whether BusinessHoursOpen <= t < BusinessHoursClose.
func (t TimeOfDay) WithinBusinessHours() bool {
	return !t.Before(BusinessHoursOpen) && t.Before(BusinessHoursClose)
}

// RequireBusinessHours returns a ValueIsOutOfRangeError naming paramName
// when t falls outside business hours.
func (t TimeOfDay) RequireBusinessHours(paramName string) error {
	if t.WithinBusinessHours() {
		return nil
	}
	last := BusinessHoursClose.seconds - 1
	return errs.NewValueIsOutOfRangeError(paramName, t.String(), BusinessHoursOpen.String(),
		fmt.Sprintf("%02d:%02d:%02d", last/3600, last%3600/60, last%60))
}
