package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValueIsRequired   = errors.New("value is required")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrObjectNotFound    = errors.New("object not found")
	ErrConflict          = errors.New("conflict")
	ErrLimitExceeded     = errors.New("limit exceeded")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrTransientStore    = errors.New("transient store error")
	ErrNotification      = errors.New("notification failed")
)

// sanitize keeps user supplied values on a single log line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError reports a value that is present but malformed.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsOutOfRange, e.ParamName, sanitize(e.Value), sanitize(e.Min), sanitize(e.Max)), e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError reports a missing aggregate or row.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ConflictError reports that the current state does not allow the operation.
// Observed carries the state that was found so callers can tell, for example,
// "already approved" apart from "rejected".
type ConflictError struct {
	Subject  string
	Observed string
	Cause    error
}

func NewConflictError(subject, observed string) *ConflictError {
	return &ConflictError{Subject: subject, Observed: observed}
}

func NewConflictErrorWithCause(subject, observed string, cause error) *ConflictError {
	return &ConflictError{Subject: subject, Observed: observed, Cause: cause}
}

func (e *ConflictError) Error() string {
	return withCause(fmt.Sprintf("%s: %s is %s", ErrConflict, e.Subject, sanitize(e.Observed)), e.Cause)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// LimitExceededError reports a counter that reached its cap.
type LimitExceededError struct {
	ParamName string
	Limit     int
}

func NewLimitExceededError(paramName string, limit int) *LimitExceededError {
	return &LimitExceededError{ParamName: paramName, Limit: limit}
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s: %s reached %d", ErrLimitExceeded, e.ParamName, e.Limit)
}

func (e *LimitExceededError) Unwrap() error {
	return ErrLimitExceeded
}

// PermissionDeniedError reports a missing capability or ownership.
type PermissionDeniedError struct {
	Capability string
}

func NewPermissionDeniedError(capability string) *PermissionDeniedError {
	return &PermissionDeniedError{Capability: capability}
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPermissionDenied, e.Capability)
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// TransientStoreError wraps a store failure that may succeed on retry.
// Both ErrTransientStore and the cause are reachable through errors.Is.
type TransientStoreError struct {
	Operation string
	Cause     error
}

func NewTransientStoreError(operation string, cause error) *TransientStoreError {
	return &TransientStoreError{Operation: operation, Cause: cause}
}

func (e *TransientStoreError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrTransientStore, e.Operation), e.Cause)
}

func (e *TransientStoreError) Unwrap() []error {
	return []error{ErrTransientStore, e.Cause}
}

// NotificationError wraps a failed side-channel delivery.
type NotificationError struct {
	Channel string
	Event   string
	Cause   error
}

func NewNotificationError(channel, event string, cause error) *NotificationError {
	return &NotificationError{Channel: channel, Event: event, Cause: cause}
}

func (e *NotificationError) Error() string {
	return withCause(fmt.Sprintf("%s: %s via %s", ErrNotification, e.Event, e.Channel), e.Cause)
}

func (e *NotificationError) Unwrap() []error {
	return []error{ErrNotification, e.Cause}
}
