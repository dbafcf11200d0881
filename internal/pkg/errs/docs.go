// Package errs provides the error taxonomy shared by the back office core.
//
// Every error kind follows the same shape:
//   - a sentinel variable (ErrObjectNotFound, ErrConflict, ...) used with errors.Is
//   - a struct carrying the details, retrievable with errors.As
//   - New<Kind>Error and New<Kind>ErrorWithCause constructors
//   - Error() for formatting and Unwrap() exposing the sentinel
//
// The kinds map onto the failure classes callers must tell apart:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: no such order, delivery or product
//   - ConflictError: a precondition on the current state failed
//   - LimitExceededError: a bounded counter reached its cap
//   - PermissionDeniedError: the actor lacks a capability
//   - TransientStoreError: lock contention or connectivity, safe to retry
//   - NotificationError: a side channel failed; only ever logged
package errs
