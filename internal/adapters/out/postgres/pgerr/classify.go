// Package pgerr turns driver and GORM errors into the back office error
// taxonomy.
package pgerr

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"backoffice/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SQLSTATE codes that a retry of the whole transaction may cure.
var retryableCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
	"57014": {}, // query_canceled (lock_timeout, statement_timeout)
}

// IsRetryable reports whether err comes from lock contention, a
// serialization failure or a lost connection.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if code := sqlState(err); code != "" {
		if _, ok := retryableCodes[code]; ok {
			return true
		}
		// class 08: connection exception
		return strings.HasPrefix(code, "08")
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// SQLite reports a held write lock as "database is locked".
	return strings.Contains(err.Error(), "database is locked")
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// Wrap classifies a store error raised while doing operation. Retryable
// errors become TransientStoreError, everything else keeps its identity
// behind a short context prefix. gorm.ErrRecordNotFound is returned as is so
// repositories can map it to the right ObjectNotFoundError.
func Wrap(operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return err
	case IsRetryable(err):
		return errs.NewTransientStoreError(operation, err)
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}

// NotFound maps gorm.ErrRecordNotFound to an ObjectNotFoundError for the
// named entity and classifies every other error with Wrap.
func NotFound(entity string, id any, operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundErrorWithCause(entity, id, err)
	}
	return Wrap(operation, err)
}
