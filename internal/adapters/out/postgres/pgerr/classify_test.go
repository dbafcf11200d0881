package pgerr_test

import (
	"errors"
	"fmt"
	"testing"

	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWrap(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		require.NoError(t, pgerr.Wrap("noop", nil))
	})

	t.Run("pgx deadlock is transient", func(t *testing.T) {
		err := pgerr.Wrap("update order", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"}))

		require.ErrorIs(t, err, errs.ErrTransientStore)
		assert.Contains(t, err.Error(), "update order")
	})

	t.Run("lib/pq serialization failure is transient", func(t *testing.T) {
		err := pgerr.Wrap("commit", &pq.Error{Code: "40001"})
		require.ErrorIs(t, err, errs.ErrTransientStore)
	})

	t.Run("connection exception class is transient", func(t *testing.T) {
		err := pgerr.Wrap("select", &pgconn.PgError{Code: "08006"})
		require.ErrorIs(t, err, errs.ErrTransientStore)
	})

	t.Run("unique violation keeps its identity", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "23505"}
		err := pgerr.Wrap("insert", cause)

		assert.NotErrorIs(t, err, errs.ErrTransientStore)
		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, "23505", pgErr.Code)
	})

	t.Run("record not found passes through", func(t *testing.T) {
		assert.Equal(t, gorm.ErrRecordNotFound, pgerr.Wrap("get", gorm.ErrRecordNotFound))
	})

	t.Run("sqlite busy", func(t *testing.T) {
		err := pgerr.Wrap("update", errors.New("database is locked (5) (SQLITE_BUSY)"))
		require.ErrorIs(t, err, errs.ErrTransientStore)
	})
}

func TestNotFound(t *testing.T) {
	err := pgerr.NotFound("order", "42", "get order", gorm.ErrRecordNotFound)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Contains(t, err.Error(), "order 42")

	err = pgerr.NotFound("order", "42", "get order", &pgconn.PgError{Code: "55P03"})
	require.ErrorIs(t, err, errs.ErrTransientStore)
}
