package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"folio/internal/core/apperror"
)

func TestMapError(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		assert.True(t, apperror.IsNotFound(MapError("works", fmt.Errorf("get: %w", pgx.ErrNoRows))))
	})

	t.Run("unique violation", func(t *testing.T) {
		err := MapError("works", &pgconn.PgError{Code: "23505", ConstraintName: "works_slug_key"})
		appErr, ok := apperror.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, 409, appErr.HTTPStatus)
	})

	t.Run("check violation names the column", func(t *testing.T) {
		err := MapError("skills", &pgconn.PgError{Code: "23514", Message: "violates check", ColumnName: "level"})
		assert.True(t, apperror.IsValidation(err))
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, "level", appErr.Details["field"])
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Same(t, boom, MapError("works", boom))

		pgErr := &pgconn.PgError{Code: "57014"}
		assert.Same(t, pgErr, MapError("works", pgErr))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapError("works", nil))
	})
}
