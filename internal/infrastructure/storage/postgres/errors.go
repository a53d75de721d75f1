package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"folio/internal/core/apperror"
)

// SQLSTATE codes mapped to client errors.
const (
	codeUniqueViolation   = "23505"
	codeNotNullViolation  = "23502"
	codeCheckViolation    = "23514"
	codeStringTooLong     = "22001"
	codeInvalidTextRepr   = "22P02"
	codeNumericOutOfRange = "22003"
)

// MapError turns driver errors into AppErrors where the client is at fault.
// Everything else is returned unchanged for the service to report as a store
// failure.
func MapError(resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(resource, "")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return apperror.NewDuplicate(resource, pgErr.ConstraintName)
	case codeNotNullViolation, codeCheckViolation, codeStringTooLong,
		codeInvalidTextRepr, codeNumericOutOfRange:
		appErr := apperror.NewValidation(pgErr.Message)
		if pgErr.ColumnName != "" {
			appErr = appErr.WithDetail("field", pgErr.ColumnName)
		}
		return appErr.WithCause(err)
	default:
		return err
	}
}
