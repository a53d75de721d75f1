// Package id provides UUIDv7 identifiers for content rows.
// UUIDv7 is time-ordered, so ids sort roughly by creation time, which keeps
// the id tie-break consistent with created_at.
package id

import (
	"github.com/google/uuid"

	"folio/internal/core/apperror"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts a path parameter to ID. Malformed input is a validation error.
func Parse(s string) (ID, error) {
	v, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperror.NewValidation("invalid id format").WithDetail("id", s)
	}
	return v, nil
}

// MustParse converts string to ID, panics on error. Tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
