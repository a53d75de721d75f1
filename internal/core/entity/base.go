// Package entity provides the base types shared by every content resource.
package entity

import (
	"context"
	"strings"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Content is the capability every resource model provides to the generic
// content engine. Models satisfy it by embedding BaseContent.
type Content interface {
	Validatable
	Base() *BaseContent
}

// BaseContent contains the lifecycle fields common to all content rows.
type BaseContent struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// DisplayOrder is the manual sort key; not unique.
	DisplayOrder int `db:"display_order" json:"displayOrder"`

	IsFeatured  bool `db:"is_featured" json:"isFeatured"`
	IsPublished bool `db:"is_published" json:"isPublished"`
	IsDraft     bool `db:"is_draft" json:"isDraft"`

	// DeletedAt is set when the row is soft-deleted.
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Base returns the embedded lifecycle fields.
func (b *BaseContent) Base() *BaseContent {
	return b
}

// Prepare readies a new row for insertion: fresh id, timestamps, and no
// deletion mark.
func (b *BaseContent) Prepare(now time.Time) {
	b.ID = id.New()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.DeletedAt = nil
}

// IsDeleted returns true if the row has been soft-deleted.
func (b *BaseContent) IsDeleted() bool {
	return b.DeletedAt != nil
}

// MarkDeleted sets the deletion timestamp.
func (b *BaseContent) MarkDeleted(now time.Time) {
	b.DeletedAt = &now
	b.UpdatedAt = now
}

// Undelete clears the deletion timestamp.
func (b *BaseContent) Undelete(now time.Time) {
	b.DeletedAt = nil
	b.UpdatedAt = now
}

// RequireText returns a validation error naming field when value is blank.
func RequireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.NewValidation(field+" is required").
			WithDetail("field", field)
	}
	return nil
}
