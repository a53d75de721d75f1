// Package testimonial provides the Testimonials resource.
package testimonial

import (
	"context"

	"folio/internal/core/apperror"
	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// Testimonial is a quote from a client or colleague.
type Testimonial struct {
	entity.BaseContent

	Name         string `db:"name" json:"name"`
	Role         string `db:"role" json:"role"`
	Company      string `db:"company" json:"company"`
	Relationship string `db:"relationship" json:"relationship"` // client, manager, peer
	Category     string `db:"category" json:"category"`
	Content      string `db:"content" json:"content"`
	Rating       int    `db:"rating" json:"rating"`
	Avatar       string `db:"avatar" json:"avatar"`

	Tags codec.StringList `db:"tags" json:"tags"`
}

// New returns an empty Testimonial.
func New() *Testimonial { return &Testimonial{} }

// Validate implements entity.Validatable.
func (t *Testimonial) Validate(ctx context.Context) error {
	if err := entity.RequireText("name", t.Name); err != nil {
		return err
	}
	if err := entity.RequireText("content", t.Content); err != nil {
		return err
	}
	if t.Rating < 0 || t.Rating > 5 {
		return apperror.NewValidation("rating must be between 0 and 5").
			WithDetail("field", "rating")
	}
	return nil
}

// Resource describes the testimonials table.
var Resource = domain.Resource{
	Name:  "testimonials",
	Table: "testimonials",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*Testimonial](),
			"displayOrder", "createdAt", "updatedAt", "name", "rating"),
		CategoryColumn: "category",
		Extras: []filter.Extra{
			{Param: filter.ParamRelationship, Column: "relationship", Kind: filter.ExtraExact},
		},
		DefaultSortBy:    "createdAt",
		DefaultSortOrder: filter.Desc,
	},
	Encoded: []string{"tags"},
}
