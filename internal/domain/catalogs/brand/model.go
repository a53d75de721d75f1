// Package brand provides the Brands resource: clients and companies shown as
// logos.
package brand

import (
	"context"

	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// Brand is a client or partner logo.
type Brand struct {
	entity.BaseContent

	Name        string `db:"name" json:"name"`
	Type        string `db:"type" json:"type"` // client, partner, employer
	Logo        string `db:"logo" json:"logo"`
	Website     string `db:"website" json:"website"`
	Description string `db:"description" json:"description"`

	Tags codec.StringList `db:"tags" json:"tags"`
}

// New returns an empty Brand.
func New() *Brand { return &Brand{} }

// Validate implements entity.Validatable.
func (b *Brand) Validate(ctx context.Context) error {
	return entity.RequireText("name", b.Name)
}

// Resource describes the brands table. Brands are classified by type, which
// the category option matches.
var Resource = domain.Resource{
	Name:  "brands",
	Table: "brands",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*Brand](),
			"displayOrder", "createdAt", "updatedAt", "name"),
		CategoryColumn:   "type",
		DefaultSortBy:    "displayOrder",
		DefaultSortOrder: filter.Asc,
	},
	Encoded: []string{"tags"},
}
