// Package about provides the About sections of the portfolio.
package about

import (
	"context"

	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// About is one biography block (intro, philosophy, contact card, ...).
type About struct {
	entity.BaseContent

	Title       string `db:"title" json:"title"`
	Subtitle    string `db:"subtitle" json:"subtitle"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
	Image       string `db:"image" json:"image"`

	Highlights  codec.StringList `db:"highlights" json:"highlights"`
	SocialLinks codec.StringMap  `db:"social_links" json:"socialLinks"`
}

// New returns an empty About.
func New() *About { return &About{} }

// Validate implements entity.Validatable.
func (a *About) Validate(ctx context.Context) error {
	if err := entity.RequireText("title", a.Title); err != nil {
		return err
	}
	return entity.RequireText("description", a.Description)
}

// Resource describes the abouts table.
var Resource = domain.Resource{
	Name:  "abouts",
	Table: "abouts",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*About](),
			"displayOrder", "createdAt", "updatedAt", "title"),
		CategoryColumn:   "category",
		DefaultSortBy:    "displayOrder",
		DefaultSortOrder: filter.Asc,
	},
	Encoded: []string{"highlights", "socialLinks"},
}
