// Package work provides the portfolio Works resource: case studies and
// projects with media, links and engagement counters.
package work

import (
	"context"

	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// Work is one portfolio project.
type Work struct {
	entity.BaseContent

	Title       string `db:"title" json:"title"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
	Client      string `db:"client" json:"client"`
	Year        int    `db:"year" json:"year"`
	Thumbnail   string `db:"thumbnail" json:"thumbnail"`

	Tags      codec.StringList `db:"tags" json:"tags"`
	TechStack codec.StringList `db:"tech_stack" json:"techStack"`
	Images    codec.StringList `db:"images" json:"images"`
	Links     codec.StringMap  `db:"links" json:"links"`

	// Counters
	Views int64 `db:"views" json:"views"`
	Likes int64 `db:"likes" json:"likes"`
}

// New returns an empty Work.
func New() *Work { return &Work{} }

// Validate implements entity.Validatable.
func (w *Work) Validate(ctx context.Context) error {
	if err := entity.RequireText("title", w.Title); err != nil {
		return err
	}
	return entity.RequireText("description", w.Description)
}

// Resource describes the works table.
var Resource = domain.Resource{
	Name:  "works",
	Table: "works",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*Work](),
			"displayOrder", "createdAt", "updatedAt", "title", "year", "views", "likes"),
		CategoryColumn:   "category",
		DefaultSortBy:    "displayOrder",
		DefaultSortOrder: filter.Asc,
	},
	Encoded:  []string{"tags", "techStack", "images", "links"},
	Counters: []string{"views", "likes"},
}
