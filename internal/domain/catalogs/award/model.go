// Package award provides the Awards resource.
package award

import (
	"context"

	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

type Award struct {
	entity.BaseContent

	Title       string `db:"title" json:"title"`
	Issuer      string `db:"issuer" json:"issuer"`
	Category    string `db:"category" json:"category"`
	Year        int    `db:"year" json:"year"`
	Description string `db:"description" json:"description"`
	URL         string `db:"url" json:"url"`
	Image       string `db:"image" json:"image"`

	Tags codec.StringList `db:"tags" json:"tags"`
}

func New() *Award { return &Award{} }

func (a *Award) Validate(ctx context.Context) error {
	return entity.RequireText("title", a.Title)
}

var Resource = domain.Resource{
	Name:  "awards",
	Table: "awards",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*Award](),
			"displayOrder", "createdAt", "updatedAt", "title", "year"),
		CategoryColumn:   "category",
		DefaultSortBy:    "year",
		DefaultSortOrder: filter.Desc,
	},
	Encoded: []string{"tags"},
}
