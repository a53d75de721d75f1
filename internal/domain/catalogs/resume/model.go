// Package resume provides downloadable resume versions.
package resume

import (
	"context"

	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// Resume is one resume version. Sections holds the structured body
// (summary, education, languages, ...) as a free-form object.
type Resume struct {
	entity.BaseContent

	Title     string `db:"title" json:"title"`
	Version   string `db:"version" json:"version"`
	Category  string `db:"category" json:"category"`
	Summary   string `db:"summary" json:"summary"`
	FileURL   string `db:"file_url" json:"fileUrl"`
	IsCurrent bool   `db:"is_current" json:"isCurrent"`

	Sections codec.Object `db:"sections" json:"sections"`

	Downloads int64 `db:"downloads" json:"downloads"`
}

// New returns an empty Resume.
func New() *Resume { return &Resume{} }

// Validate implements entity.Validatable.
func (r *Resume) Validate(ctx context.Context) error {
	return entity.RequireText("title", r.Title)
}

// Resource describes the resumes table.
var Resource = domain.Resource{
	Name:  "resumes",
	Table: "resumes",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*Resume](),
			"displayOrder", "createdAt", "updatedAt", "title", "downloads"),
		CategoryColumn: "category",
		Extras: []filter.Extra{
			{Param: filter.ParamIsCurrent, Column: "is_current", Kind: filter.ExtraBool},
		},
		DefaultSortBy:    "createdAt",
		DefaultSortOrder: filter.Desc,
	},
	Encoded:  []string{"sections"},
	Counters: []string{"downloads"},
}
