// Package leadership provides the Leadership resource: roles held in
// organizations, communities and teams.
package leadership

import (
	"context"

	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// Leadership is one leadership role.
type Leadership struct {
	entity.BaseContent

	Title        string `db:"title" json:"title"`
	Organization string `db:"organization" json:"organization"`
	Category     string `db:"category" json:"category"`
	StartDate    string `db:"start_date" json:"startDate"`
	EndDate      string `db:"end_date" json:"endDate"`
	IsCurrent    bool   `db:"is_current" json:"isCurrent"`
	Description  string `db:"description" json:"description"`

	Responsibilities codec.StringList `db:"responsibilities" json:"responsibilities"`
	Achievements     codec.StringList `db:"achievements" json:"achievements"`
}

// New returns an empty Leadership.
func New() *Leadership { return &Leadership{} }

// Validate implements entity.Validatable.
func (l *Leadership) Validate(ctx context.Context) error {
	if err := entity.RequireText("title", l.Title); err != nil {
		return err
	}
	return entity.RequireText("organization", l.Organization)
}

// Resource describes the leadership table.
var Resource = domain.Resource{
	Name:  "leadership",
	Table: "leadership",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*Leadership](),
			"displayOrder", "createdAt", "updatedAt", "title", "startDate"),
		CategoryColumn: "category",
		Extras: []filter.Extra{
			{Param: filter.ParamIsCurrent, Column: "is_current", Kind: filter.ExtraBool},
		},
		DefaultSortBy:    "displayOrder",
		DefaultSortOrder: filter.Asc,
	},
	Encoded: []string{"responsibilities", "achievements"},
}
