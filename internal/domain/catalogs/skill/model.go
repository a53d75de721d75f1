// Package skill provides the Skills resource.
package skill

import (
	"context"

	"folio/internal/core/apperror"
	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// Skill is one competence with a self-assessed level.
type Skill struct {
	entity.BaseContent

	Name        string `db:"name" json:"name"`
	Category    string `db:"category" json:"category"`
	Level       int    `db:"level" json:"level"` // 0..100
	Years       int    `db:"years" json:"years"`
	Icon        string `db:"icon" json:"icon"`
	Description string `db:"description" json:"description"`

	Keywords codec.StringList `db:"keywords" json:"keywords"`

	Endorsements int64 `db:"endorsements" json:"endorsements"`
}

// New returns an empty Skill.
func New() *Skill { return &Skill{} }

// Validate implements entity.Validatable.
func (s *Skill) Validate(ctx context.Context) error {
	if err := entity.RequireText("name", s.Name); err != nil {
		return err
	}
	if s.Level < 0 || s.Level > 100 {
		return apperror.NewValidation("level must be between 0 and 100").
			WithDetail("field", "level")
	}
	return nil
}

// Resource describes the skills table.
var Resource = domain.Resource{
	Name:  "skills",
	Table: "skills",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*Skill](),
			"displayOrder", "createdAt", "updatedAt", "name", "level", "years", "endorsements"),
		CategoryColumn:   "category",
		DefaultSortBy:    "displayOrder",
		DefaultSortOrder: filter.Asc,
	},
	Encoded:  []string{"keywords"},
	Counters: []string{"endorsements"},
}
