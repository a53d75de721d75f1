// Package experience provides the work-experience resource (employment
// history).
package experience

import (
	"context"

	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// Experience is one position held at a company.
type Experience struct {
	entity.BaseContent

	Company        string `db:"company" json:"company"`
	Position       string `db:"position" json:"position"`
	EmploymentType string `db:"employment_type" json:"employmentType"` // full-time, contract, ...
	Location       string `db:"location" json:"location"`
	StartDate      string `db:"start_date" json:"startDate"`
	EndDate        string `db:"end_date" json:"endDate"`
	IsCurrent      bool   `db:"is_current" json:"isCurrent"`
	Description    string `db:"description" json:"description"`
	CompanyLogo    string `db:"company_logo" json:"companyLogo"`

	Responsibilities codec.StringList `db:"responsibilities" json:"responsibilities"`
	Achievements     codec.StringList `db:"achievements" json:"achievements"`
	TechStack        codec.StringList `db:"tech_stack" json:"techStack"`
}

// New returns an empty Experience.
func New() *Experience { return &Experience{} }

// Validate implements entity.Validatable.
func (e *Experience) Validate(ctx context.Context) error {
	if err := entity.RequireText("company", e.Company); err != nil {
		return err
	}
	if err := entity.RequireText("position", e.Position); err != nil {
		return err
	}
	return entity.RequireText("startDate", e.StartDate)
}

// Resource describes the work_experiences table. The category option matches
// employment type.
var Resource = domain.Resource{
	Name:  "work-experience",
	Table: "work_experiences",
	Schema: filter.Schema{
		Sortable: filter.Sortable(entity.Columns[*Experience](),
			"displayOrder", "createdAt", "updatedAt", "startDate", "endDate", "company"),
		CategoryColumn: "employment_type",
		Extras: []filter.Extra{
			{Param: filter.ParamCompany, Column: "company", Kind: filter.ExtraContains},
			{Param: filter.ParamPosition, Column: "position", Kind: filter.ExtraContains},
			{Param: filter.ParamEmploymentType, Column: "employment_type", Kind: filter.ExtraExact},
			{Param: filter.ParamIsCurrent, Column: "is_current", Kind: filter.ExtraBool},
		},
		DefaultSortBy:    "startDate",
		DefaultSortOrder: filter.Desc,
	},
	Encoded: []string{"responsibilities", "achievements", "techStack"},
}
