package filter

import (
	"fmt"

	"folio/internal/core/entity"
)

// Lifecycle columns shared by every content table.
const (
	ColID           = "id"
	ColDisplayOrder = "display_order"
	ColIsFeatured   = "is_featured"
	ColIsPublished  = "is_published"
	ColIsDraft      = "is_draft"
	ColDeletedAt    = "deleted_at"
	ColCreatedAt    = "created_at"
	ColUpdatedAt    = "updated_at"
)

// ExtraKind selects how a resource-specific parameter is matched.
type ExtraKind int

const (
	ExtraExact    ExtraKind = iota // case-insensitive whole-word match
	ExtraContains                  // case-insensitive substring
	ExtraBool                      // boolean equality
)

// Extra binds a resource-specific query parameter to a column.
type Extra struct {
	Param  string
	Column string
	Kind   ExtraKind
}

// Schema describes what a resource allows to be filtered and sorted.
type Schema struct {
	// Sortable maps API field names to columns.
	Sortable map[string]string

	// CategoryColumn is matched by the category option; empty disables it.
	CategoryColumn string

	Extras []Extra

	DefaultSortBy    string
	DefaultSortOrder Direction
}

// Sortable builds the sort allow-list from a model's columns. Every name
// must be the API name of a column; anything else is a programming error.
func Sortable(cols []entity.Column, names ...string) map[string]string {
	byJSON := make(map[string]string, len(cols))
	for _, c := range cols {
		byJSON[c.JSON] = c.Name
	}

	res := make(map[string]string, len(names))
	for _, n := range names {
		col, ok := byJSON[n]
		if !ok {
			panic(fmt.Sprintf("filter: %q is not a column", n))
		}
		res[n] = col
	}
	return res
}
