package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	BaseContent
	Title    string `db:"title" json:"title"`
	Category string `db:"category" json:"category,omitempty"`
	Ignored  string `json:"ignored"`
	Skipped  string `db:"-"`
}

func (s *sample) Validate(context.Context) error { return nil }

func TestColumns_IncludesEmbeddedBase(t *testing.T) {
	cols := Columns[*sample]()
	names := ColumnNames(cols)

	assert.Equal(t, []string{
		"id", "display_order", "is_featured", "is_published", "is_draft",
		"deleted_at", "created_at", "updated_at", "title", "category",
	}, names)

	last := cols[len(cols)-1]
	assert.Equal(t, "category", last.JSON, "json options are stripped")
	assert.Equal(t, "displayOrder", cols[1].JSON)
}

func TestColumns_PointerAndValueShareCache(t *testing.T) {
	assert.Equal(t, Columns[sample](), Columns[*sample]())
}

func TestValues_ReadsEmbeddedFields(t *testing.T) {
	s := &sample{Title: "Hello"}
	s.DisplayOrder = 3
	s.IsFeatured = true

	vals := Values(s)
	assert.Equal(t, "Hello", vals["title"])
	assert.Equal(t, 3, vals["display_order"])
	assert.Equal(t, true, vals["is_featured"])
	assert.NotContains(t, vals, "Ignored")
}

func TestContentCapability(t *testing.T) {
	var c Content = &sample{}
	c.Base().IsPublished = true
	assert.True(t, c.(*sample).IsPublished)
}
