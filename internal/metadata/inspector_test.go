package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain/catalogs/resume"
	"folio/internal/domain/catalogs/work"
)

func field(t *testing.T, def ResourceDef, name string) FieldDef {
	t.Helper()
	for _, f := range def.Fields {
		if f.Name == name {
			return f
		}
	}
	require.Failf(t, "field not found", "%s has no field %q", def.Name, name)
	return FieldDef{}
}

func TestInspect_Work(t *testing.T) {
	def := Inspect[*work.Work](work.Resource)

	assert.Equal(t, "works", def.Name)
	assert.Equal(t, FieldDef{Name: "id", Type: TypeID, ReadOnly: true}, field(t, def, "id"))
	assert.Equal(t, FieldDef{Name: "tags", Type: TypeList, Encoded: true}, field(t, def, "tags"))
	assert.Equal(t, FieldDef{Name: "links", Type: TypeObject, Encoded: true}, field(t, def, "links"))
	assert.Equal(t, FieldDef{Name: "views", Type: TypeInteger, Counter: true, ReadOnly: true}, field(t, def, "views"))
	assert.Equal(t, TypeDate, field(t, def, "deletedAt").Type)
	assert.Equal(t, TypeBoolean, field(t, def, "isFeatured").Type)
	assert.Contains(t, def.Filters, "category")
}

func TestInspect_ExtrasAndDefaults(t *testing.T) {
	def := Inspect[*resume.Resume](resume.Resource)

	assert.Contains(t, def.Filters, "isCurrent")
	assert.Equal(t, "createdAt", def.DefaultSortBy)
	assert.Equal(t, "desc", def.DefaultSortOrder)
	assert.Equal(t, TypeObject, field(t, def, "sections").Type)
}

func TestRegistry_ListSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(ResourceDef{Name: "works"})
	reg.Register(ResourceDef{Name: "awards"})

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "awards", list[0].Name)

	_, ok := reg.Get("skills")
	assert.False(t, ok)
}
