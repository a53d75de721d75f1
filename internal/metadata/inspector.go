package metadata

import (
	"reflect"
	"slices"
	"strings"
	"time"

	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

// Always-present query parameters.
var baseFilters = []string{"featured", "category", "includeUnpublished", "includeDrafts",
	"sortBy", "sortOrder", "featuredFirst", "limit", "skip"}

// Inspect builds the definition of resource from its model type T.
func Inspect[T entity.Content](resource domain.Resource) ResourceDef {
	def := ResourceDef{
		Name:             resource.Name,
		DefaultSortBy:    resource.Schema.DefaultSortBy,
		DefaultSortOrder: string(resource.Schema.DefaultSortOrder),
	}

	for _, c := range entity.Columns[T]() {
		f := FieldDef{
			Name:    c.JSON,
			Encoded: slices.Contains(resource.Encoded, c.JSON),
			Counter: resource.IsCounter(c.JSON),
		}
		f.ReadOnly = f.Counter || isReadOnly(c.Name)
		f.Type = mapFieldType(c.Type)
		def.Fields = append(def.Fields, f)
	}

	for name := range resource.Schema.Sortable {
		def.Sortable = append(def.Sortable, name)
	}
	slices.Sort(def.Sortable)

	def.Filters = append(def.Filters, baseFilters...)
	for _, ex := range resource.Schema.Extras {
		def.Filters = append(def.Filters, ex.Param)
	}

	return def
}

func isReadOnly(column string) bool {
	switch column {
	case filter.ColID, filter.ColCreatedAt, filter.ColUpdatedAt, filter.ColDeletedAt:
		return true
	}
	return false
}

var (
	idType   = reflect.TypeOf(id.ID{})
	timeType = reflect.TypeOf(time.Time{})
)

func mapFieldType(t reflect.Type) FieldType {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case idType:
		return TypeID
	case timeType:
		return TypeDate
	}

	// codec.Field[T] carries its payload in Val.
	if t.Kind() == reflect.Struct && strings.HasPrefix(t.Name(), "Field[") {
		if val, ok := t.FieldByName("Val"); ok {
			if val.Type.Kind() == reflect.Map {
				return TypeObject
			}
			return TypeList
		}
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return TypeInteger
	case reflect.Bool:
		return TypeBoolean
	default:
		return TypeString
	}
}
