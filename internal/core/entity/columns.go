package entity

import (
	"reflect"
	"strings"
	"sync"
)

// Column describes one persisted struct field.
type Column struct {
	Name  string // db tag
	JSON  string // API name
	Index []int  // path for reflect.Value.FieldByIndex
	Type  reflect.Type
}

// Cached per type; reflection runs once per model.
var columnCache sync.Map // map[reflect.Type][]Column

// Columns returns the persisted fields of T, including embedded BaseContent.
// T may be a struct or a pointer to one.
//
// Usage:
//
//	cols := entity.Columns[*work.Work]()
//	// id, display_order, ..., title, category, tags, ...
func Columns[T any]() []Column {
	return ColumnsOf(reflect.TypeOf((*T)(nil)).Elem())
}

// ColumnsOf is the reflect.Type form of Columns.
func ColumnsOf(t reflect.Type) []Column {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if cached, ok := columnCache.Load(t); ok {
		return cached.([]Column)
	}

	cols := collectColumns(t, nil)
	columnCache.Store(t, cols)
	return cols
}

func collectColumns(t reflect.Type, prefix []int) []Column {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []Column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			cols = append(cols, collectColumns(field.Type, index)...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}

		jsonName, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if jsonName == "" || jsonName == "-" {
			jsonName = field.Name
		}

		cols = append(cols, Column{
			Name:  tag,
			JSON:  jsonName,
			Index: index,
			Type:  field.Type,
		})
	}

	return cols
}

// ColumnNames returns the db names of cols in declaration order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Values maps column names to the field values of v (a struct or a pointer
// to one).
func Values(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := ColumnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		res[c.Name] = rv.FieldByIndex(c.Index).Interface()
	}
	return res
}
