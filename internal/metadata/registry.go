// Package metadata describes content resources to clients: fields, which of
// them are encoded, counters, sortable and filterable parameters. The admin
// UI renders its forms from these definitions.
package metadata

import (
	"slices"
	"sync"
)

// FieldType defines the data type of a field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeID      FieldType = "id"
	TypeList    FieldType = "list"   // encoded array
	TypeObject  FieldType = "object" // encoded object
)

// ResourceDef describes a content resource.
type ResourceDef struct {
	Name     string     `json:"name"`
	Fields   []FieldDef `json:"fields"`
	Sortable []string   `json:"sortable"`
	Filters  []string   `json:"filters"`

	DefaultSortBy    string `json:"defaultSortBy,omitempty"`
	DefaultSortOrder string `json:"defaultSortOrder,omitempty"`
}

// FieldDef describes a field.
type FieldDef struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Encoded  bool      `json:"encoded,omitempty"`
	Counter  bool      `json:"counter,omitempty"`
	ReadOnly bool      `json:"readOnly,omitempty"`
}

// Registry stores resource definitions.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]ResourceDef
}

func NewRegistry() *Registry {
	return &Registry{
		resources: make(map[string]ResourceDef),
	}
}

func (r *Registry) Register(def ResourceDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[def.Name] = def
}

func (r *Registry) Get(name string) (ResourceDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.resources[name]
	return d, ok
}

// List returns definitions sorted by name.
func (r *Registry) List() []ResourceDef {
	r.mu.RLock()
	list := make([]ResourceDef, 0, len(r.resources))
	for _, def := range r.resources {
		list = append(list, def)
	}
	r.mu.RUnlock()

	slices.SortFunc(list, func(a, b ResourceDef) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return list
}
