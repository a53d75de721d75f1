// Package domain provides the generic content engine: repository contract,
// lifecycle service and change hooks shared by every resource.
package domain

import (
	"context"
	"slices"
	"time"

	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/domain/filter"
)

// Resource describes one content table to the generic engine.
type Resource struct {
	// Name is the route segment and the resource name in errors ("works").
	Name  string
	Table string

	Schema filter.Schema

	// Encoded lists API names of fields persisted as JSON text.
	Encoded []string

	// Counters lists API names of fields changed only by IncrementField.
	Counters []string
}

// IsCounter reports whether the API field name is a counter.
func (r Resource) IsCounter(field string) bool {
	return slices.Contains(r.Counters, field)
}

// ListResult contains one page of rows and the number of rows matching the
// predicate before paging.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
}

// ReorderItem assigns a display order to one row.
type ReorderItem struct {
	ID           id.ID `json:"id"`
	DisplayOrder int   `json:"displayOrder"`
}

// --- Repository Interfaces ---

// ContentRepository is the per-resource store contract. Column arguments are
// database names; the service resolves API names before calling in.
type ContentRepository[T entity.Content] interface {
	// List returns rows matching q.
	List(ctx context.Context, q filter.Query) (ListResult[T], error)

	// GetByID returns the row; soft-deleted rows only when includeDeleted.
	GetByID(ctx context.Context, id id.ID, includeDeleted bool) (T, error)

	Create(ctx context.Context, entity T) error

	// Update writes changes (column -> encoded value) to a live row and
	// returns it.
	Update(ctx context.Context, id id.ID, changes map[string]any) (T, error)

	// SoftDelete marks a live row deleted. NotFound if missing or deleted.
	SoftDelete(ctx context.Context, id id.ID, at time.Time) error

	// Restore clears the deletion mark. NotFound only if the row is missing.
	Restore(ctx context.Context, id id.ID) (T, error)

	// Toggle flips a boolean column in a single statement.
	Toggle(ctx context.Context, id id.ID, column string) (T, error)

	// Increment adds one to a counter column in a single statement.
	Increment(ctx context.Context, id id.ID, column string) (int64, error)

	// SetDisplayOrder updates one live row. NotFound if missing.
	SetDisplayOrder(ctx context.Context, id id.ID, order int) error
}

// DisplayOrderBatcher is implemented by stores that can apply a whole
// reorder at once. A missing row is reported as NotFound carrying its id.
type DisplayOrderBatcher interface {
	SetDisplayOrders(ctx context.Context, items []ReorderItem) error
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	BeforeUpdate HookEvent = "before_update"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// Action names a committed mutation.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionRestored  Action = "restored"
	ActionFeatured  Action = "featured_toggled"
	ActionPublished Action = "published_toggled"
	ActionReordered Action = "reordered"
)

// Change is delivered to listeners after a mutation commits.
// ID is nil for batch actions.
type Change struct {
	Resource string
	ID       id.ID
	Action   Action
}

// ChangeListener observes committed mutations. Listeners cannot fail the
// mutation; they run after commit.
type ChangeListener func(ctx context.Context, change Change)
