package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/core/tx"
	"folio/internal/domain/filter"
	"folio/pkg/logger"
)

// Columns that a partial update may never touch.
var immutableColumns = []string{
	filter.ColID,
	filter.ColDeletedAt,
	filter.ColCreatedAt,
	filter.ColUpdatedAt,
}

// ContentService provides the lifecycle operations of one content resource.
type ContentService[T entity.Content] struct {
	repo      ContentRepository[T]
	txManager tx.Manager
	resource  Resource
	newFn     func() T
	now       func() time.Time

	hooks     *HookRegistry[T]
	listeners []ChangeListener

	// API name -> column
	columns   map[string]string
	updatable map[string]string
	fields    map[string][]int // API name -> struct field index
	encoded   []string         // encoded columns
}

// ContentServiceConfig configures the content service.
type ContentServiceConfig[T entity.Content] struct {
	Repo      ContentRepository[T]
	TxManager tx.Manager
	Resource  Resource
	New       func() T

	// Now overrides the clock; defaults to time.Now in UTC.
	Now func() time.Time
}

// NewContentService creates a new content service.
func NewContentService[T entity.Content](cfg ContentServiceConfig[T]) *ContentService[T] {
	s := &ContentService[T]{
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
		resource:  cfg.Resource,
		newFn:     cfg.New,
		now:       cfg.Now,
		hooks:     NewHookRegistry[T](),
		columns:   make(map[string]string),
		updatable: make(map[string]string),
		fields:    make(map[string][]int),
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}

	for _, c := range entity.Columns[T]() {
		s.columns[c.JSON] = c.Name
		s.fields[c.JSON] = c.Index
		if slices.Contains(immutableColumns, c.Name) || cfg.Resource.IsCounter(c.JSON) {
			continue
		}
		s.updatable[c.JSON] = c.Name
	}
	for _, name := range cfg.Resource.Encoded {
		col, ok := s.columns[name]
		if !ok {
			panic(fmt.Sprintf("domain: %s has no encoded field %q", cfg.Resource.Name, name))
		}
		s.encoded = append(s.encoded, col)
	}
	for _, name := range cfg.Resource.Counters {
		if _, ok := s.columns[name]; !ok {
			panic(fmt.Sprintf("domain: %s has no counter field %q", cfg.Resource.Name, name))
		}
	}

	return s
}

// Resource returns the resource descriptor.
func (s *ContentService[T]) Resource() Resource {
	return s.resource
}

// NewEntity returns an empty model, e.g. to decode a create payload into.
func (s *ContentService[T]) NewEntity() T {
	return s.newFn()
}

// Hooks returns the hook registry for external registration.
func (s *ContentService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// OnChange registers a listener for committed mutations.
func (s *ContentService[T]) OnChange(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

func (s *ContentService[T]) notify(ctx context.Context, id id.ID, action Action) {
	change := Change{Resource: s.resource.Name, ID: id, Action: action}
	for _, l := range s.listeners {
		l(ctx, change)
	}
}

func (s *ContentService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

// normalizeStoreErr keeps AppErrors (NotFound carries the resource name) and
// wraps anything else as a store failure with its message.
func (s *ContentService[T]) normalizeStoreErr(err error, entityID id.ID) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.resource.Name, entityID.String())
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewStoreFailure(s.resource.Name, err)
}

// List returns rows matching opts.
func (s *ContentService[T]) List(ctx context.Context, opts filter.Options) (ListResult[T], error) {
	q, err := filter.Build(opts, s.resource.Schema)
	if err != nil {
		return ListResult[T]{}, err
	}

	// The page and its total come from one snapshot when the store supports
	// read-only transactions.
	var res ListResult[T]
	read := func(ctx context.Context) error {
		var err error
		res, err = s.repo.List(ctx, q)
		return err
	}
	if ro, ok := s.txManager.(tx.ReadOnlyManager); ok {
		err = ro.ReadOnly(ctx, read)
	} else {
		err = read(ctx)
	}
	if err != nil {
		if apperror.IsAppError(err) {
			return ListResult[T]{}, err
		}
		return ListResult[T]{}, apperror.NewStoreFailure(s.resource.Name, err)
	}
	return res, nil
}

// Get returns a live row.
func (s *ContentService[T]) Get(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID, false)
	return e, s.normalizeStoreErr(err, entityID)
}

// GetAny returns a row even if soft-deleted. Admin only.
func (s *ContentService[T]) GetAny(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID, true)
	return e, s.normalizeStoreErr(err, entityID)
}

// Create validates and inserts a new row. Counters start at zero.
func (s *ContentService[T]) Create(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
		return err
	}

	e.Base().Prepare(s.now())
	s.zeroCounters(e)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, e)
	})
	if err != nil {
		return s.normalizeStoreErr(err, e.Base().ID)
	}

	logger.Info(ctx, "content created", "resource", s.resource.Name, "id", e.Base().ID)
	s.notify(ctx, e.Base().ID, ActionCreated)
	return nil
}

func (s *ContentService[T]) zeroCounters(e T) {
	if len(s.resource.Counters) == 0 {
		return
	}
	rv := reflect.ValueOf(e).Elem()
	for _, c := range entity.Columns[T]() {
		if s.resource.IsCounter(c.JSON) {
			f := rv.FieldByIndex(c.Index)
			f.Set(reflect.Zero(f.Type()))
		}
	}
}

// Update applies a partial payload keyed by API field names.
//
// Encoded fields may arrive structured or as stringified JSON; both are
// normalized before the merged row is type-checked and validated. Fields
// absent from payload are left untouched.
func (s *ContentService[T]) Update(ctx context.Context, entityID id.ID, payload map[string]any) (T, error) {
	var zero T

	if len(payload) == 0 {
		return zero, apperror.NewValidation("no fields to update")
	}

	touched := make([]string, 0, len(payload))
	for name := range payload {
		col, ok := s.updatable[name]
		if !ok {
			if s.resource.IsCounter(name) {
				return zero, apperror.NewValidation("counter fields change only through increment").
					WithDetail("field", name)
			}
			return zero, apperror.NewValidation("field cannot be updated").
				WithDetail("field", name)
		}
		touched = append(touched, col)
	}
	slices.Sort(touched)

	current, err := s.repo.GetByID(ctx, entityID, false)
	if err != nil {
		return zero, s.normalizeStoreErr(err, entityID)
	}

	merged, err := s.merge(ctx, current, payload)
	if err != nil {
		return zero, err
	}
	if err := merged.Validate(ctx); err != nil {
		return zero, s.normalizeValidationErr(err)
	}
	if err := s.hooks.Run(ctx, BeforeUpdate, merged); err != nil {
		return zero, err
	}

	values := entity.Values(merged)
	changes := make(map[string]any, len(touched))
	for _, col := range touched {
		changes[col] = values[col]
	}
	changes, err = codec.Encode(changes, s.encoded)
	if err != nil {
		return zero, apperror.NewValidation(err.Error())
	}

	var updated T
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.Update(ctx, entityID, changes)
		return err
	})
	if err != nil {
		return zero, s.normalizeStoreErr(err, entityID)
	}

	s.notify(ctx, entityID, ActionUpdated)
	return updated, nil
}

// merge decodes payload onto current. Only the payload's fields are reset
// and rewritten; every other field, including a malformed encoded cell, is
// carried over as stored.
func (s *ContentService[T]) merge(ctx context.Context, current T, payload map[string]any) (T, error) {
	var zero T

	payload = codec.Decode(ctx, payload, s.resource.Encoded)

	raw, err := json.Marshal(payload)
	if err != nil {
		return zero, apperror.NewValidation(err.Error())
	}

	rv := reflect.ValueOf(current).Elem()
	for name := range payload {
		f := rv.FieldByIndex(s.fields[name])
		f.Set(reflect.Zero(f.Type()))
	}
	if err := json.Unmarshal(raw, current); err != nil {
		return zero, apperror.NewValidation("invalid field value").WithCause(err)
	}
	return current, nil
}

// SoftDelete marks a live row deleted.
func (s *ContentService[T]) SoftDelete(ctx context.Context, entityID id.ID) error {
	err := s.repo.SoftDelete(ctx, entityID, s.now())
	if err != nil {
		return s.normalizeStoreErr(err, entityID)
	}
	s.notify(ctx, entityID, ActionDeleted)
	return nil
}

// Restore clears the deletion mark. Restoring a live row succeeds.
func (s *ContentService[T]) Restore(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.Restore(ctx, entityID)
	if err != nil {
		return e, s.normalizeStoreErr(err, entityID)
	}
	s.notify(ctx, entityID, ActionRestored)
	return e, nil
}

// ToggleFeatured flips isFeatured atomically and returns the row.
func (s *ContentService[T]) ToggleFeatured(ctx context.Context, entityID id.ID) (T, error) {
	return s.toggle(ctx, entityID, filter.ColIsFeatured, ActionFeatured)
}

// TogglePublished flips isPublished atomically and returns the row.
func (s *ContentService[T]) TogglePublished(ctx context.Context, entityID id.ID) (T, error) {
	return s.toggle(ctx, entityID, filter.ColIsPublished, ActionPublished)
}

func (s *ContentService[T]) toggle(ctx context.Context, entityID id.ID, column string, action Action) (T, error) {
	e, err := s.repo.Toggle(ctx, entityID, column)
	if err != nil {
		return e, s.normalizeStoreErr(err, entityID)
	}
	s.notify(ctx, entityID, action)
	return e, nil
}

// IncrementField adds one to a counter and returns the new value.
// Increments are not broadcast as changes.
func (s *ContentService[T]) IncrementField(ctx context.Context, entityID id.ID, field string) (int64, error) {
	if !s.resource.IsCounter(field) {
		return 0, apperror.NewValidation("field is not a counter").
			WithDetail("field", field).
			WithDetail("counters", s.resource.Counters)
	}

	v, err := s.repo.Increment(ctx, entityID, s.columns[field])
	if err != nil {
		return 0, s.normalizeStoreErr(err, entityID)
	}
	return v, nil
}

// Reorder applies all items in one transaction. A missing id fails the
// whole batch.
func (s *ContentService[T]) Reorder(ctx context.Context, items []ReorderItem) error {
	if len(items) == 0 {
		return apperror.NewValidation("items are required")
	}
	for i, it := range items {
		if id.IsNil(it.ID) {
			return apperror.NewValidation("item id is required").WithDetail("index", i)
		}
	}

	if batcher, ok := s.repo.(DisplayOrderBatcher); ok {
		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return batcher.SetDisplayOrders(ctx, items)
		})
		if err != nil {
			if apperror.IsAppError(err) {
				return err
			}
			return apperror.NewStoreFailure(s.resource.Name, err)
		}
		s.reordered(ctx, len(items))
		return nil
	}

	var failed id.ID
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, it := range items {
			if err := s.repo.SetDisplayOrder(ctx, it.ID, it.DisplayOrder); err != nil {
				failed = it.ID
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.normalizeStoreErr(err, failed)
	}

	s.reordered(ctx, len(items))
	return nil
}

func (s *ContentService[T]) reordered(ctx context.Context, n int) {
	logger.Info(ctx, "content reordered", "resource", s.resource.Name, "items", n)
	s.notify(ctx, id.ID{}, ActionReordered)
}
