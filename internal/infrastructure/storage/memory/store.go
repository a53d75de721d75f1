// Package memory provides an in-process ContentRepository used by tests and
// by the server when no database is configured. It evaluates filter.Query
// directly against typed rows and implements tx.Manager with an undo log.
package memory

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/core/tx"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

var (
	_ domain.ContentRepository[entity.Content] = (*Store[entity.Content])(nil)
	_ tx.Manager                               = (*Store[entity.Content])(nil)
)

// Store keeps rows of one resource in memory.
type Store[T entity.Content] struct {
	resource string

	mu   sync.RWMutex
	rows map[id.ID]T

	// txMu serializes transactions; plain calls outside a transaction are
	// not blocked by it.
	txMu sync.Mutex
	// undo holds the pre-image of every row written inside the open
	// transaction, keyed by id. Guarded by mu; nil outside a transaction.
	undo map[id.ID]undoEntry[T]

	cols  map[string]entity.Column
	clock func() time.Time
}

// New creates an empty store for the named resource.
func New[T entity.Content](resource string) *Store[T] {
	cols := make(map[string]entity.Column)
	for _, c := range entity.Columns[T]() {
		cols[c.Name] = c
	}
	return &Store[T]{
		resource: resource,
		rows:     make(map[id.ID]T),
		cols:     cols,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source used for updated_at.
func (s *Store[T]) WithClock(clock func() time.Time) *Store[T] {
	s.clock = clock
	return s
}

// Put stores e as-is, bypassing lifecycle rules. Tests only.
func (s *Store[T]) Put(e T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[e.Base().ID] = clone(e)
}

// Len returns the number of stored rows, deleted included.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

type txKey struct{}

type undoEntry[T any] struct {
	row    T
	exists bool
}

// RunInTransaction implements tx.Manager. On error, only the rows written
// through the transaction's context are restored; writes made outside it
// in the meantime are kept.
func (s *Store[T]) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.undo = make(map[id.ID]undoEntry[T])
	s.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, s))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		for key, prev := range s.undo {
			if prev.exists {
				s.rows[key] = prev.row
			} else {
				delete(s.rows, key)
			}
		}
	}
	s.undo = nil
	return err
}

func (s *Store[T]) inTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) == s
}

// record saves the pre-image of entityID before a write made through ctx.
// Caller holds mu.
func (s *Store[T]) record(ctx context.Context, entityID id.ID) {
	if s.undo == nil || !s.inTx(ctx) {
		return
	}
	if _, seen := s.undo[entityID]; seen {
		return
	}
	row, ok := s.rows[entityID]
	if ok {
		row = clone(row)
	}
	s.undo[entityID] = undoEntry[T]{row: row, exists: ok}
}

// carry applies a write made outside the open transaction to the saved
// pre-image too, so a rollback of that row does not undo it. Caller holds mu.
func (s *Store[T]) carry(ctx context.Context, entityID id.ID, apply func(row T)) {
	if s.undo == nil || s.inTx(ctx) {
		return
	}
	if prev, ok := s.undo[entityID]; ok && prev.exists {
		apply(prev.row)
	}
}

// List implements domain.ContentRepository.
func (s *Store[T]) List(ctx context.Context, q filter.Query) (domain.ListResult[T], error) {
	s.mu.RLock()
	matched := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		ok, err := s.matches(row, q.Conditions)
		if err != nil {
			s.mu.RUnlock()
			return domain.ListResult[T]{}, err
		}
		if ok {
			matched = append(matched, clone(row))
		}
	}
	s.mu.RUnlock()

	var sortErr error
	slices.SortStableFunc(matched, func(a, b T) int {
		c, err := s.compareRows(a, b, q.Order)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c
	})
	if sortErr != nil {
		return domain.ListResult[T]{}, sortErr
	}

	total := int64(len(matched))
	if q.Offset > 0 {
		matched = matched[min(q.Offset, len(matched)):]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return domain.ListResult[T]{Items: matched, TotalCount: total}, nil
}

// GetByID implements domain.ContentRepository.
func (s *Store[T]) GetByID(ctx context.Context, entityID id.ID, includeDeleted bool) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[entityID]
	if !ok || (!includeDeleted && row.Base().IsDeleted()) {
		var zero T
		return zero, apperror.NewNotFound(s.resource, entityID.String())
	}
	return clone(row), nil
}

// Create implements domain.ContentRepository.
func (s *Store[T]) Create(ctx context.Context, e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rows[e.Base().ID]; exists {
		return apperror.NewDuplicate(s.resource, "pkey")
	}
	s.record(ctx, e.Base().ID)
	s.rows[e.Base().ID] = clone(e)
	return nil
}

// Update implements domain.ContentRepository.
func (s *Store[T]) Update(ctx context.Context, entityID id.ID, changes map[string]any) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.live(entityID)
	if err != nil {
		return zero, err
	}

	next := clone(row)
	if err := s.apply(next, changes); err != nil {
		return zero, err
	}
	next.Base().UpdatedAt = s.clock()

	s.record(ctx, entityID)
	s.carry(ctx, entityID, func(prev T) { _ = s.apply(prev, changes) })
	s.rows[entityID] = next
	return clone(next), nil
}

func (s *Store[T]) apply(row T, changes map[string]any) error {
	rv := reflect.ValueOf(row).Elem()
	for col, value := range changes {
		c, ok := s.cols[col]
		if !ok {
			return fmt.Errorf("column %q of relation %q does not exist", col, s.resource)
		}
		if err := assign(rv.FieldByIndex(c.Index), value); err != nil {
			return fmt.Errorf("assign %s: %w", col, err)
		}
	}
	return nil
}

// SoftDelete implements domain.ContentRepository.
func (s *Store[T]) SoftDelete(ctx context.Context, entityID id.ID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.live(entityID)
	if err != nil {
		return err
	}
	s.record(ctx, entityID)
	s.carry(ctx, entityID, func(prev T) { prev.Base().MarkDeleted(at) })
	row.Base().MarkDeleted(at)
	return nil
}

// Restore implements domain.ContentRepository.
func (s *Store[T]) Restore(ctx context.Context, entityID id.ID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[entityID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(s.resource, entityID.String())
	}
	if row.Base().IsDeleted() {
		now := s.clock()
		s.record(ctx, entityID)
		s.carry(ctx, entityID, func(prev T) { prev.Base().Undelete(now) })
		row.Base().Undelete(now)
	}
	return clone(row), nil
}

// Toggle implements domain.ContentRepository.
func (s *Store[T]) Toggle(ctx context.Context, entityID id.ID, column string) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.live(entityID)
	if err != nil {
		return zero, err
	}
	f, err := s.field(row, column, reflect.Bool)
	if err != nil {
		return zero, err
	}
	s.record(ctx, entityID)
	s.carry(ctx, entityID, func(prev T) {
		pf, _ := s.field(prev, column, reflect.Bool)
		pf.SetBool(!pf.Bool())
	})
	f.SetBool(!f.Bool())
	row.Base().UpdatedAt = s.clock()
	return clone(row), nil
}

// Increment implements domain.ContentRepository.
func (s *Store[T]) Increment(ctx context.Context, entityID id.ID, column string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.live(entityID)
	if err != nil {
		return 0, err
	}
	f, err := s.field(row, column, reflect.Int64)
	if err != nil {
		return 0, err
	}
	s.record(ctx, entityID)
	s.carry(ctx, entityID, func(prev T) {
		pf, _ := s.field(prev, column, reflect.Int64)
		pf.SetInt(pf.Int() + 1)
	})
	f.SetInt(f.Int() + 1)
	return f.Int(), nil
}

// SetDisplayOrder implements domain.ContentRepository.
func (s *Store[T]) SetDisplayOrder(ctx context.Context, entityID id.ID, order int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.live(entityID)
	if err != nil {
		return err
	}
	s.record(ctx, entityID)
	s.carry(ctx, entityID, func(prev T) { prev.Base().DisplayOrder = order })
	row.Base().DisplayOrder = order
	row.Base().UpdatedAt = s.clock()
	return nil
}

// live returns the stored (not cloned) row. Caller holds mu.
func (s *Store[T]) live(entityID id.ID) (T, error) {
	row, ok := s.rows[entityID]
	if !ok || row.Base().IsDeleted() {
		var zero T
		return zero, apperror.NewNotFound(s.resource, entityID.String())
	}
	return row, nil
}

func (s *Store[T]) field(row T, column string, kind reflect.Kind) (reflect.Value, error) {
	c, ok := s.cols[column]
	if !ok {
		return reflect.Value{}, fmt.Errorf("column %q of relation %q does not exist", column, s.resource)
	}
	f := reflect.ValueOf(row).Elem().FieldByIndex(c.Index)
	if f.Kind() != kind {
		return reflect.Value{}, fmt.Errorf("column %q is %s, not %s", column, f.Kind(), kind)
	}
	return f, nil
}

func (s *Store[T]) value(row T, column string) (any, error) {
	c, ok := s.cols[column]
	if !ok {
		return nil, fmt.Errorf("column %q of relation %q does not exist", column, s.resource)
	}
	v := reflect.ValueOf(row).Elem().FieldByIndex(c.Index).Interface()
	if valuer, ok := v.(driver.Valuer); ok {
		return valuer.Value()
	}
	return v, nil
}

func (s *Store[T]) matches(row T, conds []filter.Condition) (bool, error) {
	for _, cond := range conds {
		v, err := s.value(row, cond.Column)
		if err != nil {
			return false, err
		}

		var ok bool
		switch cond.Op {
		case filter.Eq:
			ok = reflect.DeepEqual(v, cond.Value)
		case filter.IsNull:
			ok = isNull(v)
		case filter.NotTrue:
			b, isBool := v.(bool)
			ok = !isBool || !b
		case filter.EqFold:
			ok = strings.EqualFold(fmt.Sprint(v), fmt.Sprint(cond.Value))
		case filter.ContainsFold:
			ok = strings.Contains(strings.ToLower(fmt.Sprint(v)), strings.ToLower(fmt.Sprint(cond.Value)))
		default:
			return false, fmt.Errorf("unsupported operator %s", cond.Op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *Store[T]) compareRows(a, b T, order []filter.OrderTerm) (int, error) {
	for _, term := range order {
		av, err := s.value(a, term.Column)
		if err != nil {
			return 0, err
		}
		bv, err := s.value(b, term.Column)
		if err != nil {
			return 0, err
		}
		c := compareValues(av, bv)
		if term.Desc {
			c = -c
		}
		if c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// compareValues orders NULLs last for ascending order, as PostgreSQL does.
func compareValues(a, b any) int {
	switch {
	case isNull(a) && isNull(b):
		return 0
	case isNull(a):
		return 1
	case isNull(b):
		return -1
	}

	switch av := a.(type) {
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case int:
		return cmpOrdered(av, b.(int))
	case int64:
		return cmpOrdered(av, b.(int64))
	case string:
		return strings.Compare(av, b.(string))
	case time.Time:
		return av.Compare(b.(time.Time))
	case *time.Time:
		return av.Compare(*b.(*time.Time))
	case id.ID:
		bv := b.(id.ID)
		return bytes.Compare(av[:], bv[:])
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func cmpOrdered[N int | int64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// assign writes an encoded column value the way the database driver would:
// through sql.Scanner when the field has one, by conversion otherwise.
func assign(dst reflect.Value, value any) error {
	if scanner, ok := dst.Addr().Interface().(sql.Scanner); ok {
		return scanner.Scan(value)
	}
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	src := reflect.ValueOf(value)
	if dst.Kind() == reflect.Ptr && src.Type().ConvertibleTo(dst.Type().Elem()) {
		p := reflect.New(dst.Type().Elem())
		p.Elem().Set(src.Convert(dst.Type().Elem()))
		dst.Set(p)
		return nil
	}
	if !src.Type().ConvertibleTo(dst.Type()) {
		return fmt.Errorf("cannot store %T in %s", value, dst.Type())
	}
	dst.Set(src.Convert(dst.Type()))
	return nil
}

// clone returns a shallow copy of the row behind e. Encoded fields are
// replaced wholesale on update, never mutated in place, so sharing their
// backing slices is safe.
func clone[T entity.Content](e T) T {
	rv := reflect.ValueOf(e)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return e
	}
	cp := reflect.New(rv.Elem().Type())
	cp.Elem().Set(rv.Elem())
	return cp.Interface().(T)
}
