// Package content_repo provides the PostgreSQL ContentRepository shared by
// every content resource. One generic Repo serves all tables; resources differ
// only in their model type and domain.Resource descriptor.
package content_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/domain"
	"folio/internal/domain/filter"
	"folio/internal/infrastructure/storage/postgres"
)

var _ domain.ContentRepository[entity.Content] = (*Repo[entity.Content])(nil)

// Repo implements domain.ContentRepository for one table.
type Repo[T entity.Content] struct {
	txm      *postgres.TxManager
	resource domain.Resource
	cols     []string
	colSet   map[string]struct{}
	newFn    func() T
}

// New creates a repository for the resource's table.
func New[T entity.Content](txm *postgres.TxManager, resource domain.Resource, newFn func() T) *Repo[T] {
	cols := entity.ColumnNames(entity.Columns[T]())
	colSet := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		colSet[c] = struct{}{}
	}
	return &Repo[T]{
		txm:      txm,
		resource: resource,
		cols:     cols,
		colSet:   colSet,
		newFn:    newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *Repo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func (r *Repo[T]) returning() string {
	return "RETURNING " + strings.Join(r.cols, ", ")
}

// checkColumn whitelists column names before they are spliced into SQL.
func (r *Repo[T]) checkColumn(col string) error {
	if _, ok := r.colSet[col]; !ok {
		return fmt.Errorf("column %q of relation %q does not exist", col, r.resource.Table)
	}
	return nil
}

func (r *Repo[T]) notFound(entityID id.ID) error {
	return apperror.NewNotFound(r.resource.Name, entityID.String())
}

// mapErr keeps not-found reporting consistent and translates constraint
// violations.
func (r *Repo[T]) mapErr(op string, entityID id.ID, err error) error {
	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return r.notFound(entityID)
	}
	if mapped := postgres.MapError(r.resource.Name, err); apperror.IsAppError(mapped) {
		return mapped
	}
	return fmt.Errorf("%s %s: %w", op, r.resource.Table, err)
}

// baseSelect creates a SELECT builder over all model columns.
func (r *Repo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.cols...).
		From(r.resource.Table)
}

// where translates filter conditions.
func (r *Repo[T]) where(q squirrel.SelectBuilder, conds []filter.Condition) (squirrel.SelectBuilder, error) {
	for _, c := range conds {
		if err := r.checkColumn(c.Column); err != nil {
			return q, err
		}

		switch c.Op {
		case filter.Eq:
			q = q.Where(squirrel.Eq{c.Column: c.Value})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{c.Column: nil})
		case filter.NotTrue:
			q = q.Where(c.Column + " IS NOT TRUE")
		case filter.EqFold:
			q = q.Where(squirrel.Expr("LOWER("+c.Column+") = LOWER(?)", c.Value))
		case filter.ContainsFold:
			q = q.Where(squirrel.ILike{c.Column: "%" + escapeLike(fmt.Sprint(c.Value)) + "%"})
		default:
			return q, fmt.Errorf("unsupported operator %s", c.Op)
		}
	}
	return q, nil
}

// orderBy renders the composite ordering.
func (r *Repo[T]) orderBy(terms []filter.OrderTerm) ([]string, error) {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if err := r.checkColumn(t.Column); err != nil {
			return nil, err
		}
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		out = append(out, t.Column+" "+dir)
	}
	return out, nil
}

// listQueries builds the page query and the matching count query.
func (r *Repo[T]) listQueries(fq filter.Query) (page, count squirrel.SelectBuilder, err error) {
	q, err := r.where(r.baseSelect(), fq.Conditions)
	if err != nil {
		return page, count, err
	}

	count = r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	order, err := r.orderBy(fq.Order)
	if err != nil {
		return page, count, err
	}
	page = q.OrderBy(order...)
	if fq.Limit > 0 {
		page = page.Limit(uint64(fq.Limit))
	}
	if fq.Offset > 0 {
		page = page.Offset(uint64(fq.Offset))
	}
	return page, count, nil
}

// List implements domain.ContentRepository.
func (r *Repo[T]) List(ctx context.Context, fq filter.Query) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{Items: make([]T, 0)}

	page, count, err := r.listQueries(fq)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	sql, args, err := page.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}

// GetByID implements domain.ContentRepository.
func (r *Repo[T]) GetByID(ctx context.Context, entityID id.ID, includeDeleted bool) (T, error) {
	e := r.newFn()

	q := r.baseSelect().
		Where(squirrel.Eq{filter.ColID: entityID}).
		Limit(1)
	if !includeDeleted {
		q = q.Where(squirrel.Eq{filter.ColDeletedAt: nil})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return e, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.querier(ctx), e, sql, args...); err != nil {
		return e, r.mapErr("get", entityID, err)
	}
	return e, nil
}

// Create implements domain.ContentRepository.
func (r *Repo[T]) Create(ctx context.Context, e T) error {
	sql, args, err := r.Builder().
		Insert(r.resource.Table).
		SetMap(entity.Values(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.mapErr("insert", e.Base().ID, err)
	}
	return nil
}

// updateLive builds an UPDATE of one live row returning the full row.
func (r *Repo[T]) updateLive(entityID id.ID) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.resource.Table).
		Where(squirrel.Eq{filter.ColID: entityID}).
		Where(squirrel.Eq{filter.ColDeletedAt: nil})
}

func (r *Repo[T]) getRow(ctx context.Context, op string, entityID id.ID, q squirrel.UpdateBuilder) (T, error) {
	e := r.newFn()
	sql, args, err := q.Suffix(r.returning()).ToSql()
	if err != nil {
		return e, fmt.Errorf("build %s: %w", op, err)
	}
	if err := pgxscan.Get(ctx, r.querier(ctx), e, sql, args...); err != nil {
		var zero T
		return zero, r.mapErr(op, entityID, err)
	}
	return e, nil
}

// Update implements domain.ContentRepository.
func (r *Repo[T]) Update(ctx context.Context, entityID id.ID, changes map[string]any) (T, error) {
	var zero T
	if len(changes) == 0 {
		return zero, fmt.Errorf("update %s: no changes", r.resource.Table)
	}
	for col := range changes {
		if err := r.checkColumn(col); err != nil {
			return zero, err
		}
	}

	q := r.updateLive(entityID).
		SetMap(changes).
		Set(filter.ColUpdatedAt, squirrel.Expr("now()"))
	return r.getRow(ctx, "update", entityID, q)
}

// SoftDelete implements domain.ContentRepository.
func (r *Repo[T]) SoftDelete(ctx context.Context, entityID id.ID, at time.Time) error {
	sql, args, err := r.updateLive(entityID).
		Set(filter.ColDeletedAt, at).
		Set(filter.ColUpdatedAt, at).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapErr("delete", entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.notFound(entityID)
	}
	return nil
}

// Restore implements domain.ContentRepository. A live row is returned as-is.
func (r *Repo[T]) Restore(ctx context.Context, entityID id.ID) (T, error) {
	q := r.Builder().
		Update(r.resource.Table).
		Set(filter.ColUpdatedAt, squirrel.Expr("CASE WHEN deleted_at IS NULL THEN updated_at ELSE now() END")).
		Set(filter.ColDeletedAt, nil).
		Where(squirrel.Eq{filter.ColID: entityID})
	return r.getRow(ctx, "restore", entityID, q)
}

// Toggle implements domain.ContentRepository.
func (r *Repo[T]) Toggle(ctx context.Context, entityID id.ID, column string) (T, error) {
	if err := r.checkColumn(column); err != nil {
		var zero T
		return zero, err
	}
	q := r.updateLive(entityID).
		Set(column, squirrel.Expr("NOT "+column)).
		Set(filter.ColUpdatedAt, squirrel.Expr("now()"))
	return r.getRow(ctx, "toggle", entityID, q)
}

// Increment implements domain.ContentRepository. updated_at is left alone.
func (r *Repo[T]) Increment(ctx context.Context, entityID id.ID, column string) (int64, error) {
	if err := r.checkColumn(column); err != nil {
		return 0, err
	}

	sql, args, err := r.updateLive(entityID).
		Set(column, squirrel.Expr(column+" + 1")).
		Suffix("RETURNING " + column).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build increment: %w", err)
	}

	var v int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		return 0, r.mapErr("increment", entityID, err)
	}
	return v, nil
}

func (r *Repo[T]) setDisplayOrder(entityID id.ID, order int) squirrel.UpdateBuilder {
	return r.updateLive(entityID).
		Set(filter.ColDisplayOrder, order).
		Set(filter.ColUpdatedAt, squirrel.Expr("now()"))
}

// SetDisplayOrder implements domain.ContentRepository.
func (r *Repo[T]) SetDisplayOrder(ctx context.Context, entityID id.ID, order int) error {
	sql, args, err := r.setDisplayOrder(entityID, order).ToSql()
	if err != nil {
		return fmt.Errorf("build reorder: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapErr("reorder", entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.notFound(entityID)
	}
	return nil
}

// SetDisplayOrders implements domain.DisplayOrderBatcher: every update goes
// out in one round-trip.
func (r *Repo[T]) SetDisplayOrders(ctx context.Context, items []domain.ReorderItem) error {
	queries := make([]postgres.BatchQuery, 0, len(items))
	for _, it := range items {
		sql, args, err := r.setDisplayOrder(it.ID, it.DisplayOrder).ToSql()
		if err != nil {
			return fmt.Errorf("build reorder: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}

	affected, err := r.txm.ExecBatch(ctx, queries)
	if err != nil {
		failed := items[len(affected)].ID
		return r.mapErr("reorder", failed, err)
	}
	for i, n := range affected {
		if n == 0 {
			return r.notFound(items[i].ID)
		}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
