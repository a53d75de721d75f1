// Package contact_repo stores contact form messages in PostgreSQL.
package contact_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/domain/contact"
	"folio/internal/infrastructure/storage/postgres"
)

const tableName = "contact_messages"

var _ contact.Repository = (*Repo)(nil)

// Repo implements contact.Repository.
type Repo struct {
	txm  *postgres.TxManager
	cols []string
}

// New creates a contact message repository.
func New(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:  txm,
		cols: entity.ColumnNames(entity.Columns[contact.Message]()),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) Create(ctx context.Context, m *contact.Message) error {
	sql, args, err := r.builder().
		Insert(tableName).
		SetMap(entity.Values(m)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if mapped := postgres.MapError("contact", err); apperror.IsAppError(mapped) {
			return mapped
		}
		return fmt.Errorf("insert %s: %w", tableName, err)
	}
	return nil
}

func (r *Repo) listQueries(f contact.ListFilter) (page, count squirrel.SelectBuilder) {
	q := r.builder().Select(r.cols...).From(tableName)
	if f.UnreadOnly {
		q = q.Where(squirrel.Eq{"is_read": false})
	}

	count = r.builder().Select("COUNT(*)").FromSelect(q, "sub")

	page = q.OrderBy("created_at DESC", "id DESC")
	if f.Limit > 0 {
		page = page.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		page = page.Offset(uint64(f.Offset))
	}
	return page, count
}

func (r *Repo) List(ctx context.Context, f contact.ListFilter) ([]*contact.Message, int64, error) {
	page, count := r.listQueries(f)
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	sql, args, err := page.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	items := make([]*contact.Message, 0)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	return items, total, nil
}

func (r *Repo) MarkRead(ctx context.Context, msgID id.ID) (*contact.Message, error) {
	sql, args, err := r.builder().
		Update(tableName).
		Set("is_read", true).
		Where(squirrel.Eq{"id": msgID}).
		Suffix("RETURNING " + strings.Join(r.cols, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var m contact.Message
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("contact", msgID.String())
		}
		return nil, fmt.Errorf("mark read: %w", err)
	}
	return &m, nil
}

func (r *Repo) Delete(ctx context.Context, msgID id.ID) error {
	sql, args, err := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": msgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", tableName, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("contact", msgID.String())
	}
	return nil
}

