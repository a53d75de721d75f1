package content_repo

import (
	"context"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/domain"
	"folio/internal/domain/filter"
)

type note struct {
	entity.BaseContent
	Title    string `db:"title" json:"title"`
	Category string `db:"category" json:"category"`
	Views    int64  `db:"views" json:"views"`
}

func (n *note) Validate(ctx context.Context) error { return nil }

var noteResource = domain.Resource{
	Name:  "notes",
	Table: "notes",
	Schema: filter.Schema{
		Sortable:       map[string]string{"title": "title"},
		CategoryColumn: "category",
	},
	Counters: []string{"views"},
}

func newNoteRepo() *Repo[*note] {
	return New[*note](nil, noteResource, func() *note { return &note{} })
}

const noteCols = "id, display_order, is_featured, is_published, is_draft, deleted_at, created_at, updated_at, title, category, views"

func TestListQueries_PublicDefaults(t *testing.T) {
	repo := newNoteRepo()

	q, err := filter.Build(filter.Options{Category: "web", Limit: 10, Skip: 20}, noteResource.Schema)
	require.NoError(t, err)

	page, count, err := repo.listQueries(q)
	require.NoError(t, err)

	where := "WHERE deleted_at IS NULL AND is_published = $1 AND is_draft IS NOT TRUE AND category ILIKE $2"

	sql, args, err := page.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT "+noteCols+" FROM notes "+where+
			" ORDER BY created_at ASC, id ASC LIMIT 10 OFFSET 20",
		sql)
	assert.Equal(t, []any{true, "%web%"}, args)

	sql, args, err = count.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT "+noteCols+" FROM notes "+where+") AS sub", sql)
	assert.Equal(t, []any{true, "%web%"}, args)
}

func TestWhere_Operators(t *testing.T) {
	repo := newNoteRepo()

	tests := []struct {
		name     string
		cond     filter.Condition
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Eq",
			cond:     filter.Condition{Column: "is_featured", Op: filter.Eq, Value: true},
			wantSQL:  "is_featured = $1",
			wantArgs: []any{true},
		},
		{
			name:    "IsNull",
			cond:    filter.Condition{Column: "deleted_at", Op: filter.IsNull},
			wantSQL: "deleted_at IS NULL",
		},
		{
			name:    "NotTrue",
			cond:    filter.Condition{Column: "is_draft", Op: filter.NotTrue},
			wantSQL: "is_draft IS NOT TRUE",
		},
		{
			name:     "EqFold",
			cond:     filter.Condition{Column: "category", Op: filter.EqFold, Value: "Web"},
			wantSQL:  "LOWER(category) = LOWER($1)",
			wantArgs: []any{"Web"},
		},
		{
			name:     "ContainsFold escapes wildcards",
			cond:     filter.Condition{Column: "title", Op: filter.ContainsFold, Value: "100%_done"},
			wantSQL:  "title ILIKE $1",
			wantArgs: []any{`%100\%\_done%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.where(squirrel.Select("id").From("notes").PlaceholderFormat(squirrel.Dollar), []filter.Condition{tt.cond})
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, "SELECT id FROM notes WHERE "+tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestWhere_RejectsUnknownColumn(t *testing.T) {
	repo := newNoteRepo()

	_, err := repo.where(repo.baseSelect(), []filter.Condition{{Column: "title; DROP TABLE notes", Op: filter.Eq, Value: 1}})
	require.Error(t, err)

	_, err = repo.orderBy([]filter.OrderTerm{{Column: "nope"}})
	require.Error(t, err)
}

func TestListQueries_FeaturedFirstAndSort(t *testing.T) {
	repo := newNoteRepo()

	q, err := filter.Build(filter.Options{
		IncludeUnpublished: true,
		IncludeDrafts:      true,
		IncludeDeleted:     true,
		FeaturedFirst:      true,
		SortBy:             "title",
		SortOrder:          "desc",
	}, noteResource.Schema)
	require.NoError(t, err)

	page, _, err := repo.listQueries(q)
	require.NoError(t, err)

	sql, args, err := page.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+noteCols+" FROM notes ORDER BY is_featured DESC, title DESC, created_at ASC, id ASC", sql)
	assert.Empty(t, args)
}

func TestUpdateStatements(t *testing.T) {
	repo := newNoteRepo()
	rowID := id.MustParse("0190a6a4-6c2e-7d4a-9a8b-0123456789ab")

	t.Run("toggle", func(t *testing.T) {
		sql, args, err := repo.updateLive(rowID).
			Set("is_featured", squirrel.Expr("NOT is_featured")).
			Suffix(repo.returning()).
			ToSql()
		require.NoError(t, err)
		assert.Equal(t,
			"UPDATE notes SET is_featured = NOT is_featured WHERE id = $1 AND deleted_at IS NULL RETURNING "+noteCols,
			sql)
		assert.Equal(t, []any{rowID}, args)
	})

	t.Run("increment", func(t *testing.T) {
		sql, _, err := repo.updateLive(rowID).
			Set("views", squirrel.Expr("views + 1")).
			Suffix("RETURNING views").
			ToSql()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sql, "UPDATE notes SET views = views + 1 WHERE"), sql)
	})
}
