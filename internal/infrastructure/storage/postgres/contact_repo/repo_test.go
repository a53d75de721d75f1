package contact_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain/contact"
)

const msgCols = "id, name, email, subject, message, is_read, created_at"

func TestListQueries(t *testing.T) {
	repo := New(nil)

	page, count := repo.listQueries(contact.ListFilter{UnreadOnly: true, Limit: 20, Offset: 40})

	sql, args, err := page.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT "+msgCols+" FROM contact_messages WHERE is_read = $1 ORDER BY created_at DESC, id DESC LIMIT 20 OFFSET 40",
		sql)
	assert.Equal(t, []any{false}, args)

	sql, _, err = count.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT "+msgCols+" FROM contact_messages WHERE is_read = $1) AS sub", sql)
}

func TestListQueries_AllMessages(t *testing.T) {
	page, _ := New(nil).listQueries(contact.ListFilter{})

	sql, args, err := page.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+msgCols+" FROM contact_messages ORDER BY created_at DESC, id DESC", sql)
	assert.Empty(t, args)
}
