package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchQuery represents a query in a batch.
type BatchQuery struct {
	SQL  string
	Args []any
}

// ExecBatch sends queries in a single round-trip on the transaction in ctx
// (or the pool outside one) and returns the rows affected by each.
// Execution stops at the first failing statement.
func (m *TxManager) ExecBatch(ctx context.Context, queries []BatchQuery) ([]int64, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, q := range queries {
		batch.Queue(q.SQL, q.Args...)
	}

	results := m.GetQuerier(ctx).SendBatch(ctx, batch)
	defer results.Close()

	affected := make([]int64, 0, len(queries))
	for i := range queries {
		tag, err := results.Exec()
		if err != nil {
			return affected, fmt.Errorf("batch query %d: %w", i, err)
		}
		affected = append(affected, tag.RowsAffected())
	}

	return affected, nil
}
