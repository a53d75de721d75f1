// Package tx defines the transaction boundary used by domain services.
// The PostgreSQL implementation lives in infrastructure/storage/postgres;
// the in-memory store provides its own for tests.
package tx

import (
	"context"
)

// Manager runs fn inside a transaction carried by ctx.
// If fn returns an error, everything fn wrote is rolled back.
// Nested calls reuse the existing transaction from context.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
