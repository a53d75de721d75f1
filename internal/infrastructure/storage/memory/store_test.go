package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/id"
	"folio/internal/domain/catalogs/work"
	"folio/internal/infrastructure/storage/memory"
)

var errAbort = errors.New("abort")

func newWork(t *testing.T, store *memory.Store[*work.Work], order int) *work.Work {
	t.Helper()
	w := &work.Work{Title: "Project", Description: "d"}
	w.ID = id.New()
	w.DisplayOrder = order
	require.NoError(t, store.Create(context.Background(), w))
	return w
}

func TestRunInTransaction_RollbackKeepsOutsideWrites(t *testing.T) {
	store := memory.New[*work.Work](work.Resource.Name)
	svc := work.NewService(store, store)
	outside := context.Background()

	w := newWork(t, store, 0)

	err := store.RunInTransaction(outside, func(ctx context.Context) error {
		views, err := svc.IncrementField(outside, w.ID, "views")
		require.NoError(t, err)
		assert.EqualValues(t, 1, views)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := store.GetByID(outside, w.ID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)
}

func TestRunInTransaction_RollbackOfTouchedRowKeepsOutsideIncrement(t *testing.T) {
	store := memory.New[*work.Work](work.Resource.Name)
	outside := context.Background()

	w := newWork(t, store, 3)

	err := store.RunInTransaction(outside, func(ctx context.Context) error {
		require.NoError(t, store.SetDisplayOrder(ctx, w.ID, 9))
		_, err := store.Increment(outside, w.ID, "views")
		require.NoError(t, err)
		_, err = store.Toggle(outside, w.ID, "is_featured")
		require.NoError(t, err)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := store.GetByID(outside, w.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DisplayOrder, "transaction write rolled back")
	assert.EqualValues(t, 1, got.Views, "outside increment kept")
	assert.True(t, got.IsFeatured, "outside toggle kept")
}

func TestRunInTransaction_RollbackRemovesCreatedRows(t *testing.T) {
	store := memory.New[*work.Work](work.Resource.Name)
	outside := context.Background()

	var created *work.Work
	err := store.RunInTransaction(outside, func(ctx context.Context) error {
		created = &work.Work{Title: "Draft", Description: "d"}
		created.ID = id.New()
		require.NoError(t, store.Create(ctx, created))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)
	assert.Zero(t, store.Len())

	err = store.RunInTransaction(outside, func(ctx context.Context) error {
		return store.Create(ctx, created)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}
