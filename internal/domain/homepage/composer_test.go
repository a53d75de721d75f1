package homepage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
	"folio/internal/domain/filter"
	"folio/internal/infrastructure/cache"
)

type countingSource struct {
	calls atomic.Int32
	items []string
	gate  chan struct{}
	err   error
}

func (s *countingSource) source(ctx context.Context) (any, int, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.items, len(s.items), nil
}

func TestComposer_MissThenHit(t *testing.T) {
	works := &countingSource{items: []string{"w1", "w2"}}
	skills := &countingSource{items: []string{"go"}}
	c := New(cache.NewMemory(), cache.TTLMedium).
		Add("works", works.source).
		Add("skills", skills.source)
	ctx := context.Background()

	first, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, map[string]int{"works": 2, "skills": 1}, first.Snapshot.Meta.Counts)
	assert.JSONEq(t, `{"works":["w1","w2"],"skills":["go"]}`, string(first.Snapshot.Data))
	assert.NotEmpty(t, first.Snapshot.ETag)

	second, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, []byte(first.Snapshot.Data), []byte(second.Snapshot.Data))
	assert.Equal(t, first.Snapshot.ETag, second.Snapshot.ETag)

	assert.EqualValues(t, 1, works.calls.Load())
	assert.EqualValues(t, 1, skills.calls.Load())
}

func TestComposer_InvalidateForcesMiss(t *testing.T) {
	works := &countingSource{items: []string{"w1"}}
	store := cache.NewMemory()
	c := New(store, cache.TTLMedium).Add("works", works.source)
	ctx := context.Background()

	_, err := c.Get(ctx)
	require.NoError(t, err)

	store.Set("homepage:other", 1, cache.TTLMedium)
	assert.Equal(t, 2, c.Invalidate(ctx))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.EqualValues(t, 2, works.calls.Load())
}

func TestComposer_ErrorIsNotCached(t *testing.T) {
	boom := errors.New("connection refused")
	works := &countingSource{err: boom}
	store := cache.NewMemory()
	c := New(store, cache.TTLMedium).Add("works", works.source)

	_, err := c.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.Len())
}

func TestComposer_ConcurrentMissesCollapse(t *testing.T) {
	works := &countingSource{items: []string{"w"}, gate: make(chan struct{})}
	c := New(cache.NewMemory(), cache.TTLMedium).Add("works", works.source)
	ctx := context.Background()

	const callers = 16
	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
	)
	started.Add(callers)
	results := make([]Result, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			res, err := c.Get(ctx)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	started.Wait()
	close(works.gate)
	wg.Wait()

	assert.LessOrEqual(t, works.calls.Load(), int32(callers))
	for _, r := range results {
		require.NotNil(t, r.Snapshot)
		assert.JSONEq(t, `{"works":["w"]}`, string(r.Snapshot.Data))
	}
}

func TestComposer_InvalidationDuringBuildIsNotCached(t *testing.T) {
	works := &countingSource{items: []string{"stale"}, gate: make(chan struct{})}
	store := cache.NewMemory()
	c := New(store, cache.TTLMedium).Add("works", works.source)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Get(ctx)
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return works.calls.Load() > 0 }, time.Second, time.Millisecond)
	c.Invalidate(ctx)
	close(works.gate)
	<-done

	_, ok := store.Get(CacheKey)
	assert.False(t, ok, "a build overlapping an invalidation must not be cached")
}

func TestComposer_CancelledStarterDoesNotFailWaiters(t *testing.T) {
	gate := make(chan struct{})
	var calls atomic.Int32
	src := func(ctx context.Context) (any, int, error) {
		calls.Add(1)
		<-gate
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		return []string{"w"}, 1, nil
	}
	c := New(cache.NewMemory(), cache.TTLMedium).Add("works", src)

	starterCtx, cancel := context.WithCancel(context.Background())
	starterDone := make(chan error, 1)
	go func() {
		_, err := c.Get(starterCtx)
		starterDone <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, time.Millisecond)

	waiterDone := make(chan Result, 1)
	go func() {
		res, err := c.Get(context.Background())
		assert.NoError(t, err)
		waiterDone <- res
	}()

	cancel()
	close(gate)

	res := <-waiterDone
	require.NotNil(t, res.Snapshot)
	assert.JSONEq(t, `{"works":["w"]}`, string(res.Snapshot.Data))
	assert.NoError(t, <-starterDone)
}

type fakeLister struct {
	got   filter.Options
	items []int
}

func (f *fakeLister) List(_ context.Context, opts filter.Options) (domain.ListResult[int], error) {
	f.got = opts
	return domain.ListResult[int]{Items: f.items}, nil
}

func TestPublished_PassesQueryAndNeverReturnsNull(t *testing.T) {
	l := &fakeLister{}
	src := Published[int](l, Query{Limit: 6, SortBy: "displayOrder", SortOrder: filter.Asc, FeaturedFirst: true})

	items, n, err := src(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	raw, err := json.Marshal(items)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	assert.Equal(t, 6, l.got.Limit)
	assert.True(t, l.got.FeaturedFirst)
	assert.False(t, l.got.IncludeUnpublished)
	assert.False(t, l.got.IncludeDrafts)
	assert.False(t, l.got.IncludeDeleted)
}
