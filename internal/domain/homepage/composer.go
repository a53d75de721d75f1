// Package homepage composes the landing-page aggregate: one cached snapshot
// built from parallel published-only reads of several resources.
package homepage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"folio/internal/domain"
	"folio/internal/domain/filter"
	"folio/pkg/logger"
)

// Cache keys. Every key the composer writes starts with CachePrefix.
const (
	CacheKey    = "homepage:all"
	CachePrefix = "homepage:"
)

// BuildTimeout bounds a shared build. The build ignores cancellation of the
// request that started it; waiters on the same miss still get the result.
const BuildTimeout = 10 * time.Second

// Cache is the subset of the read-through cache the composer needs.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	InvalidatePrefix(prefix string) int
}

// Source loads one section of the aggregate.
type Source func(ctx context.Context) (items any, count int, err error)

// Lister is implemented by domain.ContentService.
type Lister[T any] interface {
	List(ctx context.Context, opts filter.Options) (domain.ListResult[T], error)
}

// Query selects what a section shows.
type Query struct {
	Limit         int
	SortBy        string
	SortOrder     filter.Direction
	FeaturedFirst bool
}

// Published returns a Source reading published, non-draft, live rows.
func Published[T any](l Lister[T], q Query) Source {
	return func(ctx context.Context) (any, int, error) {
		res, err := l.List(ctx, filter.Options{
			Limit:         q.Limit,
			SortBy:        q.SortBy,
			SortOrder:     string(q.SortOrder),
			FeaturedFirst: q.FeaturedFirst,
		})
		if err != nil {
			return nil, 0, err
		}
		items := res.Items
		if items == nil {
			items = []T{}
		}
		return items, len(items), nil
	}
}

// Meta describes a snapshot.
type Meta struct {
	Timestamp time.Time      `json:"timestamp"`
	Counts    map[string]int `json:"counts"`
}

// Snapshot is the cached aggregate. Data is kept encoded so every hit
// returns the same bytes.
type Snapshot struct {
	Data json.RawMessage `json:"data"`
	Meta Meta            `json:"meta"`
	ETag string          `json:"-"`
}

// Result is a snapshot plus whether it came from the cache.
type Result struct {
	Snapshot *Snapshot
	Cached   bool
}

type section struct {
	name   string
	source Source
}

// Composer builds and caches the aggregate.
type Composer struct {
	cache    Cache
	ttl      time.Duration
	sections []section
	now      func() time.Time

	flight singleflight.Group

	// generation changes on every invalidation; a build that started before
	// an invalidation is returned but not cached.
	generation atomic.Uint64
}

// New creates a composer caching snapshots for ttl.
func New(cache Cache, ttl time.Duration) *Composer {
	return &Composer{
		cache: cache,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Add registers a section under name. Sections must be added before the
// first Get.
func (c *Composer) Add(name string, src Source) *Composer {
	c.sections = append(c.sections, section{name: name, source: src})
	return c
}

// Get returns the cached snapshot or builds a fresh one. Concurrent misses
// share one build.
func (c *Composer) Get(ctx context.Context) (Result, error) {
	if snap, ok := c.cached(); ok {
		return Result{Snapshot: snap, Cached: true}, nil
	}

	v, err, _ := c.flight.Do(CacheKey, func() (any, error) {
		if snap, ok := c.cached(); ok {
			return snap, nil
		}

		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), BuildTimeout)
		defer cancel()

		gen := c.generation.Load()
		snap, err := c.build(bctx)
		if err != nil {
			return nil, err
		}
		if c.generation.Load() == gen {
			c.cache.Set(CacheKey, snap, c.ttl)
		}
		return snap, nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Snapshot: v.(*Snapshot), Cached: false}, nil
}

// Invalidate drops every homepage key. Returns the number of keys removed.
func (c *Composer) Invalidate(ctx context.Context) int {
	c.generation.Add(1)
	c.flight.Forget(CacheKey)
	n := c.cache.InvalidatePrefix(CachePrefix)
	logger.Debug(ctx, "homepage cache invalidated", "keys", n)
	return n
}

// InvalidateOnChange is a domain.ChangeListener for resources that feed the
// aggregate.
func (c *Composer) InvalidateOnChange(ctx context.Context, change domain.Change) {
	c.Invalidate(ctx)
}

func (c *Composer) cached() (*Snapshot, bool) {
	v, ok := c.cache.Get(CacheKey)
	if !ok {
		return nil, false
	}
	snap, ok := v.(*Snapshot)
	return snap, ok
}

func (c *Composer) build(ctx context.Context) (*Snapshot, error) {
	items := make([]any, len(c.sections))
	counts := make([]int, len(c.sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range c.sections {
		g.Go(func() error {
			v, n, err := s.source(gctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", s.name, err)
			}
			items[i] = v
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := make(map[string]any, len(c.sections))
	meta := Meta{Timestamp: c.now(), Counts: make(map[string]int, len(c.sections))}
	for i, s := range c.sections {
		data[s.name] = items[i]
		meta.Counts[s.name] = counts[i]
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode homepage: %w", err)
	}

	return &Snapshot{
		Data: raw,
		Meta: meta,
		ETag: fmt.Sprintf(`"%016x"`, xxhash.Sum64(raw)),
	}, nil
}
