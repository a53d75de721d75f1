// Package cache provides the process-local read-through cache.
//
// Entries carry an absolute expiry and leave the store only when read after
// expiry or when invalidated explicitly. There is no size bound and nothing
// is shared across processes; a multi-instance deployment would need a
// shared store instead.
package cache

import (
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"folio/internal/infrastructure/metrics"
)

// TTL tiers, chosen per call-site by how volatile the data is.
const (
	TTLShort  = time.Minute
	TTLMedium = 5 * time.Minute
	TTLLong   = 15 * time.Minute
	TTLHour   = time.Hour
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is a key/value store with per-entry TTL and prefix invalidation.
// It is safe for concurrent use and never blocks on I/O.
type Memory struct {
	entries *xsync.MapOf[string, entry]
	now     func() time.Time
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		entries: xsync.NewMapOf[string, entry](),
		now:     time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Get returns the value for key if present and not expired. An expired entry
// is evicted as a side effect.
func (m *Memory) Get(key string) (any, bool) {
	e, ok := m.entries.Load(key)
	if !ok {
		metrics.CacheEvent(metrics.CacheMiss, 1)
		return nil, false
	}

	now := m.now()
	if now.Before(e.expiresAt) {
		metrics.CacheEvent(metrics.CacheHit, 1)
		return e.value, true
	}

	// Re-check under the bucket lock so a concurrent fresh Set survives.
	m.entries.Compute(key, func(old entry, loaded bool) (entry, bool) {
		return old, !loaded || !now.Before(old.expiresAt)
	})
	metrics.CacheEvent(metrics.CacheExpired, 1)
	metrics.CacheEvent(metrics.CacheMiss, 1)
	return nil, false
}

// Set stores value under key until now+ttl, replacing any existing entry.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	m.entries.Store(key, entry{value: value, expiresAt: m.now().Add(ttl)})
}

// Invalidate removes exactly key.
func (m *Memory) Invalidate(key string) {
	if _, ok := m.entries.LoadAndDelete(key); ok {
		metrics.CacheEvent(metrics.CacheInvalidated, 1)
	}
}

// InvalidatePrefix removes every key starting with prefix and returns how
// many were removed.
func (m *Memory) InvalidatePrefix(prefix string) int {
	var keys []string
	m.entries.Range(func(key string, _ entry) bool {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return true
	})

	removed := 0
	for _, k := range keys {
		if _, ok := m.entries.LoadAndDelete(k); ok {
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheEvent(metrics.CacheInvalidated, removed)
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	return m.entries.Size()
}
