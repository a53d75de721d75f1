package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return NewMemory().WithClock(clock.Now), clock
}

func TestMemory_HitWithinTTL(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("homepage:all", "payload", TTLMedium)
	clock.Advance(TTLMedium - time.Second)

	v, ok := m.Get("homepage:all")
	assert.True(t, ok)
	assert.Equal(t, "payload", v)
}

func TestMemory_ExpiredIsMissAndEvicted(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("k", 1, TTLShort)
	clock.Advance(TTLShort)

	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Zero(t, m.Len(), "expired entry is evicted on read")
}

func TestMemory_SetOverwritesAndResetsExpiry(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("k", 1, TTLShort)
	clock.Advance(30 * time.Second)
	m.Set("k", 2, TTLShort)
	clock.Advance(45 * time.Second)

	v, ok := m.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMemory_Invalidate(t *testing.T) {
	m, _ := newTestMemory()

	m.Set("a", 1, TTLHour)
	m.Set("ab", 2, TTLHour)
	m.Invalidate("a")

	_, ok := m.Get("a")
	assert.False(t, ok)
	_, ok = m.Get("ab")
	assert.True(t, ok, "invalidate removes exactly one key")
}

func TestMemory_InvalidatePrefix(t *testing.T) {
	m, _ := newTestMemory()

	m.Set("homepage:all", 1, TTLMedium)
	m.Set("homepage:v2", 2, TTLMedium)
	m.Set("works:list", 3, TTLMedium)

	assert.Equal(t, 2, m.InvalidatePrefix("homepage:"))
	assert.Equal(t, 1, m.Len())

	_, ok := m.Get("works:list")
	assert.True(t, ok)
	assert.Zero(t, m.InvalidatePrefix("homepage:"))
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k:%d", i%4)
			m.Set(key, i, TTLShort)
			m.Get(key)
			if i%8 == 0 {
				m.InvalidatePrefix("k:")
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, m.Len(), 4)
}
