package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache event labels.
const (
	CacheHit         = "hit"
	CacheMiss        = "miss"
	CacheExpired     = "expired"
	CacheInvalidated = "invalidated"
)

var (
	cacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Read-through cache events by kind.",
		},
		[]string{"event"},
	)

	contentChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "changes_total",
			Help:      "Committed content mutations.",
		},
		[]string{"resource", "action"},
	)

	counterIncrements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "counter_increments_total",
			Help:      "Engagement counter increments (views, likes, ...).",
		},
		[]string{"resource", "field"},
	)
)

// CacheEvent counts n cache events of the given kind.
func CacheEvent(event string, n int) {
	cacheEvents.WithLabelValues(event).Add(float64(n))
}

// ContentChanged counts a committed mutation.
func ContentChanged(resource, action string) {
	contentChanges.WithLabelValues(resource, action).Inc()
}

// CounterIncremented counts one counter increment.
func CounterIncremented(resource, field string) {
	counterIncrements.WithLabelValues(resource, field).Inc()
}
