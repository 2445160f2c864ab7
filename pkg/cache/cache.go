// Package cache provides TTL-bounded result memoization with pluggable
// drivers: an in-process LRU map and a Redis-backed store for multi-instance
// deployments.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
)

// Driver names accepted by New.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// ErrUnknownDriver indicates an unrecognized cache driver name.
var ErrUnknownDriver = errors.New("unknown cache driver")

// Cache stores computed values of type T keyed by content fingerprint.
// Get reports a miss rather than recomputing; recomputation is the caller's
// responsibility. Implementations are safe for concurrent use; on concurrent
// Puts to the same key the last write wins.
type Cache[T any] interface {
	// Get returns the cached value for key if present and unexpired.
	Get(ctx context.Context, key string) (*T, bool, error)
	// Put stores value under key with the configured TTL, replacing any
	// existing entry.
	Put(ctx context.Context, key string, value T) error
	// Stats returns a point-in-time snapshot of cache effectiveness counters.
	Stats() Stats
	// Close releases driver resources.
	Close() error
}

// Stats is a snapshot of cache effectiveness counters.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Entries   int64   `json:"entries"`
	HitRate   float64 `json:"hit_rate"`
}

// New creates a cache for values of type T using the configured driver.
func New[T any](cfg *Config, logger *slog.Logger) (Cache[T], error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemory[T](cfg), nil
	case DriverRedis:
		return NewRedis[T](cfg, logger)
	default:
		return nil, ErrUnknownDriver
	}
}

// counters accumulates hit/miss/eviction totals shared by both drivers.
type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func (c *counters) snapshot(entries int64) Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}

	return Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		Entries:   entries,
		HitRate:   rate,
	}
}
