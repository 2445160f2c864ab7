package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// Memory is an in-process cache with lazy TTL expiry on read and LRU
// eviction once capacity is exceeded.
type Memory[T any] struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List
	ttl      time.Duration
	capacity int
	counters counters
	now      func() time.Time
}

// NewMemory creates a memory cache from the given configuration.
func NewMemory[T any](cfg *Config) *Memory[T] {
	return &Memory[T]{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		ttl:      cfg.TTLDuration(),
		capacity: cfg.Capacity,
		now:      time.Now,
	}
}

// Get returns the value for key if present and unexpired. Expired entries
// are removed on read and counted as both a miss and an eviction.
func (m *Memory[T]) Get(ctx context.Context, key string) (*T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		m.counters.misses.Add(1)
		return nil, false, nil
	}

	entry := elem.Value.(*memoryEntry[T])
	if m.now().After(entry.expiresAt) {
		m.remove(elem)
		m.counters.evictions.Add(1)
		m.counters.misses.Add(1)
		return nil, false, nil
	}

	m.order.MoveToFront(elem)
	m.counters.hits.Add(1)

	value := entry.value
	return &value, true, nil
}

// Put stores value under key, replacing any existing entry and evicting
// expired-then-oldest entries once capacity is exceeded.
func (m *Memory[T]) Put(ctx context.Context, key string, value T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		m.remove(elem)
	}

	entry := &memoryEntry[T]{
		key:       key,
		value:     value,
		expiresAt: m.now().Add(m.ttl),
	}
	m.entries[key] = m.order.PushFront(entry)

	if len(m.entries) > m.capacity {
		m.sweep()
	}
	return nil
}

// Stats returns a snapshot of cache counters.
func (m *Memory[T]) Stats() Stats {
	m.mu.Lock()
	entries := int64(len(m.entries))
	m.mu.Unlock()
	return m.counters.snapshot(entries)
}

// Close drops all entries.
func (m *Memory[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

// sweep removes expired entries first, then trims from the LRU tail until
// within capacity. Caller must hold the mutex.
func (m *Memory[T]) sweep() {
	now := m.now()
	for elem := m.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*memoryEntry[T]).expiresAt) {
			m.remove(elem)
			m.counters.evictions.Add(1)
		}
		elem = prev
	}

	for len(m.entries) > m.capacity {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.remove(oldest)
		m.counters.evictions.Add(1)
	}
}

func (m *Memory[T]) remove(elem *list.Element) {
	entry := elem.Value.(*memoryEntry[T])
	delete(m.entries, entry.key)
	m.order.Remove(elem)
}
