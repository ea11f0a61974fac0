package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/parlay-advisor/internal/metrics"
)

// MemoryStore provides in-process caching backed by go-cache.
// Values are stored as JSON so callers never share mutable state with the cache.
type MemoryStore struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(ttl time.Duration, maxSize int) *MemoryStore {
	return &MemoryStore{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached value
func (m *MemoryStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, found := m.cache.Get(key)

	m.mu.Lock()
	if found {
		m.hitCount++
	} else {
		m.missCount++
	}
	m.mu.Unlock()
	m.updateMetrics(found)

	if !found {
		return false, nil
	}

	data, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("unexpected cache entry type %T for key %s", raw, key)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set stores a value in cache
func (m *MemoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = m.ttl
	}

	// Check size limit
	if m.maxSize > 0 && m.cache.ItemCount() >= m.maxSize {
		m.cache.DeleteExpired()
		if m.cache.ItemCount() >= m.maxSize {
			return nil
		}
	}

	m.cache.Set(key, data, ttl)
	return nil
}

// Ping always succeeds for the in-process store
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the store
func (m *MemoryStore) Close() error {
	m.Clear()
	return nil
}

// Clear flushes the entire cache
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Flush()
	m.hitCount = 0
	m.missCount = 0
}

// Stats returns cache statistics
func (m *MemoryStore) Stats() (hits, misses uint64, ratio float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits = m.hitCount
	misses = m.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (m *MemoryStore) ItemCount() int {
	return m.cache.ItemCount()
}

func (m *MemoryStore) updateMetrics(hit bool) {
	_, _, ratio := m.Stats()
	metrics.RecordCacheLookup(hit)
	metrics.UpdateCacheHitRatio(ratio)
}
