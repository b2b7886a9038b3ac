package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process Cache backend. Expired entries are swept on
// the cleanup interval; reads between sweeps still honor the TTL.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the entry for key, or false on a miss or expired entry.
func (m *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := m.store.Get(key)
	if !found {
		return nil, false
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

// Set stores a value with the given TTL. A zero ttl falls back to the
// default; a negative ttl pins the entry until Delete or Clear.
func (m *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	switch {
	case ttl < 0:
		m.store.Set(key, value, gocache.NoExpiration)
	case ttl == 0:
		m.store.Set(key, value, gocache.DefaultExpiration)
	default:
		m.store.Set(key, value, ttl)
	}
	return nil
}

// Delete removes a single entry.
func (m *MemoryCache) Delete(key string) error {
	m.store.Delete(key)
	return nil
}

// Clear drops every entry.
func (m *MemoryCache) Clear() error {
	m.store.Flush()
	return nil
}
