// Package cache provides a small in-memory TTL cache with LRU
// eviction, used to shield the snapshot read path from bursts of
// identical chart queries.
package cache

import (
	"sync"
	"time"
)

type item[V any] struct {
	value    V
	expireAt time.Time
}

func (it *item[V]) expired(now time.Time) bool {
	return now.After(it.expireAt)
}

// Memory is a typed in-memory cache. Entries expire after their TTL;
// when the cache is full the least recently used entry is evicted.
type Memory[V any] struct {
	mu            sync.Mutex
	data          map[string]*item[V]
	access        map[string]time.Time
	maxSize       int
	cleanupTicker *time.Ticker
	done          chan struct{}
}

// NewMemory creates a cache holding at most maxSize entries; expired
// entries are also swept every cleanupInterval.
func NewMemory[V any](maxSize int, cleanupInterval time.Duration) *Memory[V] {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	m := &Memory[V]{
		data:          make(map[string]*item[V]),
		access:        make(map[string]time.Time),
		maxSize:       maxSize,
		cleanupTicker: time.NewTicker(cleanupInterval),
		done:          make(chan struct{}),
	}

	go m.cleanupExpired()
	return m
}

// Set stores value under key for ttl.
func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxSize {
		m.evictLRU()
	}

	m.data[key] = &item[V]{
		value:    value,
		expireAt: time.Now().Add(ttl),
	}
	m.access[key] = time.Now()
}

// Get returns the value for key if present and not expired.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, exists := m.data[key]
	if !exists || it.expired(time.Now()) {
		if exists {
			delete(m.data, key)
			delete(m.access, key)
		}
		var zero V
		return zero, false
	}

	m.access[key] = time.Now()
	return it.value, true
}

// Delete removes the given keys.
func (m *Memory[V]) Delete(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
		delete(m.access, key)
	}
}

// Len reports the number of stored entries, expired or not.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *Memory[V]) evictLRU() {
	if len(m.data) == 0 {
		return
	}

	var oldestKey string
	oldestTime := time.Now()

	for key, accessTime := range m.access {
		if accessTime.Before(oldestTime) {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(m.data, oldestKey)
		delete(m.access, oldestKey)
	}
}

func (m *Memory[V]) cleanupExpired() {
	for {
		select {
		case <-m.done:
			return
		case <-m.cleanupTicker.C:
		}

		m.mu.Lock()
		now := time.Now()
		for key, it := range m.data {
			if it.expired(now) {
				delete(m.data, key)
				delete(m.access, key)
			}
		}
		m.mu.Unlock()
	}
}

// Close stops the cleanup goroutine.
func (m *Memory[V]) Close() {
	m.cleanupTicker.Stop()
	close(m.done)
}
