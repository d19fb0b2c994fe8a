// Package cache implements ports.FeedCache in process memory and in Redis.
package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/marstr/collection/v2"

	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/ports"
)

var _ ports.FeedCache = (*Memory)(nil)

// Memory is a process-local feed cache. Entries never expire. With a
// positive capacity the least recently used geo is evicted once the bound
// is reached; otherwise the cache grows without limit.
type Memory struct {
	mu      sync.Mutex
	entries map[string][]domain.FeedItem
	lru     *collection.LRUCache[string, []domain.FeedItem]
}

// NewMemory creates a memory cache. capacity <= 0 means unbounded.
func NewMemory(capacity int) *Memory {
	if capacity > 0 {
		return &Memory{lru: collection.NewLRUCache[string, []domain.FeedItem](uint(capacity))}
	}

	return &Memory{entries: make(map[string][]domain.FeedItem)}
}

// Get implements ports.FeedCache. The returned slice is a copy.
func (m *Memory) Get(_ context.Context, geo string) ([]domain.FeedItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		items []domain.FeedItem
		ok    bool
	)

	if m.lru != nil {
		items, ok = m.lru.Get(geo)
	} else {
		items, ok = m.entries[geo]
	}

	if !ok {
		return nil, false, nil
	}

	return slices.Clone(items), true, nil
}

// Set implements ports.FeedCache. items is copied.
func (m *Memory) Set(_ context.Context, geo string, items []domain.FeedItem) error {
	stored := slices.Clone(items)
	if stored == nil {
		stored = []domain.FeedItem{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lru != nil {
		m.lru.Put(geo, stored)
	} else {
		m.entries[geo] = stored
	}

	return nil
}
