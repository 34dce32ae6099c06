package gateway

import "sync"

// MemoryCache is a bounded in-process key/value store. When full, the
// oldest inserted entry is evicted. It satisfies both usecase.DatasetCache
// and usecase.ReportCache.
type MemoryCache[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]V
	order    []string
}

// NewMemoryCache creates a cache holding at most capacity entries. A
// capacity below one is raised to one.
func NewMemoryCache[V any](capacity int) *MemoryCache[V] {
	capacity = max(capacity, 1)
	return &MemoryCache[V]{
		capacity: capacity,
		entries:  make(map[string]V, capacity),
	}
}

func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *MemoryCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *MemoryCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
