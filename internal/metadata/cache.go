package metadata

import (
	"container/list"
	"sync"
)

// DetailCache is an LRU cache of provider lookups keyed by id.
type DetailCache[V any] struct {
	capacity int
	cache    map[int]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry[V any] struct {
	key   int
	value V
}

// NewDetailCache creates a new cache with the given capacity.
func NewDetailCache[V any](capacity int) *DetailCache[V] {
	return &DetailCache[V]{
		capacity: capacity,
		cache:    make(map[int]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached value for id if present.
func (c *DetailCache[V]) Get(id int) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[id]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry[V]).value, true
	}
	var zero V
	return zero, false
}

// Set stores the value for id, evicting the least recently used entry if at capacity.
func (c *DetailCache[V]) Set(id int, value V) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[id]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry[V]).value = value
		return
	}

	elem := c.lru.PushFront(&cacheEntry[V]{key: id, value: value})
	c.cache[id] = elem

	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry[V]).key)
		}
	}
}

// Len returns the number of cached entries.
func (c *DetailCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
