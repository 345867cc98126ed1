package happiness

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ViewCache is a bounded LRU of computed views. Concurrent misses for the same
// key share one computation.
//
// Safe for concurrent use.
type ViewCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	lru      *list.List
	flight   singleflight.Group

	hits      int64
	misses    int64
	evictions int64
}

type cacheEntry struct {
	key  string
	view View
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Entries   int
	Capacity  int
	Hits      int64
	Misses    int64
	Evictions int64
}

// NewViewCache returns a cache holding at most capacity views.
// A capacity of zero or less disables caching.
func NewViewCache(capacity int) *ViewCache {
	return &ViewCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// GetOrCompute returns the cached view for key, computing and storing it on a
// miss. The boolean reports whether the view came from the cache.
func (c *ViewCache) GetOrCompute(key string, compute func() (View, error)) (View, bool, error) {
	if c.capacity <= 0 {
		view, err := compute()
		return view, false, err
	}

	if view, ok := c.get(key); ok {
		return view, true, nil
	}

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		if view, ok := c.peek(key); ok {
			return view, nil
		}
		view, err := compute()
		if err != nil {
			return View{}, err
		}
		c.put(key, view)
		return view, nil
	})
	if err != nil {
		return View{}, false, err
	}
	return v.(View), false, nil
}

func (c *ViewCache) get(key string) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return View{}, false
	}
	c.hits++
	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).view, true
}

func (c *ViewCache) peek(key string) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return View{}, false
	}
	return elem.Value.(*cacheEntry).view, true
}

func (c *ViewCache) put(key string, view View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).view = view
		c.lru.MoveToFront(elem)
		return
	}

	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, view: view})
	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.evictions++
	}
}

// Purge drops every cached view.
func (c *ViewCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// Stats returns the current counters.
func (c *ViewCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Entries:   c.lru.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
