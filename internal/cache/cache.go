// Package cache implements the render cache: a bounded LRU keyed by
// caller-supplied fingerprint, storing the last completed outcome for that
// key with a per-entry TTL. Thread-safe; concurrent misses on the same key
// may both compute, with last writer wins.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/five82/animrender/internal/model"
)

// entry is the list.Element.Value payload: the cached outcome plus the key,
// so an evicted element can delete its own map slot.
type entry struct {
	key       string
	outcome   model.RenderOutcome
	createdAt time.Time
}

// Cache is a bounded LRU with per-entry TTL. The zero value is not usable;
// construct with New.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	ll         *list.List
	items      map[string]*list.Element
	now        func() time.Time
}

// New creates a cache with the given capacity and TTL. maxEntries <= 0
// means unbounded; ttl <= 0 means entries never expire.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Get returns the entry for key if present and not expired. A hit moves the
// entry to the front (most recently used). A miss, including an expired
// entry, returns (zero, false); an expired entry found on Get is evicted.
func (c *Cache) Get(key string) (model.RenderOutcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return model.RenderOutcome{}, false
	}
	e := el.Value.(*entry)
	if c.expired(e) {
		c.removeElement(el)
		return model.RenderOutcome{}, false
	}
	c.ll.MoveToFront(el)
	return e.outcome, true
}

// Set inserts or overwrites the entry for key, refreshing its recency and
// TTL clock, evicting the least-recently-used entry if the cache is at
// capacity and key is new.
func (c *Cache) Set(key string, outcome model.RenderOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).outcome = outcome
		el.Value.(*entry).createdAt = c.now()
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry{key: key, outcome: outcome, createdAt: c.now()})
	c.items[key] = el

	if c.maxEntries > 0 && c.ll.Len() > c.maxEntries {
		c.removeOldest()
	}
}

// Len returns the number of entries currently held, including any that have
// expired but have not yet been touched by Get.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) expired(e *entry) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(e.createdAt) >= c.ttl
}

func (c *Cache) removeOldest() {
	el := c.ll.Back()
	if el != nil {
		c.removeElement(el)
	}
}

func (c *Cache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
