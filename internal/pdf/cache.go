package pdf

import (
	"fmt"
	"sync"
	"time"
)

// PageCache is a thread-safe least recently used cache of page snapshots.
// Highlight requests for the same page arrive repeatedly as the citation
// table or search term changes; the cache saves re-parsing the PDF each time.
type PageCache struct {
	mutex    sync.Mutex
	capacity int
	items    map[string]*cacheNode
	head     *cacheNode // most recently used
	tail     *cacheNode // least recently used
	hits     int64
	misses   int64
}

type cacheNode struct {
	key   string
	value *PageSnapshot
	prev  *cacheNode
	next  *cacheNode
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate_percent"`
	Size     int     `json:"current_size"`
	Capacity int     `json:"max_capacity"`
}

// NewPageCache creates a cache holding at most capacity snapshots.
func NewPageCache(capacity int) *PageCache {
	if capacity <= 0 {
		capacity = 64
	}

	c := &PageCache{
		capacity: capacity,
		items:    make(map[string]*cacheNode),
		head:     &cacheNode{},
		tail:     &cacheNode{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// cacheKey identifies a page of a particular version of a file, so an
// edited file is never served from stale entries.
func cacheKey(path string, modTime time.Time, size int64, page int) string {
	return fmt.Sprintf("%s|%d|%d|%d", path, modTime.UnixNano(), size, page)
}

// Get returns the snapshot stored under key and marks it recently used.
func (c *PageCache) Get(key string) (*PageSnapshot, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	node, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	c.moveToFront(node)
	c.hits++
	return node.value, true
}

// Put stores a snapshot, evicting the least recently used one when full.
func (c *PageCache) Put(key string, value *PageSnapshot) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if node, ok := c.items[key]; ok {
		node.value = value
		c.moveToFront(node)
		return
	}

	node := &cacheNode{key: key, value: value}
	c.addToFront(node)
	c.items[key] = node

	if len(c.items) > c.capacity {
		c.evictLRU()
	}
}

// Len returns the number of cached snapshots.
func (c *PageCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}

// Clear drops every entry and resets the counters.
func (c *PageCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]*cacheNode)
	c.head.next = c.tail
	c.tail.prev = c.head
	c.hits = 0
	c.misses = 0
}

// Stats returns hit and miss counters.
func (c *PageCache) Stats() CacheStats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	total := c.hits + c.misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}

	return CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		HitRate:  hitRate,
		Size:     len(c.items),
		Capacity: c.capacity,
	}
}

func (c *PageCache) moveToFront(node *cacheNode) {
	c.removeNode(node)
	c.addToFront(node)
}

func (c *PageCache) addToFront(node *cacheNode) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

func (c *PageCache) removeNode(node *cacheNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

func (c *PageCache) evictLRU() {
	lru := c.tail.prev
	if lru != c.head {
		c.removeNode(lru)
		delete(c.items, lru.key)
	}
}
