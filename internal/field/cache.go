package field

import (
	"fmt"
	"image"
	"sync"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

// ImageRenderer produces a field raster for a dataset, month and
// viewport. Renderer is the canonical implementation; CachedRenderer
// decorates any ImageRenderer.
type ImageRenderer interface {
	Render(ds *domain.Dataset, month domain.Month, vp Viewport) (*image.NRGBA, error)
}

// CachedRenderer wraps an ImageRenderer with an in-memory LRU cache
// keyed on month and viewport. The dataset is loaded once and
// immutable for the life of the process, so a cached raster never goes
// stale. Hits share one buffer, so callers must treat returned images
// as read-only.
type CachedRenderer struct {
	inner ImageRenderer
	cache *lruCache
}

// NewCachedRenderer creates a cache decorator around a renderer.
func NewCachedRenderer(inner ImageRenderer, maxEntries int) *CachedRenderer {
	return &CachedRenderer{
		inner: inner,
		cache: newLRUCache(maxEntries),
	}
}

func (c *CachedRenderer) Render(ds *domain.Dataset, month domain.Month, vp Viewport) (*image.NRGBA, error) {
	key := renderKey(month, vp)
	if img, ok := c.cache.get(key); ok {
		return img, nil
	}
	img, err := c.inner.Render(ds, month, vp)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, img)
	return img, nil
}

func renderKey(month domain.Month, vp Viewport) string {
	return fmt.Sprintf("%d|%.8f,%.8f,%.8f,%.8f|%dx%d",
		int(month), vp.West, vp.South, vp.East, vp.North, vp.Width, vp.Height)
}

// lruCache is a simple thread-safe LRU cache for rendered rasters.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	head       *cacheEntry // most recently used
	tail       *cacheEntry // least recently used
}

type cacheEntry struct {
	key  string
	img  *image.NRGBA
	prev *cacheEntry
	next *cacheEntry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*cacheEntry),
	}
}

func (c *lruCache) get(key string) (*image.NRGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.img, true
}

func (c *lruCache) put(key string, img *image.NRGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.img = img
		c.moveToFront(e)
		return
	}

	e := &cacheEntry{key: key, img: img}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *cacheEntry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *cacheEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
