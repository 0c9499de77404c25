package gfx

import (
	"image"
	"sync"
)

const defaultMaxCacheSize = 5

// ImageCache is a small LRU of rasterised images.
type ImageCache struct {
	mu      sync.Mutex
	images  map[string]image.Image
	order   []string // tracks insertion order for LRU eviction
	maxSize int
}

func NewImageCache() *ImageCache {
	return NewImageCacheWithSize(defaultMaxCacheSize)
}

func NewImageCacheWithSize(maxSize int) *ImageCache {
	return &ImageCache{
		images:  make(map[string]image.Image),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

func (c *ImageCache) Get(key string) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, exists := c.images[key]; exists {
		// Move to end (most recently used)
		c.moveToEnd(key)
		return img
	}
	return nil
}

func (c *ImageCache) Set(key string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// If key already exists, just update and move to end
	if _, exists := c.images[key]; exists {
		c.images[key] = img
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	if len(c.order) >= c.maxSize {
		c.evictOldest()
	}

	c.images[key] = img
	c.order = append(c.order, key)
}

func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

func (c *ImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images = make(map[string]image.Image)
	c.order = c.order[:0]
}

func (c *ImageCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

func (c *ImageCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}

	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.images, oldest)
}
