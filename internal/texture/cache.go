package texture

import (
	"image"
	"sync"

	"fragment-decoder/internal/model"
)

// Resolver resolves a texture name to a decoded image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe cache of decoded bank textures.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	model *model.Model
}

type cacheEntry struct {
	img *image.NRGBA // nil when conversion failed
}

// NewCache creates a cache over the texture bank of m.
func NewCache(m *model.Model) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		model: m,
	}
}

// Resolve converts and caches a texture by name. Returns nil if the bank
// has no such texture or it cannot be decoded.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	c.mu.RLock()
	if entry, exists := c.items[texName]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	var img *image.NRGBA
	if tex := c.model.Texture(texName); tex != nil {
		img, _ = ToNRGBA(tex)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[texName]; exists {
		return entry.img
	}
	c.items[texName] = &cacheEntry{img: img}
	return img
}
