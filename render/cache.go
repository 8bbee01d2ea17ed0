package render

import (
	"fmt"

	"github.com/milk9111/sketchbook/common"
	"go.uber.org/zap"
)

// Loader opens the atlas stored under key.
type Loader func(key string) (Atlas, error)

// AtlasHandle is a counted reference into a Cache. Handles from an earlier
// load generation of the same key are stale and release nothing.
type AtlasHandle struct {
	key string
	gen uint32
}

func (h AtlasHandle) Valid() bool {
	return h.key != "" && h.gen != 0
}

func (h AtlasHandle) Key() string {
	return h.key
}

type cacheEntry struct {
	atlas Atlas
	refs  int
	gen   uint32
}

// Cache shares atlases between every object that draws them. An atlas is
// loaded on first Acquire and disposed when its last handle is released.
type Cache struct {
	load    Loader
	entries map[string]*cacheEntry
	gens    map[string]uint32
	log     *zap.Logger
}

func NewCache(load Loader, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		load:    load,
		entries: make(map[string]*cacheEntry),
		gens:    make(map[string]uint32),
		log:     log,
	}
}

// Acquire returns the atlas for key, loading it if needed.
func (c *Cache) Acquire(key string) (Atlas, AtlasHandle, error) {
	if key == "" {
		return nil, AtlasHandle{}, fmt.Errorf("%w: empty atlas key", common.ErrInvalidArgument)
	}
	if e, ok := c.entries[key]; ok {
		e.refs++
		return e.atlas, AtlasHandle{key: key, gen: e.gen}, nil
	}
	if c.load == nil {
		return nil, AtlasHandle{}, fmt.Errorf("%w: cache has no loader", common.ErrInvalidState)
	}
	atlas, err := c.load(key)
	if err != nil {
		return nil, AtlasHandle{}, fmt.Errorf("render: load atlas %s: %w", key, err)
	}
	if atlas == nil {
		return nil, AtlasHandle{}, fmt.Errorf("%w: loader returned nil atlas for %s", common.ErrInvalidState, key)
	}
	c.gens[key]++
	e := &cacheEntry{atlas: atlas, refs: 1, gen: c.gens[key]}
	c.entries[key] = e
	c.log.Debug("atlas loaded", zap.String("key", key), zap.Uint32("gen", e.gen))
	return atlas, AtlasHandle{key: key, gen: e.gen}, nil
}

// Release drops one reference. It reports whether the atlas was disposed.
func (c *Cache) Release(h AtlasHandle) bool {
	if !h.Valid() {
		return false
	}
	e, ok := c.entries[h.key]
	if !ok || e.gen != h.gen {
		c.log.Debug("stale atlas handle released", zap.String("key", h.key), zap.Uint32("gen", h.gen))
		return false
	}
	e.refs--
	if e.refs > 0 {
		return false
	}
	e.atlas.Dispose()
	delete(c.entries, h.key)
	c.log.Debug("atlas disposed", zap.String("key", h.key), zap.Uint32("gen", h.gen))
	return true
}

// Refs reports the live reference count for key.
func (c *Cache) Refs(key string) int {
	if e, ok := c.entries[key]; ok {
		return e.refs
	}
	return 0
}

// Clear disposes every atlas regardless of reference counts.
func (c *Cache) Clear() {
	for key, e := range c.entries {
		e.atlas.Dispose()
		delete(c.entries, key)
	}
}
