// Package imagecache keeps decoded images in memory for the lifetime of the
// process. Nothing is ever evicted except through Remove and Clear.
package imagecache

import (
	"strings"
	"sync"
)

type Image struct {
	ContentType string
	Data        []byte
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]Image
}

func New() *Cache {
	return &Cache{entries: make(map[string]Image)}
}

func (c *Cache) Get(key string) (Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.entries[key]
	return img, ok
}

func (c *Cache) Put(key string, img Image) {
	c.mu.Lock()
	c.entries[key] = img
	c.mu.Unlock()
}

func (c *Cache) Remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Image)
	c.mu.Unlock()
}

func (c *Cache) Contains(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// FindByPath looks up urlOrPath as a key first. A relative storage path
// (anything not starting with "http") with %2F decoded also matches a key
// that is a download URL whose path ends in that storage path.
func (c *Cache) FindByPath(urlOrPath string) (Image, bool) {
	if img, ok := c.Get(urlOrPath); ok {
		return img, true
	}
	if strings.HasPrefix(urlOrPath, "http") {
		return Image{}, false
	}

	normalized := strings.TrimPrefix(decodeSlashes(urlOrPath), "/")
	if normalized == "" {
		return Image{}, false
	}
	if img, ok := c.Get(normalized); ok {
		return img, true
	}

	suffix := "/" + normalized
	c.mu.RLock()
	defer c.mu.RUnlock()
	for key, img := range c.entries {
		if !strings.HasPrefix(key, "http") {
			continue
		}
		keyPath, _, _ := strings.Cut(key, "?")
		if strings.HasSuffix(decodeSlashes(keyPath), suffix) {
			return img, true
		}
	}
	return Image{}, false
}

func decodeSlashes(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "%2F", "/"), "%2f", "/")
}
