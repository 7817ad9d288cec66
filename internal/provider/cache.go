package provider

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cacheIndexName = "api_cache.json"

// PosterCache stores downloaded poster bytes on disk with a JSON index and
// an in-memory TTL layer in front of the disk reads.
type PosterCache struct {
	dir string

	mu    sync.Mutex
	index map[string]string // cache key -> poster file path

	mem *gocache.Cache
}

// PosterCacheKey creates a unique cache key for a title lookup.
func PosterCacheKey(title string, mt MediaType) string {
	return fmt.Sprintf("poster_%s_%s", title, mt)
}

// NewPosterCache opens (or creates) a poster cache rooted at dir.
func NewPosterCache(dir string) (*PosterCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &PosterCache{
		dir:   dir,
		index: make(map[string]string),
		mem:   gocache.New(1*time.Hour, 10*time.Minute),
	}

	data, err := os.ReadFile(filepath.Join(dir, cacheIndexName))
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read cache index: %w", err)
	}
	if err := json.Unmarshal(data, &c.index); err != nil {
		// A corrupt index is not fatal, start fresh.
		c.index = make(map[string]string)
	}
	return c, nil
}

// Get returns cached poster bytes for the key, if present.
func (c *PosterCache) Get(key string) ([]byte, bool) {
	if cached, found := c.mem.Get(key); found {
		if data, ok := cached.([]byte); ok {
			return data, true
		}
	}

	c.mu.Lock()
	path, ok := c.index[key]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	c.mem.Set(key, data, gocache.DefaultExpiration)
	return data, true
}

// Set stores poster bytes under the key and persists the index.
func (c *PosterCache) Set(key string, data []byte) error {
	path := filepath.Join(c.dir, key+".jpg")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to cache poster: %w", err)
	}

	c.mu.Lock()
	c.index[key] = path
	err := c.saveIndexLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.mem.Set(key, data, gocache.DefaultExpiration)
	return nil
}

// Len reports the number of cached posters.
func (c *PosterCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

func (c *PosterCache) saveIndexLocked() error {
	data, err := json.Marshal(c.index)
	if err != nil {
		return fmt.Errorf("failed to marshal cache index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, cacheIndexName), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache index: %w", err)
	}
	return nil
}
