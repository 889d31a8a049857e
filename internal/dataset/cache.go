package dataset

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Cache memoizes loaded datasets by source path. An entry lives until the
// process exits or the path is reloaded; it is never partially updated.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Dataset
	load    func(string) (*Dataset, error)
	log     logrus.FieldLogger
}

// NewCache returns an empty cache that loads CSV files with Load.
func NewCache(log logrus.FieldLogger) *Cache {
	return &Cache{
		entries: make(map[string]*Dataset),
		load:    Load,
		log:     log,
	}
}

// Get returns the dataset for path, loading it on first use. Failed loads are
// not cached.
func (c *Cache) Get(path string) (*Dataset, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.entries[key]; ok {
		c.log.WithField("source", key).Debug("dataset cache hit")
		return d, nil
	}
	return c.loadLocked(key)
}

// Reload drops any cached copy of path and loads it again.
func (c *Cache) Reload(path string) (*Dataset, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return c.loadLocked(key)
}

// Len returns the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) loadLocked(key string) (*Dataset, error) {
	start := time.Now()
	d, err := c.load(key)
	if err != nil {
		c.log.WithField("source", key).WithError(err).Warn("dataset load failed")
		return nil, err
	}
	c.entries[key] = d
	c.log.WithFields(logrus.Fields{
		"source":  key,
		"rows":    len(d.Records),
		"players": len(d.Players),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("dataset loaded")
	return d, nil
}
