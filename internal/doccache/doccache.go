// Package doccache keeps parsed documents in memory by path.
package doccache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/notjosh/rangy/htmldom"
)

// Loader parses the document at path.
type Loader func(path string) (*htmldom.Document, error)

// Cache is a read-through cache of parsed documents keyed by absolute path.
type Cache struct {
	cache  *gocache.Cache
	ttl    time.Duration
	load   Loader
	logger *slog.Logger
}

// New creates a Cache whose entries expire ttl after they were loaded.
func New(ttl time.Duration, load Loader, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		cache:  gocache.New(ttl, 2*ttl),
		ttl:    ttl,
		load:   load,
		logger: logger,
	}
}

// FileLoader returns a Loader that parses HTML files with opts.
func FileLoader(opts htmldom.Options) Loader {
	return func(path string) (*htmldom.Document, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		doc, err := htmldom.Parse(f, opts)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return doc, nil
	}
}

// Get returns the cached document for path, loading it on a miss.
func (c *Cache) Get(path string) (*htmldom.Document, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if v, ok := c.cache.Get(key); ok {
		if doc, ok := v.(*htmldom.Document); ok {
			c.logger.Debug("document cache hit", "path", key)
			return doc, nil
		}
		c.logger.Error("wrong type in document cache", "path", key)
	}

	doc, err := c.load(key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, doc, c.ttl)
	c.logger.Debug("document cache miss", "path", key)
	return doc, nil
}

// Invalidate drops path from the cache.
func (c *Cache) Invalidate(path string) {
	if key, err := filepath.Abs(path); err == nil {
		c.cache.Delete(key)
	}
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every document.
func (c *Cache) Flush() {
	c.cache.Flush()
}
