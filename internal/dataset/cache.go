package dataset

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes preprocessed tables so a dashboard re-render with an
// unchanged source skips the parse. Keys capture source identity:
// uploads hash their content, files combine path, mtime, and size, so a
// changed input never returns a stale table.
type Cache struct {
	logger *slog.Logger

	mu     sync.RWMutex
	tables map[string]*Table
	group  singleflight.Group
}

// NewCache creates an empty load cache.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		logger: logger.With(slog.String("component", "dataset_cache")),
		tables: make(map[string]*Table),
	}
}

// LoadFile returns the preprocessed table for a CSV file path, parsing
// at most once per (path, mtime, size) identity.
func (c *Cache) LoadFile(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	key := fmt.Sprintf("file:%s:%d:%d", path, info.ModTime().UnixNano(), info.Size())
	return c.load(key, func() (*Table, error) {
		return LoadFile(path)
	})
}

// LoadBytes returns the preprocessed table for uploaded CSV content,
// keyed by a content hash so re-uploads of the same bytes are free.
func (c *Cache) LoadBytes(name string, data []byte) (*Table, error) {
	key := fmt.Sprintf("upload:%x", sha256.Sum256(data))
	table, err := c.load(key, func() (*Table, error) {
		return Load(bytes.NewReader(data))
	})
	if err != nil {
		return nil, fmt.Errorf("load upload %s: %w", name, err)
	}
	return table, nil
}

func (c *Cache) load(key string, parse func() (*Table, error)) (*Table, error) {
	c.mu.RLock()
	table, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		return table, nil
	}

	// singleflight collapses concurrent loads of the same source into
	// one parse; failures are not cached so a fixed file re-parses.
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		table, err := parse()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[key] = table
		c.mu.Unlock()
		c.logger.Info("dataset cached",
			slog.String("key", key),
			slog.Int("rows", table.Len()),
			slog.Int("columns", len(table.Columns)))
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Invalidate drops every cached table. Upload handlers call this when
// the current source is replaced so memory does not accumulate across
// session-sized datasets.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.tables = make(map[string]*Table)
	c.mu.Unlock()
}
