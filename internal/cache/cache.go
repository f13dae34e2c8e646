// Package cache is a plain file cache for raw upstream payloads. It only
// smooths repeated runs against slow sources; published state lives solely in
// the output artifacts.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores named entries as files under one directory.
type Cache struct {
	dir string
}

// New creates the cache directory if needed and returns a handle to it.
func New(dir string) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// ReadString returns a cached entry no older than maxAge. A maxAge of zero
// accepts any age.
func (c *Cache) ReadString(name string, maxAge time.Duration) (string, bool) {
	path := filepath.Join(c.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if maxAge > 0 && time.Since(info.ModTime()) > maxAge {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// WriteString stores an entry, replacing any previous content.
func (c *Cache) WriteString(name, data string) error {
	if err := os.WriteFile(filepath.Join(c.dir, name), []byte(data), 0o644); err != nil {
		return fmt.Errorf("cache: write %s: %w", name, err)
	}
	return nil
}

// ReadJSON decodes a cached JSON entry into v, honoring maxAge like
// ReadString. Corrupt entries are treated as absent.
func (c *Cache) ReadJSON(name string, maxAge time.Duration, v interface{}) bool {
	raw, ok := c.ReadString(name, maxAge)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false
	}
	return true
}

// WriteJSON stores v as a JSON entry.
func (c *Cache) WriteJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", name, err)
	}
	return c.WriteString(name, string(data))
}

// Remove drops an entry; missing entries are not an error.
func (c *Cache) Remove(name string) error {
	err := os.Remove(filepath.Join(c.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache: remove %s: %w", name, err)
	}
	return nil
}
