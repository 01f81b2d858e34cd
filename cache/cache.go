// Package cache is a read-through disk cache for MusicBrainz response
// bodies, so repeated runs over the same MBIDs don't hit the API again.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

type Cache struct {
	dir string
}

var ErrMiss = errors.New("cache miss")

// Get returns the cached body for key, or ErrMiss.
func (c *Cache) Get(key string) (io.ReadCloser, error) {
	filename := c.filename(key)

	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cache miss for '%s': %w", key, ErrMiss)
	} else if err != nil {
		return nil, fmt.Errorf("error checking for cache file '%s': %w", filename, err)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening cache file '%s' for read: %w", filename, err)
	}
	return f, nil
}

// Set drains r into the cache file for key and returns a replacement reader
// holding the same bytes. r is closed.
func (c *Cache) Set(key string, r io.ReadCloser) (io.ReadCloser, error) {
	if err := os.MkdirAll(c.dir, 0777); err != nil {
		return nil, fmt.Errorf("error creating cache dir '%s': %w", c.dir, err)
	}

	filename := c.filename(key)
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening cache file '%s' for write: %w", filename, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	tee := io.TeeReader(r, f)
	if _, err := io.Copy(&buf, tee); err != nil {
		return nil, fmt.Errorf("error writing cache file '%s': %w", filename, err)
	}
	r.Close()

	return io.NopCloser(&buf), nil
}

func (c *Cache) filename(key string) string {
	hasher := sha256.New()
	hasher.Write([]byte(key))
	return filepath.Join(c.dir, "mb-"+hex.EncodeToString(hasher.Sum(nil)))
}
