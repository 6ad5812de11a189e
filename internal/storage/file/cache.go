package file

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/drakos74/digits/internal/storage"
)

// Cache keeps raw payloads as plain files under a dir.
type Cache struct {
	dir string
}

// NewCache creates a new file cache.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// DefaultCache is the cache under the default storage dir.
func DefaultCache() *Cache {
	return NewCache(filepath.Join(storage.DefaultDir, storage.DataDir))
}

// Path returns the file path for the given name.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.dir, name)
}

// Get returns the cached payload, if any.
func (c *Cache) Get(name string) ([]byte, error) {
	b, err := ioutil.ReadFile(c.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no cached file for '%s': %w", name, storage.NotFoundErr)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read cached file '%s': %w", name, err)
	}
	return b, nil
}

// Put stores the payload under the given name, replacing any previous one.
func (c *Cache) Put(name string, b []byte) error {
	p, err := storage.MakePath(c.dir, name)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := ioutil.WriteFile(tmp, b, 0644); err != nil {
		return fmt.Errorf("could not write cache file '%s': %w", tmp, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("could not move cache file '%s': %w", p, err)
	}
	return nil
}
