package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Cache stores raw response bytes, one file per pathname.
type Cache struct {
	fs  afero.Fs
	dir string
}

// NewCache creates the cache directory if needed.
func NewCache(fs afero.Fs, dir string) (*Cache, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &Cache{fs: fs, dir: dir}, nil
}

// CacheKey flattens a pathname into a single file name.
func CacheKey(pathname string) string {
	return strings.ReplaceAll(pathname, "/", "_")
}

// Path returns the file backing pathname.
func (c *Cache) Path(pathname string) string {
	return filepath.Join(c.dir, CacheKey(pathname))
}

// Read returns the cached bytes for pathname. ok is false on a miss.
func (c *Cache) Read(pathname string) (data []byte, ok bool, err error) {
	data, err = afero.ReadFile(c.fs, c.Path(pathname))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache for %s: %w", pathname, err)
	}
	return data, true, nil
}

// Write replaces the cached bytes for pathname.
func (c *Cache) Write(pathname string, data []byte) error {
	tmp, err := afero.TempFile(c.fs, c.dir, CacheKey(pathname)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file for %s: %w", pathname, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("failed to write cache for %s: %w", pathname, err)
	}
	if err := tmp.Close(); err != nil {
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("failed to close cache for %s: %w", pathname, err)
	}

	if err := c.fs.Rename(tmpName, c.Path(pathname)); err != nil {
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("failed to commit cache for %s: %w", pathname, err)
	}
	return nil
}
