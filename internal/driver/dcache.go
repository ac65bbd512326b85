package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"seqdiag/internal/layout"
	"seqdiag/internal/project"
)

// Увеличивать при любом изменении DiskPayload или layout.Diagram.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores computed layouts keyed by CacheKey. Safe for concurrent
// use; writes are atomic renames.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cache entry.
type DiskPayload struct {
	Schema  uint16          `msgpack:"schema"`
	Key     project.Digest  `msgpack:"key"`
	Created time.Time       `msgpack:"created"`
	Layout  *layout.Diagram `msgpack:"layout"`
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "layouts", hexKey[:2], hexKey+".mp")
}

// PutLayout stores d under key.
func (c *DiskCache) PutLayout(key project.Digest, d *layout.Diagram) error {
	if c == nil {
		return nil
	}
	return c.Put(key, &DiskPayload{
		Schema:  diskCacheSchemaVersion,
		Key:     key,
		Created: time.Now().UTC(),
		Layout:  d,
	})
}

// GetLayout returns the layout stored under key. Entries from another schema
// or for another key count as misses.
func (c *DiskCache) GetLayout(key project.Digest) (*layout.Diagram, bool, error) {
	var p DiskPayload
	ok, err := c.Get(key, &p)
	if err != nil || !ok {
		return nil, false, err
	}
	if p.Schema != diskCacheSchemaVersion || p.Key != key || p.Layout == nil {
		return nil, false, nil
	}
	return p.Layout, true, nil
}

// Put serializes payload and atomically replaces the entry for key.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key into out. A missing entry is (false, nil).
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
