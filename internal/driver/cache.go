package driver

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheSchema versions CachePayload. Bump it when the format changes;
// entries with another schema read as misses.
const cacheSchema uint16 = 1

// CachePayload is the on-disk record for one checked file, keyed by the
// content hash. Only clean checks are stored, so a hit proves the bytes
// parse without diagnostics; Clean is kept explicit so readers validate
// the entry instead of trusting the writer's policy.
type CachePayload struct {
	Schema uint16
	Path   string
	Stats  Stats
	Clean  bool
}

// Cache stores check outcomes on disk. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// OpenCache initializes a disk cache at the standard location:
// $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "checks", hex.EncodeToString(key[:])+".mp")
}

// Put serializes payload under key, replacing atomically via a temp
// file so concurrent readers never observe a partial entry.
func (c *Cache) Put(key [32]byte, payload *CachePayload) error {
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
	// No-op once the rename succeeds; cleans up on the error paths.
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key into out. A missing entry or one with a
// different schema is a miss, not an error.
func (c *Cache) Get(key [32]byte, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchema {
		return false, nil
	}
	return true, nil
}

// Clear drops every entry. The directory is renamed aside first so a
// crash mid-removal cannot leave a half-cleared cache in place.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := filepath.Join(c.dir, "checks")
	old := sub + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(sub, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// CacheInfo summarizes the on-disk cache for reporting.
type CacheInfo struct {
	Dir     string
	Entries int
	Bytes   int64
}

// Info tallies the cache's entries and total size. An absent or cleared
// cache reports zero entries.
func (c *Cache) Info() (CacheInfo, error) {
	if c == nil {
		return CacheInfo{}, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	info := CacheInfo{Dir: c.dir}
	err := filepath.WalkDir(filepath.Join(c.dir, "checks"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".mp") {
			return nil
		}
		fi, ferr := d.Info()
		if ferr != nil {
			return ferr
		}
		info.Entries++
		info.Bytes += fi.Size()
		return nil
	})
	return info, err
}
