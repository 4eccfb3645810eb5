// Package cache remembers which files `rsx fmt` already left in normalized
// form, so unchanged files are not parsed again.
package cache

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileName = "fmt_cache.gob"

type entry struct {
	Hash      string
	CreatedAt time.Time
}

// state is what gets persisted.
type state struct {
	Entries          map[string]entry
	DependencyHashes map[string]string
}

// Cache maps file paths to the hash of their formatted content.
// It is safe for concurrent use.
type Cache struct {
	CacheDir string

	mutex           sync.RWMutex
	state           state
	maxAge          time.Duration
	dependencyFiles []string
	dirty           bool
}

// New opens the cache stored in cacheDir, creating the directory when
// needed. Entries are dropped when any of dependencyFiles (the config and
// schema extensions) changed since they were recorded.
func New(cacheDir string, dependencyFiles ...string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		CacheDir:        cacheDir,
		dependencyFiles: dependencyFiles,
		state: state{
			Entries:          make(map[string]entry),
			DependencyHashes: make(map[string]string),
		},
	}

	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	if c.haveDependenciesChanged() {
		c.state.Entries = make(map[string]entry)
		if err := c.updateDependencyHashes(); err != nil {
			return nil, err
		}
		c.dirty = true
	}

	return c, nil
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.CacheDir, fileName))
	if os.IsNotExist(err) {
		return nil // first run
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var s state
	if err := gob.NewDecoder(file).Decode(&s); err != nil {
		// a corrupt cache only costs a full run
		return nil
	}
	if s.Entries != nil {
		c.state.Entries = s.Entries
	}
	if s.DependencyHashes != nil {
		c.state.DependencyHashes = s.DependencyHashes
	}
	return nil
}

// Save writes the cache to disk if it changed since it was opened.
func (c *Cache) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}

	file, err := os.Create(filepath.Join(c.CacheDir, fileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.state); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	c.dirty = false
	return nil
}

// IsFormatted reports whether content is what filename held when it was last
// recorded as formatted.
func (c *Cache) IsFormatted(filename string, content []byte) bool {
	c.mutex.RLock()
	e, ok := c.state.Entries[filename]
	maxAge := c.maxAge
	c.mutex.RUnlock()

	if !ok {
		return false
	}
	if maxAge > 0 && time.Since(e.CreatedAt) > maxAge {
		return false
	}
	return e.Hash == hashBytes(content)
}

// MarkFormatted records content as the normalized form of filename.
func (c *Cache) MarkFormatted(filename string, content []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.state.Entries[filename] = entry{
		Hash:      hashBytes(content),
		CreatedAt: time.Now(),
	}
	c.dirty = true
}

// Forget drops the entry of filename.
func (c *Cache) Forget(filename string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.state.Entries[filename]; ok {
		delete(c.state.Entries, filename)
		c.dirty = true
	}
}

// SetMaxAge makes entries older than d stale. Zero disables expiry.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = d
}

// InvalidateAll drops every entry and persists the empty cache.
func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	c.state.Entries = make(map[string]entry)
	c.dirty = true
	c.mutex.Unlock()

	return c.Save()
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.state.Entries)
}

func (c *Cache) haveDependenciesChanged() bool {
	if len(c.dependencyFiles) != len(c.state.DependencyHashes) {
		return true
	}
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return true
		}
		if hash != c.state.DependencyHashes[file] {
			return true
		}
	}
	return false
}

func (c *Cache) updateDependencyHashes() error {
	hashes := make(map[string]string, len(c.dependencyFiles))
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return fmt.Errorf("failed to get hash for %s: %w", file, err)
		}
		hashes[file] = hash
	}
	c.state.DependencyHashes = hashes
	return nil
}

func hashBytes(b []byte) string {
	return fmt.Sprintf("%x", md5.Sum(b))
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
