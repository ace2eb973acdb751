package omnibox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// ErrNotFound is returned when the cache holds no repository list.
var ErrNotFound = errors.New("not found")

// Compile-time checks that the caches implement Cache.
var (
	_ Cache = (*FileCache)(nil)
	_ Cache = (*MemoryCache)(nil)
)

// Snapshot is a repository list with the time it was last refreshed.
type Snapshot struct {
	Repositories []string  `json:"repositories"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Cache persists the last known repository list.
type Cache interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// FileCache implements Cache with a JSON file on disk.
type FileCache struct {
	path string
	mu   sync.RWMutex
}

// CacheFileName is the name of the repository list file inside the cache directory.
const CacheFileName = "repositories.json"

// NewFileCache creates a file-based cache in the given directory.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return &FileCache{path: filepath.Join(dir, CacheFileName)}, nil
}

// Load reads the cached snapshot.
func (fc *FileCache) Load(_ context.Context) (Snapshot, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	data, err := os.ReadFile(fc.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, fmt.Errorf("repository cache: %w", ErrNotFound)
		}
		return Snapshot{}, fmt.Errorf("read repository cache: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal repository cache: %w", err)
	}
	return snap, nil
}

// Save persists the snapshot using atomic write (temp file + rename).
func (fc *FileCache) Save(_ context.Context, snap Snapshot) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	return writeSnapshot(fc.path, snap)
}

// MemoryCache implements Cache in process memory.
type MemoryCache struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Load returns the stored snapshot.
func (mc *MemoryCache) Load(_ context.Context) (Snapshot, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.snap == nil {
		return Snapshot{}, fmt.Errorf("repository cache: %w", ErrNotFound)
	}
	return Snapshot{
		Repositories: slices.Clone(mc.snap.Repositories),
		LastUpdated:  mc.snap.LastUpdated,
	}, nil
}

// Save replaces the stored snapshot.
func (mc *MemoryCache) Save(_ context.Context, snap Snapshot) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	snap.Repositories = slices.Clone(snap.Repositories)
	mc.snap = &snap
	return nil
}

// writeSnapshot replaces the file at path with snap encoded as JSON. The
// snapshot goes to a temporary file in the same directory, synced and renamed
// over path, so readers see either the old list or the new one.
func writeSnapshot(path string, snap Snapshot) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
