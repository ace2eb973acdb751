package omnibox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bebanjo/omnibox/source"
)

// DefaultExpiration is how long a fetched repository list is served from cache.
const DefaultExpiration = 5 * time.Minute

// DefaultFallback is used when no list was ever fetched and fetching fails.
var DefaultFallback = []string{"movida", "sequence", "sheriff", "support", "tron"}

var _ CandidateSource = (*CachedSource)(nil)

// CachedSourceConfig configures a CachedSource.
type CachedSourceConfig struct {
	Fetch      source.ListFunc  // Acquires the list from its origin (required)
	Cache      Cache            // Last known list (nil = NewMemoryCache())
	Expiration time.Duration    // Cache lifetime (default DefaultExpiration)
	Fallback   []string         // Used with an empty cache and a failed fetch (nil = DefaultFallback)
	Now        func() time.Time // Clock (nil = time.Now)
	Logger     *slog.Logger     // Logger (nil = slog.Default())
}

// CachedSource serves repository names from a cache, refreshing it from the
// origin once expired. Load never fails: fetch errors fall back to the stale
// cached list, then to the fallback list.
type CachedSource struct {
	fetch      source.ListFunc
	cache      Cache
	expiration time.Duration
	fallback   []string
	now        func() time.Time
	log        *slog.Logger
	mu         sync.Mutex
}

// NewCachedSource creates a CachedSource.
func NewCachedSource(cfg CachedSourceConfig) (*CachedSource, error) {
	if cfg.Fetch == nil {
		return nil, fmt.Errorf("fetch function is required")
	}
	if cfg.Cache == nil {
		cfg.Cache = NewMemoryCache()
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = DefaultExpiration
	}
	if cfg.Fallback == nil {
		cfg.Fallback = DefaultFallback
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &CachedSource{
		fetch:      cfg.Fetch,
		cache:      cfg.Cache,
		expiration: cfg.Expiration,
		fallback:   slices.Clone(cfg.Fallback),
		now:        cfg.Now,
		log:        cfg.Logger,
	}, nil
}

// Load returns the current repository names.
func (cs *CachedSource) Load(ctx context.Context) ([]string, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	snap, err := cs.cache.Load(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		cs.log.Warn("read repository cache failed", "error", err)
	}
	if err == nil && len(snap.Repositories) > 0 && cs.now().Sub(snap.LastUpdated) <= cs.expiration {
		return snap.Repositories, nil
	}

	return cs.refresh(ctx, snap.Repositories), nil
}

// Refresh fetches the list from its origin regardless of the cache age. It
// reports the fetch error, if any, after applying the same fallbacks as Load.
func (cs *CachedSource) Refresh(ctx context.Context) ([]string, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	names, err := cs.fetch(ctx)
	if err == nil {
		cs.store(ctx, names)
		return names, nil
	}

	snap, cacheErr := cs.cache.Load(ctx)
	if cacheErr != nil {
		snap = Snapshot{}
	}
	return cs.recover(ctx, snap.Repositories, err), fmt.Errorf("fetch repositories: %w", err)
}

func (cs *CachedSource) refresh(ctx context.Context, stale []string) []string {
	names, err := cs.fetch(ctx)
	if err != nil {
		return cs.recover(ctx, stale, err)
	}
	cs.store(ctx, names)
	return names
}

// recover picks the stale list, re-stamped so the origin is not hammered
// while it is down, or the fallback list.
func (cs *CachedSource) recover(ctx context.Context, stale []string, fetchErr error) []string {
	if len(stale) > 0 {
		cs.log.Warn("fetch repositories failed, serving cached list", "error", fetchErr, "repositories", len(stale))
		cs.store(ctx, stale)
		return stale
	}
	cs.log.Warn("fetch repositories failed, serving fallback list", "error", fetchErr)
	return slices.Clone(cs.fallback)
}

func (cs *CachedSource) store(ctx context.Context, names []string) {
	snap := Snapshot{Repositories: names, LastUpdated: cs.now()}
	if err := cs.cache.Save(ctx, snap); err != nil {
		// Non-fatal: the list is still served from memory for this call
		cs.log.Warn("write repository cache failed", "error", err)
	}
}
