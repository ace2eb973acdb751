package omnibox

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestSQLiteCache(t *testing.T) (*SQLiteCache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), CacheDBName)
	sc, err := NewSQLiteCache(context.Background(), path)
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	t.Cleanup(func() { sc.Close() })
	return sc, path
}

func TestSQLiteCacheLoadEmpty(t *testing.T) {
	sc, _ := newTestSQLiteCache(t)

	_, err := sc.Load(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteCacheSaveAndLoad(t *testing.T) {
	sc, _ := newTestSQLiteCache(t)
	ctx := context.Background()

	now := time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC)
	names := []string{"tron", "movida", "sequence"}
	if err := sc.Save(ctx, Snapshot{Repositories: names, LastUpdated: now}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := sc.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Repositories) != len(names) {
		t.Fatalf("Repositories = %v, want %v", got.Repositories, names)
	}
	for i := range names {
		if got.Repositories[i] != names[i] {
			t.Errorf("Repositories[%d] = %q, want %q", i, got.Repositories[i], names[i])
		}
	}
	if !got.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", got.LastUpdated, now)
	}
}

func TestSQLiteCacheSaveReplaces(t *testing.T) {
	sc, _ := newTestSQLiteCache(t)
	ctx := context.Background()

	sc.Save(ctx, Snapshot{Repositories: []string{"a", "b", "c"}, LastUpdated: time.UnixMilli(1000)})
	if err := sc.Save(ctx, Snapshot{Repositories: []string{"d"}, LastUpdated: time.UnixMilli(2000)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := sc.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Repositories) != 1 || got.Repositories[0] != "d" {
		t.Errorf("Repositories = %v, want [d]", got.Repositories)
	}
	if got.LastUpdated.UnixMilli() != 2000 {
		t.Errorf("LastUpdated = %d, want 2000", got.LastUpdated.UnixMilli())
	}
}

func TestSQLiteCachePersists(t *testing.T) {
	sc, path := newTestSQLiteCache(t)
	ctx := context.Background()

	if err := sc.Save(ctx, Snapshot{Repositories: []string{"movida"}, LastUpdated: time.UnixMilli(5000)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	sc.Close()

	reopened, err := NewSQLiteCache(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Repositories) != 1 || got.Repositories[0] != "movida" {
		t.Errorf("Repositories = %v, want [movida]", got.Repositories)
	}
}

func TestSQLiteCacheRelativePath(t *testing.T) {
	t.Chdir(t.TempDir())
	ctx := context.Background()

	sc, err := NewSQLiteCache(ctx, filepath.Join("cache", CacheDBName))
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	defer sc.Close()

	if err := sc.Save(ctx, Snapshot{Repositories: []string{"movida"}, LastUpdated: time.Now()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, err := sc.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Repositories) != 1 || snap.Repositories[0] != "movida" {
		t.Errorf("Repositories = %v, want [movida]", snap.Repositories)
	}
}

func TestBuildSQLiteDSN(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, path := range []string{"cache/repositories.db", "/var/cache/omnibox/repositories.db"} {
		dsn, err := buildSQLiteDSN(path)
		if err != nil {
			t.Fatalf("buildSQLiteDSN(%q): %v", path, err)
		}
		if !strings.HasPrefix(dsn, "file:///") {
			t.Errorf("buildSQLiteDSN(%q) = %q, want an empty authority", path, dsn)
		}
		if !strings.Contains(dsn, "repositories.db?") {
			t.Errorf("buildSQLiteDSN(%q) = %q, missing database name", path, dsn)
		}
	}
}
