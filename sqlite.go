package omnibox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var _ Cache = (*SQLiteCache)(nil)

// CacheDBName is the name of the SQLite cache database inside the cache directory.
const CacheDBName = "repositories.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS repositories (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS refreshes (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	last_updated INTEGER NOT NULL
);`

// SQLiteCache implements Cache with a SQLite database. The repository list
// keeps its order through the position column.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (creating if needed) the database at path.
func NewSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create directory for %s: %w", path, err)
	}

	dsn, err := buildSQLiteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite cache: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// buildSQLiteDSN returns a file URI for path. The path is made absolute so
// its first element is never read as the URI authority.
func buildSQLiteDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + filepath.ToSlash(abs)
	}
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(abs),
	}
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(3000)")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Load reads the cached repository list.
func (sc *SQLiteCache) Load(ctx context.Context) (Snapshot, error) {
	var updated int64
	err := sc.db.QueryRowContext(ctx, `SELECT last_updated FROM refreshes WHERE id = 1`).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("repository cache: %w", ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("query refresh time: %w", err)
	}

	rows, err := sc.db.QueryContext(ctx, `SELECT name FROM repositories ORDER BY position`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query repositories: %w", err)
	}
	defer rows.Close()

	snap := Snapshot{
		Repositories: []string{},
		LastUpdated:  time.UnixMilli(updated),
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return Snapshot{}, fmt.Errorf("scan repository: %w", err)
		}
		snap.Repositories = append(snap.Repositories, name)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate repositories: %w", err)
	}
	return snap, nil
}

// Save replaces the cached repository list in a single transaction.
func (sc *SQLiteCache) Save(ctx context.Context, snap Snapshot) error {
	tx, err := sc.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM repositories`); err != nil {
		return fmt.Errorf("clear repositories: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO repositories (position, name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, name := range snap.Repositories {
		if _, err := stmt.ExecContext(ctx, i, name); err != nil {
			return fmt.Errorf("insert repository %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO refreshes (id, last_updated) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET last_updated = excluded.last_updated`,
		snap.LastUpdated.UnixMilli()); err != nil {
		return fmt.Errorf("store refresh time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the database.
func (sc *SQLiteCache) Close() error {
	return sc.db.Close()
}
