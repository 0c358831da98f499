package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/pkg/filesystem"
	"github.com/doeshing/iop/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	model TEXT NOT NULL,
	query TEXT NOT NULL,
	response TEXT NOT NULL,
	timestamp REAL NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_query_model ON responses(model, query);`

// SQLiteCache stores completions in a SQLite file keyed by (model, query).
// The database is opened and closed inside every call; no handle outlives an operation.
type SQLiteCache struct {
	path string
	now  func() time.Time
}

// NewSQLiteCache returns a cache backed by <config dir>/cache.db.
func NewSQLiteCache() *SQLiteCache {
	return NewSQLiteCacheAt(filepath.Join(filesystem.ConfigDir(), "cache.db"))
}

// NewSQLiteCacheAt returns a cache backed by the file at path.
func NewSQLiteCacheAt(path string) *SQLiteCache {
	return &SQLiteCache{path: path, now: time.Now}
}

// Path returns the sqlite database path.
func (c *SQLiteCache) Path() string {
	return c.path
}

// Get returns the cached response when its age does not exceed maxAge.
// Stale rows are reported as misses and left in place.
func (c *SQLiteCache) Get(ctx context.Context, model, query string, maxAge time.Duration) (string, bool, error) {
	var (
		response string
		ts       float64
	)
	err := c.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			"SELECT response, timestamp FROM responses WHERE model = ? AND query = ?",
			model, query,
		).Scan(&response, &ts)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache: %w", err)
	}
	entry := domain.CacheEntry{Response: response, Timestamp: fromEpoch(ts)}
	if entry.Expired(c.now(), maxAge) {
		return "", false, nil
	}
	return response, true, nil
}

// Put upserts the response for (model, query) stamped with the current time.
func (c *SQLiteCache) Put(ctx context.Context, model, query, response string) error {
	err := c.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `INSERT INTO responses (model, query, response, timestamp)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(model, query) DO UPDATE SET response = excluded.response, timestamp = excluded.timestamp`,
			model, query, response, toEpoch(c.now()),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Entries lists every row, newest first, including stale ones.
func (c *SQLiteCache) Entries(ctx context.Context) ([]domain.CacheEntry, error) {
	var entries []domain.CacheEntry
	err := c.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, "SELECT model, query, response, timestamp FROM responses ORDER BY timestamp DESC")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				entry domain.CacheEntry
				ts    float64
			)
			if err := rows.Scan(&entry.Model, &entry.Query, &entry.Response, &ts); err != nil {
				return err
			}
			entry.Timestamp = fromEpoch(ts)
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list cache: %w", err)
	}
	return entries, nil
}

// Prune deletes rows older than maxAge and returns how many were removed.
func (c *SQLiteCache) Prune(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := toEpoch(c.now().Add(-maxAge))
	var removed int64
	err := c.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, "DELETE FROM responses WHERE timestamp < ?", cutoff)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return int(removed), nil
}

// Clear deletes all cached responses.
func (c *SQLiteCache) Clear(ctx context.Context) error {
	err := c.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, "DELETE FROM responses")
		return err
	})
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

func (c *SQLiteCache) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	if err := os.MkdirAll(filepath.Dir(c.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return fn(db)
}

func toEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromEpoch(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

var _ ports.CacheRepository = (*SQLiteCache)(nil)
