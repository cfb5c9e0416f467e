// Package sqlite implements the durable cache tier: a row-oriented store
// keyed by cache_key with explicit expiry timestamps.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a cache tier backed by SQLite.
type Store struct {
	db *sql.DB
}

// Expiry timestamps are stored as unix seconds so SQL-side comparisons are
// numeric and independent of driver time formatting.
const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	cache_key TEXT PRIMARY KEY,
	cache_value BLOB NOT NULL,
	expires_at INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache_entries(expires_at);
`

// New creates a Store with the given database path and runs auto-migration.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Store{db: db}, nil
}

// Get retrieves a cached value and its expiry. A physically present but
// expired row is reported as a miss.
func (s *Store) Get(ctx context.Context, key string) (value []byte, expiresAt time.Time, ok bool, err error) {
	var expires int64
	err = s.db.QueryRowContext(ctx,
		`SELECT cache_value, expires_at FROM cache_entries WHERE cache_key = ?`,
		key,
	).Scan(&value, &expires)

	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("cache get: %w", err)
	}
	if expires <= time.Now().Unix() {
		return nil, time.Time{}, false, nil
	}
	return value, time.Unix(expires, 0), true, nil
}

// Set upserts a value keyed by cache_key. Concurrent writers for the same key
// never produce duplicate rows; the last write wins.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (cache_key, cache_value, expires_at, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   cache_value = excluded.cache_value,
		   expires_at = excluded.expires_at,
		   created_at = excluded.created_at`,
		key, value, now.Add(ttl).Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a key; absent keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// DeletePattern removes every entry whose key matches a simple glob, where *
// matches any run of characters. Returns the number of rows removed.
func (s *Store) DeletePattern(ctx context.Context, glob string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE cache_key LIKE ? ESCAPE '\'`,
		globToLike(glob),
	)
	if err != nil {
		return 0, fmt.Errorf("cache delete pattern: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache delete pattern: %w", err)
	}
	return n, nil
}

// globToLike translates a glob into a LIKE pattern, escaping the LIKE
// metacharacters so only * is a wildcard.
func globToLike(glob string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return strings.ReplaceAll(r.Replace(glob), "*", "%")
}

// CleanExpired removes all rows whose expiry has passed and returns the count.
func (s *Store) CleanExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at <= ?`, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache clean expired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache clean expired: %w", err)
	}
	return n, nil
}

// Stats returns the physical row count and total value bytes.
func (s *Store) Stats(ctx context.Context) (entries, bytes int64, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(cache_value)), 0) FROM cache_entries`,
	).Scan(&entries, &bytes)
	if err != nil {
		return 0, 0, fmt.Errorf("cache stats: %w", err)
	}
	return entries, bytes, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
