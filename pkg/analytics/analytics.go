// Package analytics persists search-log and click-through records and serves
// the aggregates the popularity tracker and CTR reporting consume.
package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/searchcache-ai/searchcache/pkg/cache"
	"github.com/searchcache-ai/searchcache/pkg/models"
)

// CacheStore is the subset of the cache used for click-through aggregates.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Store records and queries search activity in SQLite.
type Store struct {
	db    *sql.DB
	cache CacheStore // may be nil
}

const createSearchTable = `
CREATE TABLE IF NOT EXISTS search_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	total_results INTEGER NOT NULL,
	response_time_ms INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_search_query_time ON search_records(query, created_at);
`

const createClickTable = `
CREATE TABLE IF NOT EXISTS click_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	result_id TEXT NOT NULL,
	url TEXT NOT NULL,
	position INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_click_query ON click_records(query);
`

// ctrTTL is how long a click-through aggregate stays cached.
const ctrTTL = 10 * time.Minute

// New creates a Store and runs auto-migration.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	if _, err := db.Exec(createSearchTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate search records: %w", err)
	}
	if _, err := db.Exec(createClickTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate click records: %w", err)
	}

	return &Store{db: db}, nil
}

// SetCache attaches a cache for click-through aggregates.
func (s *Store) SetCache(c CacheStore) {
	s.cache = c
}

// RecordSearch stores one search-log record.
func (s *Store) RecordSearch(ctx context.Context, rec models.SearchRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_records (query, total_results, response_time_ms, created_at)
		 VALUES (?, ?, ?, ?)`,
		rec.Query, rec.TotalResults, rec.ResponseTimeMs, createdAt,
	)
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// RecordClick stores one click-through record.
func (s *Store) RecordClick(ctx context.Context, rec models.ClickRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO click_records (query, result_id, url, position, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Query, rec.ResultID, rec.URL, rec.Position, createdAt,
	)
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

// TopQueries returns the most frequent normalized queries over the trailing
// sinceDays window, highest count first.
func (s *Store) TopQueries(ctx context.Context, sinceDays, limit int) ([]models.QueryCount, error) {
	since := time.Now().UTC().AddDate(0, 0, -sinceDays)
	rows, err := s.db.QueryContext(ctx,
		`SELECT LOWER(TRIM(query)) AS q, COUNT(*) AS c
		 FROM search_records
		 WHERE created_at >= ?
		 GROUP BY q
		 ORDER BY c DESC, q ASC
		 LIMIT ?`,
		since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	defer rows.Close()

	var counts []models.QueryCount
	for rows.Next() {
		var qc models.QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("top queries: %w", err)
		}
		counts = append(counts, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	return counts, nil
}

// ClickThrough returns the click-through aggregate for a query, cached under
// the hybrid_search_ctr_ namespace when a cache is attached.
func (s *Store) ClickThrough(ctx context.Context, query string) (models.ClickThroughStat, error) {
	key := cache.CTRKey(query)

	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, key); ok {
			var stat models.ClickThroughStat
			if err := json.Unmarshal(data, &stat); err == nil {
				return stat, nil
			}
		}
	}

	stat := models.ClickThroughStat{Query: query}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_records WHERE query = ?`, query,
	).Scan(&stat.Searches)
	if err != nil {
		return stat, fmt.Errorf("click through: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM click_records WHERE query = ?`, query,
	).Scan(&stat.Clicks)
	if err != nil {
		return stat, fmt.Errorf("click through: %w", err)
	}
	if stat.Searches > 0 {
		stat.Rate = float64(stat.Clicks) / float64(stat.Searches)
	}

	if s.cache != nil {
		if data, err := json.Marshal(stat); err == nil {
			_ = s.cache.Set(ctx, key, data, ctrTTL)
		}
	}
	return stat, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
