package ttl

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/searchcache-ai/searchcache/pkg/cache"
	"github.com/searchcache-ai/searchcache/pkg/models"
)

const (
	popularQueriesKey = cache.Namespace + "popular_queries"
	popularLimit      = 20
	popularWindowDays = 7
	popularRefreshTTL = time.Hour
)

// Aggregator is the analytics source for the top-queries aggregate.
type Aggregator interface {
	TopQueries(ctx context.Context, sinceDays, limit int) ([]models.QueryCount, error)
}

// QueryStore is the subset of the cache used to persist the popular set
// across restarts.
type QueryStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PopularTracker maintains the rolling set of most-frequent queries over the
// trailing week, refreshed lazily and cached for an hour. A failed refresh
// leaves the set empty so the classifier falls through to its other rules.
type PopularTracker struct {
	analytics Aggregator
	store     QueryStore // may be nil

	mu          sync.Mutex
	set         map[string]struct{}
	refreshedAt time.Time
}

// NewPopularTracker creates a tracker. store may be nil to keep the set
// process-local only.
func NewPopularTracker(analytics Aggregator, store QueryStore) *PopularTracker {
	return &PopularTracker{analytics: analytics, store: store}
}

// Contains reports whether the normalized query is currently popular.
func (t *PopularTracker) Contains(ctx context.Context, query string) bool {
	q := normalizeQuery(query)
	set := t.current(ctx)
	_, ok := set[q]
	return ok
}

// Queries returns the current popular set, refreshing it if stale.
func (t *PopularTracker) Queries(ctx context.Context) []string {
	set := t.current(ctx)
	out := make([]string, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	return out
}

// Invalidate forces a refresh on next use.
func (t *PopularTracker) Invalidate(ctx context.Context) {
	t.mu.Lock()
	t.set = nil
	t.refreshedAt = time.Time{}
	t.mu.Unlock()
	if t.store != nil {
		_ = t.store.Delete(ctx, popularQueriesKey)
	}
}

func (t *PopularTracker) current(ctx context.Context) map[string]struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.set != nil && time.Since(t.refreshedAt) < popularRefreshTTL {
		return t.set
	}

	if t.store != nil {
		if data, ok := t.store.Get(ctx, popularQueriesKey); ok {
			var queries []string
			if err := json.Unmarshal(data, &queries); err == nil {
				t.set = buildSet(queries)
				t.refreshedAt = time.Now()
				return t.set
			}
		}
	}

	queries := t.compute(ctx)
	t.set = buildSet(queries)
	t.refreshedAt = time.Now()

	if t.store != nil && len(queries) > 0 {
		if data, err := json.Marshal(queries); err == nil {
			if err := t.store.Set(ctx, popularQueriesKey, data, popularRefreshTTL); err != nil {
				log.Printf("popular queries: cache store: %v", err)
			}
		}
	}
	return t.set
}

func (t *PopularTracker) compute(ctx context.Context) []string {
	if t.analytics == nil {
		return nil
	}
	counts, err := t.analytics.TopQueries(ctx, popularWindowDays, popularLimit)
	if err != nil {
		log.Printf("popular queries: aggregate: %v", err)
		return nil
	}
	queries := make([]string, 0, len(counts))
	for _, qc := range counts {
		queries = append(queries, normalizeQuery(qc.Query))
	}
	return queries
}

func buildSet(queries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(queries))
	for _, q := range queries {
		set[normalizeQuery(q)] = struct{}{}
	}
	return set
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
