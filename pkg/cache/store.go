// Package cache provides the adaptive two-tier result cache: a fast
// in-process tier consulted first and a durable SQLite tier behind it.
package cache

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/searchcache-ai/searchcache/pkg/cache/memory"
	"github.com/searchcache-ai/searchcache/pkg/cache/sqlite"
	"github.com/searchcache-ai/searchcache/pkg/models"
)

// Store is the cache contract consumed by the orchestrator and the
// popularity tracker. Implementations must never return expired values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, glob string) (int64, error)
	CleanExpired(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (models.CacheStats, error)
	Close() error
}

// TieredStore reads the fast tier first and falls back to the durable tier,
// re-populating the fast tier with the durable entry's remaining TTL. Durable
// I/O failures degrade to misses rather than failing the caller.
type TieredStore struct {
	fast    *memory.Store
	durable *sqlite.Store // nil when durable caching is disabled

	hits   atomic.Int64
	misses atomic.Int64
}

// NewTiered creates a TieredStore. durable may be nil.
func NewTiered(fast *memory.Store, durable *sqlite.Store) *TieredStore {
	return &TieredStore{fast: fast, durable: durable}
}

// Get returns the cached value for key, consulting the fast tier first.
func (s *TieredStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, ok := s.fast.Get(key); ok {
		s.hits.Add(1)
		return value, true
	}

	if s.durable != nil {
		value, expiresAt, ok, err := s.durable.Get(ctx, key)
		if err != nil {
			log.Printf("cache: durable get %s: %v", key, err)
		} else if ok {
			// Backfill the fast tier with whatever lifetime remains.
			s.fast.Set(key, value, time.Until(expiresAt))
			s.hits.Add(1)
			return value, true
		}
	}

	s.misses.Add(1)
	return nil, false
}

// Set writes the value to both tiers.
func (s *TieredStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.fast.Set(key, value, ttl)
	if s.durable == nil {
		return nil
	}
	return s.durable.Set(ctx, key, value, ttl)
}

// Delete removes the key from both tiers.
func (s *TieredStore) Delete(ctx context.Context, key string) error {
	s.fast.Delete(key)
	if s.durable == nil {
		return nil
	}
	return s.durable.Delete(ctx, key)
}

// DeletePattern removes matching entries from both tiers. The returned count
// is the number of durable rows removed.
func (s *TieredStore) DeletePattern(ctx context.Context, glob string) (int64, error) {
	s.fast.DeletePattern(glob)
	if s.durable == nil {
		return 0, nil
	}
	return s.durable.DeletePattern(ctx, glob)
}

// CleanExpired removes expired durable rows and returns the count.
func (s *TieredStore) CleanExpired(ctx context.Context) (int64, error) {
	if s.durable == nil {
		return 0, nil
	}
	return s.durable.CleanExpired(ctx)
}

// Stats reports per-tier sizes and the process-wide hit/miss counters.
func (s *TieredStore) Stats(ctx context.Context) (models.CacheStats, error) {
	stats := models.CacheStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
	stats.FastEntries, stats.FastBytes = s.fast.Stats()

	if s.durable != nil {
		entries, bytes, err := s.durable.Stats(ctx)
		if err != nil {
			return stats, err
		}
		stats.DurableEntries, stats.DurableBytes = entries, bytes
	}
	return stats, nil
}

// Close releases the durable tier.
func (s *TieredStore) Close() error {
	if s.durable == nil {
		return nil
	}
	return s.durable.Close()
}
