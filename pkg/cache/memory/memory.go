// Package memory implements the fast cache tier: an in-process LRU with
// per-entry expiry, suitable for hot-path reads.
package memory

import (
	"path"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store is a bounded in-memory cache. Expired entries are skipped lazily on
// read and removed on sight; the LRU bound caps total memory.
type Store struct {
	lru *lru.Cache[string, entry]
}

// New creates a Store holding at most capacity entries.
func New(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = 1024
	}
	c, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{lru: c}, nil
}

// Get returns the value for key, or false if absent or expired.
func (s *Store) Get(key string) ([]byte, bool) {
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !e.expiresAt.After(time.Now()) {
		s.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. Non-positive TTLs are dropped.
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.lru.Add(key, entry{value: value, expiresAt: time.Now().Add(ttl)})
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.lru.Remove(key)
}

// DeletePattern removes entries whose key matches the glob and returns the
// count removed. An unparsable glob matches nothing.
func (s *Store) DeletePattern(glob string) int64 {
	var removed int64
	for _, key := range s.lru.Keys() {
		if ok, err := path.Match(glob, key); err == nil && ok {
			s.lru.Remove(key)
			removed++
		}
	}
	return removed
}

// Purge drops every entry.
func (s *Store) Purge() {
	s.lru.Purge()
}

// Stats returns the live entry count and approximate byte size, skipping
// entries that have expired but not yet been evicted.
func (s *Store) Stats() (entries, bytes int64) {
	now := time.Now()
	for _, key := range s.lru.Keys() {
		e, ok := s.lru.Peek(key)
		if !ok || !e.expiresAt.After(now) {
			continue
		}
		entries++
		bytes += int64(len(e.value))
	}
	return entries, bytes
}
