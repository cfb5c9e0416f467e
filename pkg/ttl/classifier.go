// Package ttl chooses cache lifetimes for search results from observed query
// characteristics: popularity, recency sensitivity, navigational intent, and
// result cardinality.
package ttl

import (
	"context"
	"strings"
	"time"
)

// Durations defines the four cache lifetime buckets.
type Durations struct {
	Short     time.Duration
	Medium    time.Duration
	Long      time.Duration
	Permanent time.Duration
}

// DefaultDurations returns the standard bucket values.
func DefaultDurations() Durations {
	return Durations{
		Short:     60 * time.Second,
		Medium:    300 * time.Second,
		Long:      3600 * time.Second,
		Permanent: 86400 * time.Second,
	}
}

// Queries containing any of these are considered volatile and kept short-lived.
var timeSensitiveKeywords = []string{
	"latest", "new", "recent", "today", "news", "current", "now", "update",
}

// Queries containing any of these target structural site pages and are kept
// for a full day.
var navigationalKeywords = []string{
	"contact", "about", "login", "account", "career", "team", "location", "office",
}

// Classifier maps (query, result cardinality) to a cache lifetime.
type Classifier struct {
	durations Durations
	popular   *PopularTracker // may be nil
}

// NewClassifier creates a Classifier. Zero-valued buckets fall back to the
// defaults; popular may be nil to disable the popularity rule.
func NewClassifier(d Durations, popular *PopularTracker) *Classifier {
	def := DefaultDurations()
	if d.Short <= 0 {
		d.Short = def.Short
	}
	if d.Medium <= 0 {
		d.Medium = def.Medium
	}
	if d.Long <= 0 {
		d.Long = def.Long
	}
	if d.Permanent <= 0 {
		d.Permanent = def.Permanent
	}
	return &Classifier{durations: d, popular: popular}
}

// Classify returns the lifetime for a result set. Rule order is load-bearing:
// a popular query with zero results is still LONG because popularity is
// checked before the zero-results rule.
func (c *Classifier) Classify(ctx context.Context, query string, totalResults int) time.Duration {
	q := strings.ToLower(strings.TrimSpace(query))

	if c.popular != nil && c.popular.Contains(ctx, q) {
		return c.durations.Long
	}
	if containsAny(q, timeSensitiveKeywords) {
		return c.durations.Short
	}
	if containsAny(q, navigationalKeywords) {
		return c.durations.Permanent
	}
	if totalResults >= 10 {
		return c.durations.Long
	}
	if totalResults == 0 {
		return c.durations.Short
	}
	return c.durations.Medium
}

// containsAny reports whether s contains any keyword as a substring. Substring
// semantics are deliberate and can misfire on embedded words; that noise is
// accepted.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
