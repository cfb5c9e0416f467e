package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Namespace prefixes every cache key so entries can be distinguished from
// unrelated uses of the same store and purged by pattern.
const Namespace = "hybrid_search_"

// BuildKey returns a deterministic fingerprint for a query and its options.
// Identical inputs always produce the same key; options are canonicalized by
// JSON-marshalling the map, which sorts keys, so option order never matters.
func BuildKey(query string, options map[string]any) string {
	canonical, _ := json.Marshal(options)
	h := sha256.Sum256([]byte(query + "|" + string(canonical)))
	return Namespace + hex.EncodeToString(h[:])[:32]
}

// CTRKey returns the cache key for a query's click-through aggregate.
func CTRKey(query string) string {
	h := sha256.Sum256([]byte(query))
	return Namespace + "ctr_" + hex.EncodeToString(h[:])[:16]
}

// ShortHash returns a short stable hex digest, used to derive result IDs for
// backend items that arrive without one.
func ShortHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:8]
}
