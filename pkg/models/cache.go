package models

// CacheStats reports per-tier entry counts and approximate sizes plus
// process-wide hit/miss counters. Reporting only, never used to gate behavior.
type CacheStats struct {
	FastEntries    int64 `json:"fast_entries"`
	FastBytes      int64 `json:"fast_bytes"`
	DurableEntries int64 `json:"durable_entries"`
	DurableBytes   int64 `json:"durable_bytes"`
	Hits           int64 `json:"hits"`
	Misses         int64 `json:"misses"`
}
