// Package search orchestrates the request pipeline: validate, cache lookup,
// backend call, response normalization, write-through.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/searchcache-ai/searchcache/pkg/cache"
	"github.com/searchcache-ai/searchcache/pkg/config"
	"github.com/searchcache-ai/searchcache/pkg/models"
	"github.com/searchcache-ai/searchcache/pkg/transport"
	"github.com/searchcache-ai/searchcache/pkg/ttl"
)

// maxQueryLength bounds sanitized queries.
const maxQueryLength = 255

// Backend is the transport used to reach the remote search service.
type Backend interface {
	PostSearch(ctx context.Context, req transport.SearchRequest) (*transport.Response, error)
}

// Recorder persists search-log records. Recording failures never fail a
// request.
type Recorder interface {
	RecordSearch(ctx context.Context, rec models.SearchRecord) error
}

// Service is the search orchestrator.
type Service struct {
	cfg        *config.Config
	store      cache.Store
	classifier *ttl.Classifier
	backend    Backend
	analytics  Recorder // may be nil

	coalesce bool
	sf       singleflight.Group
}

// New creates a Service. analytics may be nil.
func New(cfg *config.Config, store cache.Store, classifier *ttl.Classifier, backend Backend, analytics Recorder) *Service {
	return &Service{
		cfg:        cfg,
		store:      store,
		classifier: classifier,
		backend:    backend,
		analytics:  analytics,
		coalesce:   cfg.Search.Coalesce,
	}
}

// Search runs one query through the pipeline. It never panics and never
// returns an error: every failure is expressed in the outcome.
func (s *Service) Search(ctx context.Context, query string, opts map[string]any) models.SearchOutcome {
	start := time.Now()

	if strings.TrimSpace(query) == "" {
		return failureOutcome(query, "Invalid search query", 0, time.Since(start))
	}

	q := sanitizeQuery(query)
	if q == "" {
		return failureOutcome(query, "Invalid search query", 0, time.Since(start))
	}
	if len(q) > maxQueryLength {
		return failureOutcome(q, fmt.Sprintf("Search query too long (max %d characters)", maxQueryLength), 0, time.Since(start))
	}

	merged := s.mergeOptions(opts)
	key := cache.BuildKey(q, merged.Map())

	if data, ok := s.store.Get(ctx, key); ok {
		var out models.SearchOutcome
		if err := json.Unmarshal(data, &out); err == nil {
			out.Cached = true
			return out
		}
		// Unreadable entry: drop it and fetch fresh.
		_ = s.store.Delete(ctx, key)
	}

	if s.coalesce {
		v, _, _ := s.sf.Do(key, func() (any, error) {
			return s.fetch(ctx, q, merged, key, start), nil
		})
		return v.(models.SearchOutcome)
	}
	return s.fetch(ctx, q, merged, key, start)
}

// fetch performs the backend call and write-through. Any panic in this region
// is contained and converted into a failure outcome so one query cannot take
// down a batch.
func (s *Service) fetch(ctx context.Context, q string, opts models.SearchOptions, key string, start time.Time) (out models.SearchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("search: recovered from panic for %q: %v", q, r)
			out = failureOutcome(q, fmt.Sprintf("internal error: %v", r), 0, time.Since(start))
		}
	}()

	resp, err := s.backend.PostSearch(ctx, transport.SearchRequest{
		Query:                   q,
		Limit:                   opts.Limit,
		IncludeAnswer:           opts.IncludeAnswer,
		AIInstructions:          opts.AIInstructions,
		EnableAIReranking:       opts.EnableAIReranking,
		AIWeight:                opts.AIWeight,
		AIRerankingInstructions: opts.AIRerankingInstructions,
	})
	elapsed := time.Since(start)

	if err != nil {
		return failureOutcome(q, err.Error(), 0, elapsed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failureOutcome(q, backendErrorMessage(resp.StatusCode, resp.Body), resp.StatusCode, elapsed)
	}

	out, err = normalize(q, resp.Body, elapsed)
	if err != nil {
		// Log the body length only, never the body.
		log.Printf("search: malformed backend response for %q (%d bytes): %v", q, len(resp.Body), err)
		return failureOutcome(q, "Malformed backend response", resp.StatusCode, elapsed)
	}
	out.StatusCode = resp.StatusCode

	lifetime := s.classifier.Classify(ctx, q, out.Metadata.TotalResults)
	if data, err := json.Marshal(out); err == nil {
		if err := s.store.Set(ctx, key, data, lifetime); err != nil {
			log.Printf("search: cache store for %q: %v", q, err)
		}
	}

	if s.analytics != nil {
		rec := models.SearchRecord{
			Query:          q,
			TotalResults:   out.Metadata.TotalResults,
			ResponseTimeMs: elapsed.Milliseconds(),
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.analytics.RecordSearch(ctx, rec); err != nil {
			log.Printf("search: record search log: %v", err)
		}
	}

	return out
}

// BatchSearch runs each query independently through the single-query path.
// One query's failure never aborts the batch.
func (s *Service) BatchSearch(ctx context.Context, queries []string, opts map[string]any) models.BatchOutcome {
	out := models.BatchOutcome{
		Results: make(map[string]models.SearchOutcome, len(queries)),
	}

	for _, q := range queries {
		res := s.Search(ctx, q, opts)
		out.Results[q] = res
		out.Summary.Total++
		if res.Success {
			out.Summary.Successful++
		} else {
			out.Summary.Failed++
			out.Summary.Errors = append(out.Summary.Errors, fmt.Sprintf("%s: %s", q, res.Error))
		}
	}

	out.Success = len(out.Summary.Errors) == 0
	return out
}

// mergeOptions overlays caller-supplied options on the configured defaults,
// field by field.
func (s *Service) mergeOptions(opts map[string]any) models.SearchOptions {
	merged := s.cfg.Search.Defaults

	if v, ok := opts["limit"]; ok {
		merged.Limit = toInt(v, merged.Limit)
	}
	if v, ok := opts["include_answer"]; ok {
		merged.IncludeAnswer = toBool(v, merged.IncludeAnswer)
	}
	if v, ok := opts["ai_instructions"]; ok {
		merged.AIInstructions = toString(v, merged.AIInstructions)
	}
	if v, ok := opts["enable_ai_reranking"]; ok {
		merged.EnableAIReranking = toBool(v, merged.EnableAIReranking)
	}
	if v, ok := opts["ai_weight"]; ok {
		merged.AIWeight = toFloat(v, merged.AIWeight)
	}
	if v, ok := opts["ai_reranking_instructions"]; ok {
		merged.AIRerankingInstructions = toString(v, merged.AIRerankingInstructions)
	}
	return merged
}

func failureOutcome(query, errMsg string, statusCode int, elapsed time.Duration) models.SearchOutcome {
	return models.SearchOutcome{
		Success:    false,
		Results:    []models.ResultItem{},
		Error:      errMsg,
		StatusCode: statusCode,
		Metadata: models.SearchMetadata{
			Query:          query,
			ResponseTimeMs: elapsed.Milliseconds(),
			Timestamp:      time.Now().UTC(),
		},
	}
}

// Caller options arrive as loosely typed values, typically decoded from JSON,
// so numbers may be float64.

func toInt(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

func toFloat(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return fallback
}

func toBool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func toString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}
