package search

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/searchcache-ai/searchcache/pkg/cache"
	"github.com/searchcache-ai/searchcache/pkg/models"
)

// rawPayload mirrors the backend response body. Fields are optional and the
// answer may arrive either nested in metadata (current backends) or at the
// root (legacy shape).
type rawPayload struct {
	Results      []rawResult     `json:"results"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	Answer       string          `json:"answer,omitempty"`
	TotalResults *int            `json:"total_results,omitempty"`
}

type rawMetadata struct {
	TotalResults *int   `json:"total_results,omitempty"`
	Answer       string `json:"answer,omitempty"`
}

type rawResult struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	URL           string         `json:"url"`
	Excerpt       string         `json:"excerpt"`
	Score         float64        `json:"score"`
	Type          string         `json:"type"`
	Date          string         `json:"date"`
	Author        string         `json:"author"`
	Categories    []string       `json:"categories"`
	Tags          []string       `json:"tags"`
	FeaturedImage string         `json:"featured_image"`
	Meta          map[string]any `json:"meta"`
}

// normalize maps a raw backend body, legacy or current shape, into the single
// internal outcome type.
func normalize(query string, body []byte, elapsed time.Duration) (models.SearchOutcome, error) {
	var raw rawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.SearchOutcome{}, fmt.Errorf("decode backend response: %w", err)
	}

	items := make([]models.ResultItem, 0, len(raw.Results))
	for i, rr := range raw.Results {
		// Entries without a title or URL are unusable and dropped.
		if rr.Title == "" || rr.URL == "" {
			continue
		}
		id := sanitizeID(rr.ID)
		if id == "" {
			// Stable for unlabeled results given a stable URL and position.
			id = fmt.Sprintf("result_%s_%d", cache.ShortHash(rr.URL), i)
		}
		items = append(items, models.ResultItem{
			ID:            id,
			Title:         rr.Title,
			URL:           rr.URL,
			Excerpt:       rr.Excerpt,
			Score:         rr.Score,
			Position:      i + 1,
			Type:          rr.Type,
			Date:          rr.Date,
			Author:        rr.Author,
			Categories:    rr.Categories,
			Tags:          rr.Tags,
			FeaturedImage: rr.FeaturedImage,
			Meta:          rr.Meta,
		})
	}

	var meta rawMetadata
	var rawMeta map[string]any
	if len(raw.Metadata) > 0 {
		// Tolerate junk metadata; results are still usable without it.
		_ = json.Unmarshal(raw.Metadata, &meta)
		_ = json.Unmarshal(raw.Metadata, &rawMeta)
	}

	// The nested answer wins over the legacy root field when both are present.
	answer := meta.Answer
	if answer == "" {
		answer = raw.Answer
	}

	total := len(items)
	switch {
	case meta.TotalResults != nil:
		total = *meta.TotalResults
	case raw.TotalResults != nil:
		total = *raw.TotalResults
	}

	return models.SearchOutcome{
		Success: true,
		Results: items,
		Metadata: models.SearchMetadata{
			Query:          query,
			TotalResults:   total,
			ResponseTimeMs: elapsed.Milliseconds(),
			HasAnswer:      answer != "",
			Answer:         answer,
			Raw:            rawMeta,
			Timestamp:      time.Now().UTC(),
		},
	}, nil
}

// backendErrorMessage extracts a human-readable error from a non-2xx body.
func backendErrorMessage(statusCode int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("backend returned status %d", statusCode)
}
