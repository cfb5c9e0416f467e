package models

import "time"

// SearchOptions controls a single request to the search backend.
type SearchOptions struct {
	Limit                   int     `json:"limit" yaml:"limit"`
	IncludeAnswer           bool    `json:"include_answer" yaml:"include_answer"`
	AIInstructions          string  `json:"ai_instructions" yaml:"ai_instructions"`
	EnableAIReranking       bool    `json:"enable_ai_reranking" yaml:"enable_ai_reranking"`
	AIWeight                float64 `json:"ai_weight" yaml:"ai_weight"`
	AIRerankingInstructions string  `json:"ai_reranking_instructions" yaml:"ai_reranking_instructions"`
}

// Map returns the options as a plain map with stable field names, suitable
// for cache-key canonicalization.
func (o SearchOptions) Map() map[string]any {
	return map[string]any{
		"limit":                     o.Limit,
		"include_answer":            o.IncludeAnswer,
		"ai_instructions":           o.AIInstructions,
		"enable_ai_reranking":       o.EnableAIReranking,
		"ai_weight":                 o.AIWeight,
		"ai_reranking_instructions": o.AIRerankingInstructions,
	}
}

// ResultItem is a single normalized search result.
type ResultItem struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	URL           string         `json:"url"`
	Excerpt       string         `json:"excerpt,omitempty"`
	Score         float64        `json:"score"`
	Position      int            `json:"position"`
	Type          string         `json:"type,omitempty"`
	Date          string         `json:"date,omitempty"`
	Author        string         `json:"author,omitempty"`
	Categories    []string       `json:"categories,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	FeaturedImage string         `json:"featured_image,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
}

// SearchMetadata carries diagnostic information about one search.
// Error paths still populate Query and ResponseTimeMs so callers can always
// render a trace.
type SearchMetadata struct {
	Query          string         `json:"query"`
	TotalResults   int            `json:"total_results"`
	ResponseTimeMs int64          `json:"response_time_ms"`
	HasAnswer      bool           `json:"has_answer"`
	Answer         string         `json:"answer,omitempty"`
	Raw            map[string]any `json:"raw_metadata,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// SearchOutcome is the single result shape for both success and failure.
type SearchOutcome struct {
	Success    bool           `json:"success"`
	Results    []ResultItem   `json:"results"`
	Metadata   SearchMetadata `json:"metadata"`
	Error      string         `json:"error,omitempty"`
	StatusCode int            `json:"status_code,omitempty"`
	Cached     bool           `json:"cached,omitempty"`
}

// BatchSummary aggregates per-query counts for a batch search.
type BatchSummary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// BatchOutcome holds per-query outcomes keyed by the original query string.
type BatchOutcome struct {
	Success bool                     `json:"success"`
	Results map[string]SearchOutcome `json:"results"`
	Summary BatchSummary             `json:"summary"`
}
