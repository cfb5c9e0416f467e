package models

import "time"

// QueryCount is one row of the top-queries aggregate.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// SearchRecord logs one completed backend search.
type SearchRecord struct {
	ID             int64     `json:"id"`
	Query          string    `json:"query"`
	TotalResults   int       `json:"total_results"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// ClickRecord logs a click on a search result.
type ClickRecord struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	ResultID  string    `json:"result_id"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// ClickThroughStat aggregates clicks against searches for one query.
type ClickThroughStat struct {
	Query    string  `json:"query"`
	Searches int64   `json:"searches"`
	Clicks   int64   `json:"clicks"`
	Rate     float64 `json:"rate"`
}
