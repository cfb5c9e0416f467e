// Package transport is the HTTP client used to reach the remote search
// backend. Retry policy lives here, not in the orchestrator.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/searchcache-ai/searchcache/pkg/config"
)

// maxBodyBytes caps how much of a backend response is read.
const maxBodyBytes = 10 << 20

// SearchRequest is the JSON payload posted to the backend.
type SearchRequest struct {
	Query                   string  `json:"query"`
	Limit                   int     `json:"limit"`
	IncludeAnswer           bool    `json:"include_answer"`
	AIInstructions          string  `json:"ai_instructions,omitempty"`
	EnableAIReranking       bool    `json:"enable_ai_reranking"`
	AIWeight                float64 `json:"ai_weight,omitempty"`
	AIRerankingInstructions string  `json:"ai_reranking_instructions,omitempty"`
}

// Response is the raw backend reply. Callers interpret the status code and
// body; the client only decides retries.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client posts search requests to the configured backend.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	maxRetries uint64
}

// New creates a Client from backend configuration.
func New(cfg config.BackendConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: uint64(retries),
	}
}

// PostSearch sends the request, retrying network errors and 5xx responses
// with exponential backoff. 4xx responses are returned without retry. A nil
// error with a non-2xx status means the backend answered and refused.
func (c *Client) PostSearch(ctx context.Context, req SearchRequest) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	var resp *Response
	op := func() error {
		r, err := c.do(ctx, payload)
		if err != nil {
			resp = nil
			return err
		}
		resp = r
		if r.StatusCode >= 500 {
			return fmt.Errorf("backend returned %d", r.StatusCode)
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if resp != nil {
			// Final attempt got a 5xx; surface the response so the caller
			// can carry the status code.
			return resp, nil
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, payload []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
