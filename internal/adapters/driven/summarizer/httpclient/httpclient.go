// Package httpclient implements driven.Summarizer as a plain HTTP POST
// to an external summarization endpoint, treated as a black-box
// collaborator per spec.md's explicit framing. Grounded on the
// teacher's internal/adapters/driven/ai/openai_embedding.go
// (HTTP-call-with-timeout-and-JSON shape), generalized from an
// embeddings call to a single summarize call.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

var _ driven.Summarizer = (*Client)(nil)

// Config holds the summarizer endpoint configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DefaultConfig returns the spec's default 30s generate timeout.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{BaseURL: baseURL, APIKey: apiKey, Timeout: 30 * time.Second}
}

// Client talks to the external summarizer over net/http.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type summarizeRequest struct {
	Query     string                     `json:"query"`
	Results   []driven.SummaryResultRef `json:"results"`
	MaxLength int                        `json:"max_length"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

// Summarize posts (query, results, max_length) to the summarizer
// endpoint and returns its summary text.
func (c *Client) Summarize(ctx context.Context, req driven.SummaryRequest) (string, error) {
	body, err := json.Marshal(summarizeRequest{
		Query:     req.Query,
		Results:   req.Results,
		MaxLength: req.MaxLength,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/summarize", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("summarizer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("summarizer returned %s: %s", resp.Status, string(respBody))
	}

	var out summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("summarizer error: %s", out.Error)
	}
	return out.Summary, nil
}

// Ping verifies the summarizer endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("summarizer ping failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("summarizer unhealthy: %s", resp.Status)
	}
	return nil
}
