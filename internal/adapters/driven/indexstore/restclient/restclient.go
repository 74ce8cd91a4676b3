// Package restclient talks to the external inverted-index engine over
// hand-rolled net/http + encoding/json, the same way the teacher talks
// to Vespa in internal/adapters/driven/vespa/search_engine.go. No
// OpenSearch/Elasticsearch client library exists anywhere in the
// retrieved pack, so this mirrors the teacher's own idiom (raw REST,
// not an engine SDK) rather than introducing an ungrounded dependency.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

var _ driven.IndexStore = (*Client)(nil)

// Config holds the index store connection configuration.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetentionDays int
}

// DefaultConfig returns sensible defaults for baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{BaseURL: baseURL, Timeout: 30 * time.Second, RetentionDays: 90}
}

// Client implements driven.IndexStore against a search-engine HTTP API
// exposing index templates, index/alias management, bulk, multi-get
// and search — the exact six wire operations of spec §6.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retention  int
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retention:  cfg.RetentionDays,
	}
}

// EnsureTemplate PUTs the index template covering documents-* and
// chunks-* with the field mappings from spec §6, replacing any
// existing template of the same name.
func (c *Client) EnsureTemplate(ctx context.Context) error {
	body := map[string]any{
		"index_patterns": []string{"documents-*", "chunks-*"},
		"template": map[string]any{
			"mappings": map[string]any{
				"properties": map[string]any{
					"document_id":        map[string]string{"type": "keyword"},
					"url":                map[string]string{"type": "keyword"},
					"title":              map[string]any{"type": "text", "fields": map[string]any{"raw": map[string]string{"type": "keyword"}, "completion": map[string]string{"type": "completion"}}},
					"domain":             map[string]string{"type": "keyword"},
					"description":        map[string]string{"type": "text"},
					"content_type":       map[string]string{"type": "keyword"},
					"categories":         map[string]string{"type": "keyword"},
					"keywords":           map[string]string{"type": "keyword"},
					"canonical_url":      map[string]any{"type": "keyword", "index": false},
					"published_date":     map[string]string{"type": "date"},
					"modified_date":      map[string]string{"type": "date"},
					"text_chunk":         map[string]any{"type": "text", "analyzer": "lowercase_stop_stem"},
					"headings":           map[string]string{"type": "text"},
					"domain_score":       map[string]string{"type": "half_float"},
					"quality_score":      map[string]string{"type": "half_float"},
					"word_count":         map[string]string{"type": "integer"},
					"content_categories": map[string]string{"type": "keyword"},
				},
			},
		},
	}
	return c.put(ctx, "/_index_template/search_core", body)
}

// EnsureDailyIndices creates today's documents-{date}/chunks-{date}
// indices if absent and points the base aliases at them.
func (c *Client) EnsureDailyIndices(ctx context.Context, date string) error {
	for _, base := range []string{"documents", "chunks"} {
		index := fmt.Sprintf("%s-%s", base, date)
		if err := c.createIndexIfAbsent(ctx, index); err != nil {
			return fmt.Errorf("create index %s: %w", index, err)
		}
		if err := c.pointAlias(ctx, base, index); err != nil {
			return fmt.Errorf("point alias %s: %w", base, err)
		}
	}
	return nil
}

func (c *Client) createIndexIfAbsent(ctx context.Context, index string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/"+index, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return c.put(ctx, "/"+index, map[string]any{})
}

func (c *Client) pointAlias(ctx context.Context, alias, index string) error {
	body := map[string]any{
		"actions": []map[string]any{
			{"add": map[string]string{"index": index, "alias": alias}},
		},
	}
	return c.post(ctx, "/_aliases", body)
}

// EnsureRetentionPolicy creates a hot->delete lifecycle policy at
// retentionDays. If the cluster does not support policies the caller
// logs and continues — this method simply surfaces the error.
func (c *Client) EnsureRetentionPolicy(ctx context.Context, retentionDays int) error {
	if retentionDays <= 0 {
		retentionDays = c.retention
	}
	body := map[string]any{
		"policy": map[string]any{
			"phases": map[string]any{
				"hot":    map[string]any{"min_age": "0ms", "actions": map[string]any{}},
				"delete": map[string]any{"min_age": fmt.Sprintf("%dd", retentionDays), "actions": map[string]any{"delete": map[string]any{}}},
			},
		},
	}
	return c.put(ctx, "/_ilm/policy/search_core_retention", body)
}

// bulkAction is one NDJSON action/source pair of a _bulk request.
type bulkAction struct {
	Index struct {
		Index string `json:"_index"`
		ID    string `json:"_id"`
	} `json:"index"`
}

// Bulk submits actions as newline-delimited index/source pairs against
// the engine's _bulk endpoint, per spec §6 item 4.
func (c *Client) Bulk(ctx context.Context, actions []driven.BulkAction) ([]driven.BulkItemResult, error) {
	if len(actions) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	for _, a := range actions {
		var action bulkAction
		action.Index.Index = a.Index
		action.Index.ID = a.ID
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return nil, err
		}
		if err := json.NewEncoder(&buf).Encode(a.Source); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/_bulk", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bulk request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bulk call rejected: %s - %s", resp.Status, string(respBody))
	}

	var bulkResp struct {
		Items []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  *struct {
					Reason string `json:"reason"`
				} `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return nil, err
	}

	results := make([]driven.BulkItemResult, 0, len(bulkResp.Items))
	for _, item := range bulkResp.Items {
		r := driven.BulkItemResult{ID: item.Index.ID, Success: item.Index.Status < 300}
		if item.Index.Error != nil {
			r.Error = item.Index.Error.Reason
		}
		results = append(results, r)
	}
	return results, nil
}

// MultiGet fetches documents by id from the documents alias.
func (c *Client) MultiGet(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	result := make(map[string]*domain.Document, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	body := map[string]any{"ids": ids}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/_mget", bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("multi-get request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("multi-get failed: %s - %s", resp.Status, string(respBody))
	}

	var mgetResp struct {
		Docs []struct {
			ID     string          `json:"_id"`
			Found  bool            `json:"found"`
			Source domain.Document `json:"_source"`
		} `json:"docs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mgetResp); err != nil {
		return nil, err
	}

	for _, doc := range mgetResp.Docs {
		if !doc.Found {
			continue
		}
		d := doc.Source
		result[doc.ID] = &d
	}
	return result, nil
}

// SearchChunks issues the bool-should/multi-match query of spec §4.8
// against the chunks alias. fallback requests the relaxed
// minimum_should_match=1 shape used when the primary query is empty.
func (c *Client) SearchChunks(ctx context.Context, query string, size int, fallback bool) ([]driven.SearchHit, error) {
	var q map[string]any
	if fallback {
		q = map[string]any{
			"bool": map[string]any{
				"should": []map[string]any{
					{"match": map[string]any{"title": map[string]any{"query": query, "boost": 2.5}}},
					{"match": map[string]any{"text_chunk": query}},
					{"wildcard": map[string]any{"url": fmt.Sprintf("*%s*", strings.ToLower(query))}},
				},
				"minimum_should_match": 1,
			},
		}
	} else {
		q = map[string]any{
			"bool": map[string]any{
				"should": []map[string]any{
					{"multi_match": map[string]any{
						"query":     query,
						"fuzziness": "AUTO",
						"fields":    []string{"text_chunk^1.5", "headings^3.0", "keywords^2.0", "title^2.5"},
					}},
					{"match_phrase": map[string]any{"text_chunk": map[string]any{"query": query, "boost": 2.0}}},
				},
			},
		}
	}

	body := map[string]any{
		"size":  size,
		"query": q,
		"sort": []any{
			"_score",
			map[string]any{"quality_score": "desc"},
			map[string]any{"domain_score": "desc"},
		},
	}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chunks/_search", bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed: %s - %s", resp.Status, string(respBody))
	}

	var searchResp struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Score  float64 `json:"_score"`
				Source struct {
					DocumentID   string           `json:"document_id"`
					URL          string           `json:"url"`
					Title        string           `json:"title"`
					Domain       string           `json:"domain"`
					TextChunk    string           `json:"text_chunk"`
					Headings     []domain.Heading `json:"headings"`
					DomainScore  float32          `json:"domain_score"`
					QualityScore float32          `json:"quality_score"`
					Keywords     []string         `json:"keywords"`
					Categories   []string         `json:"content_categories"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, err
	}

	hits := make([]driven.SearchHit, 0, len(searchResp.Hits.Hits))
	for _, h := range searchResp.Hits.Hits {
		hits = append(hits, driven.SearchHit{
			ChunkID:      h.ID,
			DocumentID:   h.Source.DocumentID,
			URL:          h.Source.URL,
			Title:        h.Source.Title,
			Domain:       h.Source.Domain,
			TextChunk:    h.Source.TextChunk,
			Headings:     h.Source.Headings,
			DomainScore:  h.Source.DomainScore,
			QualityScore: h.Source.QualityScore,
			Keywords:     h.Source.Keywords,
			Categories:   h.Source.Categories,
			Score:        h.Score,
		})
	}
	return hits, nil
}

// HealthCheck verifies the index store is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/_cluster/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("index store unhealthy: %s", resp.Status)
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	return c.doJSON(ctx, http.MethodPut, path, body)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	return c.doJSON(ctx, http.MethodPost, path, body)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) error {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, string(respBody))
	}
	return nil
}
