package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/query/service"
	"github.com/lumensearch/search-core/internal/query/summary"
)

type fakeStore struct {
	hits      []driven.SearchHit
	docs      map[string]*domain.Document
	healthErr error
}

func (f *fakeStore) EnsureTemplate(ctx context.Context) error                  { return nil }
func (f *fakeStore) EnsureDailyIndices(ctx context.Context, date string) error { return nil }
func (f *fakeStore) EnsureRetentionPolicy(ctx context.Context, days int) error { return nil }
func (f *fakeStore) Bulk(ctx context.Context, actions []driven.BulkAction) ([]driven.BulkItemResult, error) {
	return nil, nil
}
func (f *fakeStore) HealthCheck(ctx context.Context) error { return f.healthErr }
func (f *fakeStore) MultiGet(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	out := make(map[string]*domain.Document)
	for _, id := range ids {
		if d, ok := f.docs[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}
func (f *fakeStore) SearchChunks(ctx context.Context, query string, size int, fallback bool) ([]driven.SearchHit, error) {
	return f.hits, nil
}

var _ driven.IndexStore = (*fakeStore)(nil)

type fakeSummarizer struct{}

func (fakeSummarizer) Summarize(ctx context.Context, req driven.SummaryRequest) (string, error) {
	return "a summary", nil
}
func (fakeSummarizer) Ping(ctx context.Context) error { return nil }

func newTestServer(store *fakeStore) *Server {
	qsvc := service.New(store, nil)
	coord := summary.New(fakeSummarizer{}, nil)
	return NewServer(DefaultConfig(), qsvc, coord, store, nil, map[string]string{"run_mode": "query"}, nil)
}

func TestHandleSearchReturnsResultsAndRequestID(t *testing.T) {
	store := &fakeStore{
		hits: []driven.SearchHit{{ChunkID: "c1", DocumentID: "d1", TextChunk: "Go routines make concurrency easy.", Score: 4.2}},
		docs: map[string]*domain.Document{"d1": {DocumentID: "d1", URL: "https://example.com/go", Title: "Go Concurrency", Domain: "example.com"}},
	}
	s := newTestServer(store)

	req := httptest.NewRequest("GET", "/search?q=goroutines&limit=5", nil)
	w := httptest.NewRecorder()
	s.handleSearch(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp domain.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.RequestID == "" {
		t.Fatal("expected a request_id to be minted for the summary channel")
	}
}

func TestHandleSearchRejectsMissingQuery(t *testing.T) {
	s := newTestServer(&fakeStore{})
	req := httptest.NewRequest("GET", "/search", nil)
	w := httptest.NewRecorder()
	s.handleSearch(w, req)
	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleHealthReportsIndexStoreStatus(t *testing.T) {
	s := newTestServer(&fakeStore{})
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "healthy" {
		t.Fatalf("expected healthy, got %s", resp.Status)
	}
	if resp.Components["index_store"].Status != "healthy" {
		t.Fatalf("expected index_store healthy, got %+v", resp.Components["index_store"])
	}
}

func TestHandleStatsWithoutIndexerReturnsEmptyBody(t *testing.T) {
	s := newTestServer(&fakeStore{})
	req := httptest.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	s.handleStats(w, req)

	var resp StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Indexer != nil {
		t.Fatalf("expected nil indexer stats in query-only mode, got %+v", resp.Indexer)
	}
}

func TestHandleConfigReturnsRuntimeSnapshot(t *testing.T) {
	s := newTestServer(&fakeStore{})
	req := httptest.NewRequest("GET", "/config", nil)
	w := httptest.NewRecorder()
	s.handleConfig(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	cfg, ok := resp["config"].(map[string]any)
	if !ok || cfg["run_mode"] != "query" {
		t.Fatalf("expected run_mode=query in config snapshot, got %+v", resp)
	}
}
