package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/query/cache"
)

type fakeStore struct {
	primaryHits  []driven.SearchHit
	fallbackHits []driven.SearchHit
	docs         map[string]*domain.Document
	primaryCalls int
	fallbackCalls int
	searchErr    error
}

func (f *fakeStore) EnsureTemplate(ctx context.Context) error                  { return nil }
func (f *fakeStore) EnsureDailyIndices(ctx context.Context, date string) error { return nil }
func (f *fakeStore) EnsureRetentionPolicy(ctx context.Context, days int) error { return nil }
func (f *fakeStore) Bulk(ctx context.Context, actions []driven.BulkAction) ([]driven.BulkItemResult, error) {
	return nil, nil
}
func (f *fakeStore) HealthCheck(ctx context.Context) error { return nil }

func (f *fakeStore) MultiGet(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	result := make(map[string]*domain.Document)
	for _, id := range ids {
		if d, ok := f.docs[id]; ok {
			result[id] = d
		}
	}
	return result, nil
}

func (f *fakeStore) SearchChunks(ctx context.Context, query string, size int, fallback bool) ([]driven.SearchHit, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if fallback {
		f.fallbackCalls++
		return f.fallbackHits, nil
	}
	f.primaryCalls++
	return f.primaryHits, nil
}

func TestSearchReturnsPrimaryResultsMergedWithParent(t *testing.T) {
	store := &fakeStore{
		primaryHits: []driven.SearchHit{
			{ChunkID: "c1", DocumentID: "d1", TextChunk: "Go routines make concurrency simple and fast.", Score: 5.0},
		},
		docs: map[string]*domain.Document{
			"d1": {DocumentID: "d1", URL: "https://example.com/go", Title: "Go Concurrency", Domain: "example.com"},
		},
	}

	svc := New(store, cache.New(10))
	resp, err := svc.Search(context.Background(), "concurrency", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Title != "Go Concurrency" || r.URL != "https://example.com/go" {
		t.Fatalf("expected parent fields merged in, got %+v", r)
	}
	if r.ContentPreview == "" {
		t.Fatal("expected a non-empty content preview")
	}
	if resp.SearchMethod != "primary" {
		t.Fatalf("expected primary search method, got %q", resp.SearchMethod)
	}
	if store.fallbackCalls != 0 {
		t.Fatal("expected fallback not to be called when primary has hits")
	}
}

func TestSearchFallsBackWhenPrimaryEmpty(t *testing.T) {
	store := &fakeStore{
		fallbackHits: []driven.SearchHit{{ChunkID: "c2", DocumentID: "d2", TextChunk: "fallback text"}},
	}
	svc := New(store, cache.New(10))
	resp, err := svc.Search(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SearchMethod != "fallback" {
		t.Fatalf("expected fallback search method, got %q", resp.SearchMethod)
	}
	if store.fallbackCalls != 1 {
		t.Fatalf("expected exactly one fallback call, got %d", store.fallbackCalls)
	}
}

func TestSearchUsesCacheOnSecondCall(t *testing.T) {
	store := &fakeStore{
		primaryHits: []driven.SearchHit{{ChunkID: "c1", DocumentID: "d1", TextChunk: "hello world"}},
	}
	svc := New(store, cache.New(10))

	if _, err := svc.Search(context.Background(), "hello", 5); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.Search(context.Background(), "hello", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.FromCache {
		t.Fatal("expected second identical search to be served from cache")
	}
	if store.primaryCalls != 1 {
		t.Fatalf("expected exactly one primary search call, got %d", store.primaryCalls)
	}
}

func TestSearchReturnsErrorResponseOnStoreFailure(t *testing.T) {
	store := &fakeStore{searchErr: errors.New("store unreachable")}
	svc := New(store, cache.New(10))
	resp, err := svc.Search(context.Background(), "x", 5)
	if err != nil {
		t.Fatalf("expected Search to degrade gracefully, got error: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("expected a populated error field in the response")
	}
}

func TestDiversifyByDomainCapsPerDomainInFirstPass(t *testing.T) {
	hits := []driven.SearchHit{
		{ChunkID: "1", DocumentID: "d1"},
		{ChunkID: "2", DocumentID: "d1"},
		{ChunkID: "3", DocumentID: "d1"},
		{ChunkID: "4", DocumentID: "d2"},
		{ChunkID: "5", DocumentID: "d3"},
	}
	out := diversifyByDomain(hits, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	domains := map[string]int{}
	for _, h := range out {
		domains[h.DocumentID]++
	}
	if domains["d1"] != 1 || domains["d2"] != 1 || domains["d3"] != 1 {
		t.Fatalf("expected one result per domain when enough domains exist, got %+v", domains)
	}
}

func TestDiversifyByDomainFillsRemainingSlotsIgnoringCap(t *testing.T) {
	hits := []driven.SearchHit{
		{ChunkID: "1", DocumentID: "d1"},
		{ChunkID: "2", DocumentID: "d1"},
		{ChunkID: "3", DocumentID: "d1"},
		{ChunkID: "4", DocumentID: "d2"},
	}
	out := diversifyByDomain(hits, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
}
