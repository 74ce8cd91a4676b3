// Package service implements the query service's public Search
// operation: cache lookup, chunk-first retrieval with a relaxed
// fallback, domain diversification, parent-document merge and smart
// preview selection, per spec §4.8. Grounded on the teacher's
// internal/core/services/search.go (effectiveMode/enrich-with-document
// orchestration pattern), generalized from the teacher's
// embedding-aware ranked-chunk search to the spec's chunk-index search
// + diversify + merge pipeline.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/query/cache"
)

const (
	maxLimit          = 50
	defaultLimit      = 10
	primarySizeFactor = 3
)

// Service is the query service core.
type Service struct {
	store driven.IndexStore
	cache *cache.Cache
}

// New builds a Service.
func New(store driven.IndexStore, c *cache.Cache) *Service {
	if c == nil {
		c = cache.New(0)
	}
	return &Service{store: store, cache: c}
}

// Search runs spec §4.8's full algorithm for one (query, limit) pair.
func (s *Service) Search(ctx context.Context, query string, limit int) (*domain.SearchResponse, error) {
	start := time.Now()

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	sq := domain.SearchQuery{Query: query, Limit: limit}
	key := cache.Key(sq)
	if cached, ok := s.cache.Get(key); ok {
		out := *cached
		out.FromCache = true
		return &out, nil
	}

	hits, method, err := s.searchChunks(ctx, query, limit)
	if err != nil {
		resp := &domain.SearchResponse{
			Query:        query,
			Error:        err.Error(),
			SearchTimeMs: elapsedMs(start),
		}
		return resp, nil
	}

	diversified := diversifyByDomain(hits, limit)

	docs, err := s.fetchParents(ctx, diversified)
	if err != nil {
		docs = map[string]*domain.Document{}
	}

	results := make([]domain.SearchResultItem, 0, len(diversified))
	for _, hit := range diversified {
		results = append(results, mergeResult(hit, docs[hit.DocumentID], query))
	}

	resp := &domain.SearchResponse{
		Query:        query,
		Results:      results,
		TotalFound:   len(results),
		SearchTimeMs: elapsedMs(start),
		SearchMethod: method,
		FromCache:    false,
	}

	s.cache.Put(key, resp)
	return resp, nil
}

// searchChunks issues the primary query (spec §4.8 step 2) and falls
// back to the relaxed query (step 3) if the primary returns nothing.
func (s *Service) searchChunks(ctx context.Context, query string, limit int) ([]driven.SearchHit, string, error) {
	hits, err := s.store.SearchChunks(ctx, query, limit*primarySizeFactor, false)
	if err != nil {
		return nil, "", fmt.Errorf("primary search failed: %w", err)
	}
	if len(hits) > 0 {
		return hits, "primary", nil
	}

	fallbackHits, err := s.store.SearchChunks(ctx, query, limit*primarySizeFactor, true)
	if err != nil {
		return nil, "", fmt.Errorf("fallback search failed: %w", err)
	}
	return fallbackHits, "fallback", nil
}

// diversifyByDomain caps results-per-domain at max(1, limit/3) in a
// first pass, then fills remaining slots ignoring the cap, per spec
// §4.8 step 4. Input hits are assumed already ranked.
func diversifyByDomain(hits []driven.SearchHit, limit int) []driven.SearchHit {
	perDomainCap := limit / 3
	if perDomainCap < 1 {
		perDomainCap = 1
	}

	perDomain := make(map[string]int)
	selected := make([]driven.SearchHit, 0, limit)
	remaining := make([]driven.SearchHit, 0)

	for _, h := range hits {
		if len(selected) >= limit {
			break
		}
		dom := domainOf(h)
		if perDomain[dom] < perDomainCap {
			selected = append(selected, h)
			perDomain[dom]++
		} else {
			remaining = append(remaining, h)
		}
	}

	for _, h := range remaining {
		if len(selected) >= limit {
			break
		}
		selected = append(selected, h)
	}
	return selected
}

func domainOf(h driven.SearchHit) string {
	if h.Domain != "" {
		return h.Domain
	}
	return h.DocumentID
}

// fetchParents collects distinct document ids and issues one multi-get
// against the documents alias, per spec §4.8 step 5.
func (s *Service) fetchParents(ctx context.Context, hits []driven.SearchHit) (map[string]*domain.Document, error) {
	seen := make(map[string]struct{}, len(hits))
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.DocumentID]; ok {
			continue
		}
		seen[h.DocumentID] = struct{}{}
		ids = append(ids, h.DocumentID)
	}
	return s.store.MultiGet(ctx, ids)
}

// mergeResult shallow-merges parent document fields with chunk fields
// (chunk fields win on conflict) and picks a smart preview, per spec
// §4.8 steps 6-7.
func mergeResult(hit driven.SearchHit, doc *domain.Document, query string) domain.SearchResultItem {
	item := domain.SearchResultItem{
		ID:                hit.ChunkID,
		URL:               hit.URL,
		Title:             hit.Title,
		Domain:            hit.Domain,
		RelevanceScore:    hit.Score,
		ChunkScore:        hit.Score,
		DomainScore:       hit.DomainScore,
		QualityScore:      hit.QualityScore,
		ContentCategories: hit.Categories,
		Keywords:          hit.Keywords,
	}
	if doc != nil {
		if item.URL == "" {
			item.URL = doc.URL
		}
		if item.Title == "" {
			item.Title = doc.Title
		}
		if item.Domain == "" {
			item.Domain = doc.Domain
		}
		if item.DomainScore == 0 {
			item.DomainScore = doc.DomainScore
		}
		if item.QualityScore == 0 {
			item.QualityScore = doc.QualityScore
		}
		if len(item.ContentCategories) == 0 {
			item.ContentCategories = doc.Categories
		}
		if len(item.Keywords) == 0 {
			item.Keywords = doc.Keywords
		}
	}
	item.ContentPreview = SmartPreview(hit.TextChunk, query, 300)
	return item
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
