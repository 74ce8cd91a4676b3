package domain

import "testing"

func TestSearchQueryNormalize(t *testing.T) {
	q := SearchQuery{Query: "  Golang   Tutorials ", Limit: 10}
	norm, limit := q.Normalize()
	if norm != "golang   tutorials" {
		t.Errorf("expected trimmed-lowercased query, got %q", norm)
	}
	if limit != 10 {
		t.Errorf("expected limit 10, got %d", limit)
	}
}

func TestSearchResponseShape(t *testing.T) {
	resp := SearchResponse{
		Query: "test query",
		Results: []SearchResultItem{
			{ID: "c1", URL: "https://example.com", Title: "Example", RelevanceScore: 1.5},
		},
		TotalFound:   1,
		SearchTimeMs: 12.5,
		SearchMethod: "primary",
		FromCache:    false,
	}

	if resp.TotalFound != 1 {
		t.Errorf("expected total found 1, got %d", resp.TotalFound)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].RelevanceScore != 1.5 {
		t.Errorf("expected relevance score 1.5, got %f", resp.Results[0].RelevanceScore)
	}
}
