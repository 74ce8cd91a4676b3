package cache

import (
	"testing"

	"github.com/lumensearch/search-core/internal/core/domain"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New(10)
	key := Key(domain.SearchQuery{Query: "Go Routines", Limit: 10})
	resp := &domain.SearchResponse{Query: "go routines", TotalFound: 3}

	c.Put(key, resp)
	got, ok := c.Get(key)
	if !ok || got.TotalFound != 3 {
		t.Fatalf("expected cached response, got %+v ok=%v", got, ok)
	}
}

func TestKeyNormalizesCaseAndWhitespace(t *testing.T) {
	a := Key(domain.SearchQuery{Query: "  Hello World  ", Limit: 5})
	b := Key(domain.SearchQuery{Query: "hello world", Limit: 5})
	if a != b {
		t.Fatalf("expected normalized keys to match, got %q vs %q", a, b)
	}
}

func TestEvictsLeastRecentlyUsedAtCapacity(t *testing.T) {
	c := New(2)
	c.Put("a", &domain.SearchResponse{Query: "a"})
	c.Put("b", &domain.SearchResponse{Query: "b"})

	// touch "a" so "b" becomes the least-recently-used entry
	c.Get("a")
	c.Put("c", &domain.SearchResponse{Query: "c"})

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected 'b' to be evicted as least-recently-used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected 'a' to survive eviction")
	}
	if c.Len() != 2 {
		t.Fatalf("expected capacity to be respected, got len=%d", c.Len())
	}
}
