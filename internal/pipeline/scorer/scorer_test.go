package scorer

import "testing"

func TestDomainScoreExactMatch(t *testing.T) {
	if got := DomainScore("https://github.com/foo/bar"); got != 0.85 {
		t.Fatalf("expected 0.85, got %v", got)
	}
}

func TestDomainScoreTLDFallback(t *testing.T) {
	if got := DomainScore("https://myuniversity.edu/page"); got != 0.8 {
		t.Fatalf("expected .edu score 0.8, got %v", got)
	}
}

func TestDomainScoreUnknownHost(t *testing.T) {
	if got := DomainScore("https://totally-unknown-host.xyz/page"); got != unknownDomainScore {
		t.Fatalf("expected default score %v, got %v", unknownDomainScore, got)
	}
}

func TestContentQualityScoreEmptyContent(t *testing.T) {
	if got := ContentQualityScore("", Metadata{}, ContentMetrics{}); got != 0.1 {
		t.Fatalf("expected 0.1 for empty content, got %v", got)
	}
}

func TestContentQualityScoreRewardsSubstantialTechnicalContent(t *testing.T) {
	content := "This comprehensive tutorial provides a detailed guide to building a REST API in Go using Docker and Kubernetes. " +
		"We cover the architecture, design patterns, and testing strategy in depth, with a complete overview, introduction, " +
		"examples, and a final summary discussing implementation and usage."
	metrics := ContentMetrics{WordCount: 250, HasCodeBlocks: true, HasLists: true, AvgSentenceLength: 18, HeadingCount: 4, HasSemanticTags: true}
	meta := Metadata{Title: "A Complete Guide to Building REST APIs", Author: "Jane Doe", Date: "2024-01-01"}

	short := ContentQualityScore("short", Metadata{}, ContentMetrics{WordCount: 5})
	long := ContentQualityScore(content, meta, metrics)

	if long <= short {
		t.Fatalf("expected richer content to score higher: long=%v short=%v", long, short)
	}
}

func TestCategoriesRequiresMinimumHits(t *testing.T) {
	got := Categories("a random sentence about nothing in particular", "Untitled")
	if len(got) != 1 || got[0] != "general" {
		t.Fatalf("expected fallback to general, got %+v", got)
	}
}

func TestCategoriesDetectsProgramming(t *testing.T) {
	got := Categories("a guide to code and algorithm design using a framework", "Programming 101")
	found := false
	for _, c := range got {
		if c == "programming" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected programming category, got %+v", got)
	}
}
