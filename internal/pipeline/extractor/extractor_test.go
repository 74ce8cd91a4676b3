package extractor

import (
	"strings"
	"testing"
)

func TestParseExtractsHeadingsAndMeta(t *testing.T) {
	html := `<html><head><title>Hello</title><meta name="description" content="A post"/>
	<link rel="canonical" href="https://example.com/canonical"/></head>
	<body><article><h1>Hello</h1><p>` + strings.Repeat("word ", 500) + `</p></article></body></html>`

	facts := Parse(html, "https://example.com/post")

	if len(facts.Headings) != 1 || facts.Headings[0].Text != "Hello" {
		t.Fatalf("expected one h1 'Hello', got %+v", facts.Headings)
	}
	if facts.metaValue("name:description") != "A post" {
		t.Fatalf("expected meta description 'A post', got %q", facts.metaValue("name:description"))
	}
	if CanonicalURL(facts) != "https://example.com/canonical" {
		t.Fatalf("unexpected canonical url: %s", CanonicalURL(facts))
	}
	if len(facts.RawText) < 200 {
		t.Fatalf("expected long raw text, got %d chars", len(facts.RawText))
	}
}

func TestParseMalformedHTMLNeverAborts(t *testing.T) {
	facts := Parse("<html><body><p>unterminated", "https://example.com")
	if facts == nil {
		t.Fatal("expected non-nil facts even for malformed html")
	}
}

func TestExtractContentFallsBackBelowThreshold(t *testing.T) {
	html := `<html><body><article class="content">` + strings.Repeat("technical content here. ", 20) + `</article></body></html>`
	facts := Parse(html, "https://example.com")
	facts.RawText = "short" // force primary under 200 chars

	content := ExtractContent(facts)
	if len(content) < 50 && content != "" {
		t.Fatalf("extract content must be empty or >= 50 chars, got %d", len(content))
	}
}

func TestExtractMainContentGuarantees(t *testing.T) {
	got := ExtractMainContent("<html><body><p>too short</p></body></html>")
	if got != "" {
		t.Fatalf("expected empty string for too-short content, got %q", got)
	}
}

func TestIsTechnicalByKeywordHits(t *testing.T) {
	if !IsTechnical("This API uses a microservice architecture with kubernetes and docker.", nil) {
		t.Fatal("expected technical classification")
	}
	if IsTechnical("A lovely day at the beach with family and friends.", nil) {
		t.Fatal("expected non-technical classification")
	}
}
