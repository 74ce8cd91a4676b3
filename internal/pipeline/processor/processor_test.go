package processor

import (
	"strings"
	"testing"

	"github.com/lumensearch/search-core/internal/core/domain"
)

func sampleHTML(bodyRepeat int) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>Building Reliable Search Systems</title>
	<meta property="og:title" content="Building Reliable Search Systems"/>
	<meta name="description" content="A comprehensive tutorial on search indexing architecture and design."/>
	<meta name="keywords" content="search, indexing, golang"/>
	</head><body><article>`)
	for i := 0; i < bodyRepeat; i++ {
		b.WriteString("<h2>Section ")
		b.WriteString(strings.Repeat("A", 1))
		b.WriteString("</h2><p>This is a detailed and comprehensive guide to building search indexing architecture with Go, covering algorithms, APIs, and database design patterns in depth. ")
		b.WriteString(strings.Repeat("Additional filler content to extend the section. ", 10))
		b.WriteString("</p>")
	}
	b.WriteString(`</article></body></html>`)
	return b.String()
}

func TestProcessRejectsMissingURL(t *testing.T) {
	_, _, err := Process(domain.RawRecord{Content: sampleHTML(5)}, Options{})
	if err != domain.ErrMissingURL {
		t.Fatalf("expected ErrMissingURL, got %v", err)
	}
}

func TestProcessRejectsShortContent(t *testing.T) {
	_, _, err := Process(domain.RawRecord{URL: "https://example.com/post", Content: "short"}, Options{})
	if err != domain.ErrEmptyContent {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestProcessHappyPath(t *testing.T) {
	record := domain.RawRecord{
		URL:     "https://example.com/blog/search-systems",
		Content: sampleHTML(6),
		Domain:  "example.com",
	}

	doc, chunks, err := Process(record, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatal("expected non-nil document")
	}
	if doc.DocumentID != domain.DocumentID(record.URL) {
		t.Fatalf("expected deterministic document id")
	}
	if doc.Title == "" || doc.Title == untitledDocument {
		t.Fatalf("expected consolidated title, got %q", doc.Title)
	}
	if len(chunks) == 0 {
		t.Fatal("expected at least one surviving chunk")
	}
	for _, c := range chunks {
		if c.DocumentID != doc.DocumentID {
			t.Fatalf("chunk document id mismatch")
		}
	}
}

func TestProcessRejectsGenericTitleFallsBackToUntitled(t *testing.T) {
	html := `<html><head><title>404</title></head><body><article><p>` +
		strings.Repeat("Some genuinely long article content about nothing in particular here. ", 20) +
		`</p></article></body></html>`

	record := domain.RawRecord{URL: "https://example.com/x", Content: html}
	doc, _, err := Process(record, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != untitledDocument {
		t.Fatalf("expected fallback to Untitled Document, got %q", doc.Title)
	}
}

func TestConsolidateTitlePriority(t *testing.T) {
	got := consolidateTitle("OG Title", "", "Page Title", "Crawler Title")
	if got != "OG Title" {
		t.Fatalf("expected og:title priority, got %q", got)
	}
}

func TestIsGenericTitle(t *testing.T) {
	if !isGenericTitle("Home") {
		t.Fatal("expected 'Home' to be generic")
	}
	if isGenericTitle("Building Reliable Search Systems") {
		t.Fatal("expected real title to not be generic")
	}
}
