package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/lumensearch/search-core/internal/core/domain"
)

// CanonicalURL resolves a canonical <link> href (relative or
// absolute) against the base URL. Falls back to the base URL itself.
func CanonicalURL(facts *RawFacts) string {
	for _, l := range facts.LinkTags {
		if strings.EqualFold(l.Rel, "canonical") && l.Href != "" {
			if resolved := resolveURL(facts.BaseURL, l.Href); resolved != "" {
				return resolved
			}
		}
	}
	return facts.BaseURL
}

func resolveURL(base, ref string) string {
	if base == "" {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}

var relativeDatePattern = regexp.MustCompile(`(?i)(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago`)

// Dates derives published/modified date strings, ranked: meta
// property/name tags > structured-data fields > html time/class
// patterns > relative phrases.
func Dates(facts *RawFacts) (published, modified string) {
	if v := facts.metaValue("property:article:published_time", "name:article:published_time", "name:publish-date", "name:date"); v != "" {
		published = v
	}
	if v := facts.metaValue("property:article:modified_time", "name:last-modified"); v != "" {
		modified = v
	}

	if published == "" {
		for _, ld := range facts.JSONLD {
			if v, ok := ld["datePublished"].(string); ok && v != "" {
				published = v
				break
			}
		}
	}
	if modified == "" {
		for _, ld := range facts.JSONLD {
			if v, ok := ld["dateModified"].(string); ok && v != "" {
				modified = v
				break
			}
		}
	}

	if published == "" {
		for _, c := range facts.DateCandidates {
			if c.Source == "time_tag" || c.Source == "class" {
				if relativeDatePattern.MatchString(c.Value) {
					continue // relative phrases are lowest priority
				}
				published = c.Value
				break
			}
		}
	}
	if published == "" {
		for _, c := range facts.DateCandidates {
			if relativeDatePattern.MatchString(c.Value) {
				published = c.Value
				break
			}
		}
	}
	return published, modified
}

// Author derives author info ranked meta > structured > class/itemprop > cms.
func Author(facts *RawFacts) *domain.AuthorInfo {
	if v := facts.metaValue("name:author", "property:article:author"); v != "" {
		return &domain.AuthorInfo{Name: v, Source: "meta"}
	}
	for _, ld := range facts.JSONLD {
		if a, ok := ld["author"]; ok {
			switch t := a.(type) {
			case string:
				if t != "" {
					return &domain.AuthorInfo{Name: t, Source: "structured"}
				}
			case map[string]any:
				if name, ok := t["name"].(string); ok && name != "" {
					return &domain.AuthorInfo{Name: name, Source: "structured"}
				}
			}
		}
	}
	for _, c := range facts.AuthorCandidates {
		if c.Value != "" {
			return &domain.AuthorInfo{Name: c.Value, Source: c.Source}
		}
	}
	return nil
}

// TableOfContents derives TOC entries: explicit TOC nav text takes
// priority, then the semantic heading hierarchy synthesized from
// the visited headings (anchor-synthesis fallback).
func TableOfContents(facts *RawFacts) []domain.Heading {
	if len(facts.TOCNavText) > 0 {
		entries := make([]domain.Heading, 0, len(facts.TOCNavText))
		for i, t := range facts.TOCNavText {
			entries = append(entries, domain.Heading{Level: 1, Text: truncate(t, 200)})
			if i >= 9 {
				break
			}
		}
		return entries
	}

	entries := make([]domain.Heading, 0, len(facts.Headings))
	for i, h := range facts.Headings {
		entries = append(entries, domain.Heading{Level: h.Level, Text: truncate(h.Text, 200), ID: h.ID})
		if i >= 9 {
			break
		}
	}
	return entries
}

// Images returns the top-10 images with alt/title retained and URLs
// resolved against the base URL.
func Images(facts *RawFacts) []domain.Image {
	out := make([]domain.Image, 0, min(10, len(facts.Images)))
	for i, img := range facts.Images {
		if i >= 10 {
			break
		}
		out = append(out, domain.Image{
			URL: resolveURL(facts.BaseURL, img.Src), Alt: img.Alt, Title: img.Title,
			Width: img.Width, Height: img.Height,
		})
	}
	return out
}

var technicalKeywords = []string{
	"algorithm", "api", "function", "class", "variable", "compiler",
	"database", "framework", "library", "repository", "protocol",
	"kubernetes", "docker", "microservice", "machine learning", "neural network",
	"deployment", "pipeline", "endpoint", "schema", "runtime", "syntax",
	"python", "golang", "rust", "javascript", "typescript", "sql",
}

// IsTechnical classifies content as technical by keyword hit-set over
// content and headings.
func IsTechnical(content string, headings []HeadingFact) bool {
	lc := strings.ToLower(content)
	hits := 0
	for _, kw := range technicalKeywords {
		if strings.Contains(lc, kw) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	for _, h := range headings {
		hlc := strings.ToLower(h.Text)
		for _, kw := range technicalKeywords {
			if strings.Contains(hlc, kw) {
				return true
			}
		}
	}
	return false
}

// MetaValue exposes a facts record's meta-tag lookup to callers
// outside the package (title/description consolidation happens in
// the processor, which has no other way to read raw meta tags).
func MetaValue(facts *RawFacts, keys ...string) string {
	return facts.metaValue(keys...)
}

// JSONLDString returns the first non-empty string value of field
// across the page's JSON-LD blocks.
func JSONLDString(facts *RawFacts, field string) string {
	for _, ld := range facts.JSONLD {
		if v, ok := ld[field].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
