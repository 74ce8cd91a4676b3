package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// technicalSectionSelectors are tried in order for the fallback path;
// spec §4.1 names these sections as preferred when present and long
// enough.
var technicalSectionSelectors = []string{
	"#overview", ".overview", "#usage", ".usage", "#examples", ".examples",
	"article", "main", "[class*=doc]", "[class*=content]",
}

const fallbackMinSectionLength = 120
const fallbackMaxParts = 3
const fallbackMaxLength = 2000

// ExtractMainContent is the secondary, readability-style extraction
// path. Guarantees: returns a string of length >= 50, or "" — never
// malformed output.
func ExtractMainContent(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script,style,noscript,nav,header,footer,iframe").Remove()

	var parts []string
	total := 0
	for _, sel := range technicalSectionSelectors {
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if len(text) >= fallbackMinSectionLength {
				parts = append(parts, text)
				total += len(text)
			}
			return len(parts) < fallbackMaxParts && total < fallbackMaxLength
		})
		if len(parts) >= fallbackMaxParts || total >= fallbackMaxLength {
			break
		}
	}

	content := strings.Join(parts, "\n\n")
	if len(content) > fallbackMaxLength {
		content = content[:fallbackMaxLength]
	}

	if len(content) < 50 {
		return ""
	}
	return content
}

// ExtractContent runs the primary single-pass RawText extraction and
// falls back to ExtractMainContent when the primary yields too little.
func ExtractContent(facts *RawFacts) string {
	primary := strings.TrimSpace(facts.RawText)
	if len(primary) >= 200 {
		return primary
	}
	fallback := ExtractMainContent(facts.HTML)
	if fallback != "" {
		return fallback
	}
	return primary
}
