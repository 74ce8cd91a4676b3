package summary

import (
	"fmt"

	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

// TemplateSummary is the deterministic fallback used when the
// summarizer endpoint fails, per spec §4.9's closing guarantee: "the
// channel always produces something."
func TemplateSummary(query string, results []driven.SummaryResultRef) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'. (AI summarization unavailable)", query)
	}
	return fmt.Sprintf("Found %d results for '%s'. Top result: '%s'. (AI summarization unavailable)",
		len(results), query, results[0].Title)
}
