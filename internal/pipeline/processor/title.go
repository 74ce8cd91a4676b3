package processor

import "strings"

const untitledDocument = "Untitled Document"

var genericTitlePatterns = []string{
	"untitled", "home", "index", "main", "welcome",
	"page not found", "404", "error", "loading",
}

// isGenericTitle flags titles matching the fixed blocklist of
// templated/placeholder titles.
func isGenericTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, pattern := range genericTitlePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// consolidateTitle picks a title by priority OpenGraph → JSON-LD
// headline → page title → crawler-supplied → the universal fallback,
// rejecting generic or too-short candidates at each step.
func consolidateTitle(ogTitle, jsonLDHeadline, pageTitle, crawlerTitle string) string {
	for _, candidate := range []string{ogTitle, jsonLDHeadline, pageTitle, crawlerTitle} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || len(candidate) < 3 || isGenericTitle(candidate) {
			continue
		}
		return candidate
	}
	return untitledDocument
}
