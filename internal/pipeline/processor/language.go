package processor

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

var commonEnglishWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {},
	"with": {}, "this": {}, "that": {}, "have": {}, "from": {}, "your": {},
	"was": {}, "were": {}, "can": {}, "will": {}, "all": {}, "has": {}, "more": {},
	"a": {}, "an": {}, "of": {}, "to": {}, "in": {}, "is": {}, "it": {}, "on": {}, "as": {}, "at": {}, "by": {}, "or": {}, "be": {}, "about": {},
}

var nonLatinTLDs = []string{".cn", ".ru", ".jp", ".kr", ".tw", ".hk", ".ir", ".sa"}

// IsEnglish applies a lightweight sample-based heuristic: ASCII-letter
// density of a stripped content sample plus a hit count against a
// common-English-word set, with a TLD sanity check. No language
// identification library is grounded anywhere in the retrieved pack,
// so this stays a direct stdlib heuristic rather than the statistical
// classifier a production system would use.
func IsEnglish(content, url string) bool {
	lowerURL := strings.ToLower(url)
	for _, tld := range nonLatinTLDs {
		if strings.HasSuffix(lowerURL, tld) || strings.Contains(lowerURL, tld+"/") {
			return false
		}
	}

	sample := htmlTagPattern.ReplaceAllString(content, " ")
	if len(sample) > 2000 {
		sample = sample[:2000]
	}

	letters, ascii := 0, 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letters++
			if r < unicode.MaxASCII {
				ascii++
			}
		}
	}
	if letters == 0 {
		return false
	}
	if float64(ascii)/float64(letters) < 0.85 {
		return false
	}

	words := strings.Fields(strings.ToLower(sample))
	if len(words) == 0 {
		return false
	}
	hits := 0
	for _, w := range words {
		if _, ok := commonEnglishWords[w]; ok {
			hits++
		}
	}
	return float64(hits)/float64(len(words)) > 0.02
}
