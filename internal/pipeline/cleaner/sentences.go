package cleaner

import (
	"regexp"
	"strings"
)

var sentenceSplit = regexp.MustCompile(`(?:[.!?]+["')\]]?\s+)|(?:[.!?]+["')\]]?$)`)

// SplitSentences splits text into naive sentences on terminal
// punctuation, keeping non-empty trimmed results in order.
func SplitSentences(text string) []string {
	idxs := sentenceSplit.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		t := strings.TrimSpace(text)
		if t == "" {
			return nil
		}
		return []string{t}
	}

	var sentences []string
	start := 0
	for _, loc := range idxs {
		end := loc[1]
		s := strings.TrimSpace(text[start:end])
		if s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

var properNounPattern = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

func hasProperNoun(s string) bool {
	return properNounPattern.MatchString(s)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
