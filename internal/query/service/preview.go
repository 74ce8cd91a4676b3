package service

import (
	"strings"
	"unicode"

	"github.com/lumensearch/search-core/internal/pipeline/cleaner"
)

// SmartPreview picks a representative excerpt of chunkText for query,
// per spec §4.8 step 7: score each sentence by query-term hits, pick
// the best-scoring sentence if it fits within maxLength, otherwise
// truncate that sentence at a word boundary; if no sentence scores
// above zero, fall back to the leading maxLength characters.
func SmartPreview(chunkText, query string, maxLength int) string {
	chunkText = strings.TrimSpace(chunkText)
	if chunkText == "" {
		return ""
	}

	terms := queryTerms(query)
	sentences := cleaner.SplitSentences(chunkText)

	best := ""
	bestScore := 0
	for _, sentence := range sentences {
		score := scoreSentence(sentence, terms)
		if score > bestScore {
			bestScore = score
			best = sentence
		}
	}

	if best == "" {
		return truncateAtWordBoundary(chunkText, maxLength)
	}
	if len(best) <= maxLength {
		return best
	}
	return truncateAtWordBoundary(best, maxLength)
}

func queryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return fields
}

func scoreSentence(sentence string, terms []string) int {
	lower := strings.ToLower(sentence)
	score := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		score += strings.Count(lower, term)
	}
	return score
}

func truncateAtWordBoundary(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	truncated := text[:maxLength]
	if idx := strings.LastIndexByte(truncated, ' '); idx > 0 {
		truncated = truncated[:idx]
	}
	return strings.TrimSpace(truncated) + "..."
}
