package cleaner

import "strings"

const defaultPreviewMaxLength = 300

var uiTextPhrases = []string{"click here", "read more", "subscribe", "sign up", "learn more", "buy now"}

// Description scores each paragraph of cleaned text and picks the
// highest-scoring one as the document preview, truncating at the
// last sentence boundary within 70% of the budget else at a word
// boundary.
func Description(cleanedText string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = defaultPreviewMaxLength
	}

	paragraphs := splitParagraphs(cleanedText)
	if len(paragraphs) == 0 {
		return ""
	}

	best := paragraphs[0]
	bestScore := scoreParagraph(best)
	for _, p := range paragraphs[1:] {
		if s := scoreParagraph(p); s > bestScore {
			best, bestScore = p, s
		}
	}

	return truncateAtBoundary(best, maxLength)
}

func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// scoreParagraph: vocabulary diversity + proper-noun presence +
// sentence structure - UI-text penalties - repetition penalties.
func scoreParagraph(p string) float64 {
	words := strings.Fields(strings.ToLower(p))
	if len(words) == 0 {
		return -1000
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	score := float64(len(unique)) * 2.0

	if hasProperNoun(p) {
		score += 5
	}
	if strings.Contains(p, ".") {
		score += 3
	}

	lower := strings.ToLower(p)
	for _, phrase := range uiTextPhrases {
		if strings.Contains(lower, phrase) {
			score -= 10
		}
	}

	if hasHighRepeatedWordRatio(words, 0.3) {
		score -= 15
	}

	return score
}

func truncateAtBoundary(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}

	budget := int(float64(maxLength) * 0.7)
	truncated := text[:maxLength]

	if idx := lastSentenceEnd(truncated); idx > budget {
		return strings.TrimSpace(truncated[:idx])
	}

	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		return strings.TrimSpace(truncated[:idx])
	}

	return strings.TrimSpace(truncated)
}

func lastSentenceEnd(s string) int {
	best := -1
	for _, ender := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(s, ender); idx != -1 {
			end := idx + len(ender)
			if end > best {
				best = end
			}
		}
	}
	return best
}
