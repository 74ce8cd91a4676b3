package cleaner

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lumensearch/search-core/internal/pipeline/scorer"
)

const (
	maxKeywords   = 10
	minTopicHits  = 2
	maxTopicHints = 5
)

var (
	wordPattern          = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9_-]{2,}`)
	technicalTermPattern = regexp.MustCompile(`[0-9]|[A-Z]`)
	noiseWordPattern     = regexp.MustCompile(`^(www|http|html|css|js|php|com|org|net|amp|gt|lt|nbsp|quot|copy|reg|trade|hellip|ndash|mdash)$`)
)

// Keywords extracts up to maxKeywords terms from cleaned text: declared
// (author-supplied) keywords always win a slot first, then frequency-
// scored terms bonused for length and technical-term shape, then any
// topic-dictionary hits still missing a slot. Grounded on cleaner.py's
// _extract_frequency_keywords / _extract_topic_keywords.
func Keywords(cleanedText string, declared []string) []string {
	seen := make(map[string]struct{}, maxKeywords)
	out := make([]string, 0, maxKeywords)

	add := func(word string) bool {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			return false
		}
		if _, dup := seen[word]; dup {
			return false
		}
		seen[word] = struct{}{}
		out = append(out, word)
		return len(out) >= maxKeywords
	}

	for _, d := range declared {
		if add(d) {
			return out
		}
	}

	for _, word := range rankFrequencyKeywords(cleanedText) {
		if add(word) {
			return out
		}
	}

	for _, word := range topicKeywordHits(strings.ToLower(cleanedText)) {
		if add(word) {
			return out
		}
	}

	return out
}

// rankFrequencyKeywords counts non-stop-word tokens (4+ chars) and
// ranks them by a score that rewards length and technical-looking
// terms (mixed case or digits), matching cleaner.py's bonus table.
func rankFrequencyKeywords(cleanedText string) []string {
	stop := StopWords()
	freq := make(map[string]int)
	technical := make(map[string]bool)

	for _, raw := range wordPattern.FindAllString(cleanedText, -1) {
		w := strings.ToLower(raw)
		if len(w) < 4 {
			continue
		}
		if _, isStop := stop[w]; isStop {
			continue
		}
		if noiseWordPattern.MatchString(w) {
			continue
		}
		freq[w]++
		if technicalTermPattern.MatchString(raw) {
			technical[w] = true
		}
	}

	type scored struct {
		word  string
		score float64
	}
	ranked := make([]scored, 0, len(freq))
	for w, count := range freq {
		score := float64(count) * lengthBonus(w)
		if technical[w] {
			score *= 1.3
		}
		ranked = append(ranked, scored{w, score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].word < ranked[j].word
	})

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.word
	}
	return out
}

func lengthBonus(word string) float64 {
	switch {
	case len(word) >= 8:
		return 2.0
	case len(word) >= 6:
		return 1.8
	case len(word) >= 5:
		return 1.4
	case len(word) >= 4:
		return 1.1
	default:
		return 1.0
	}
}

// topicKeywordHits consults the category keyword dictionary: a topic
// is relevant once minTopicHits of its keywords appear in the
// (already lowercased) content, and its longer keywords (5+ chars)
// that hit are then offered as extra keyword candidates. Topics are
// walked in sorted order for determinism.
func topicKeywordHits(lowerText string) []string {
	topics := scorer.Topics()
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)

	var hits []string
	for _, name := range names {
		keywords := topics[name]
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(lowerText, kw) {
				matches++
			}
		}
		if matches < minTopicHits {
			continue
		}
		for _, kw := range keywords {
			if len(kw) < 5 || !strings.Contains(lowerText, kw) {
				continue
			}
			hits = append(hits, kw)
			if len(hits) >= maxTopicHints {
				return hits
			}
		}
	}
	return hits
}
