// Package cleaner operates on strings, not the DOM: entity decoding,
// boilerplate stripping, preview selection, semantic chunking, and
// keyword extraction, grounded on the teacher's
// internal/postprocessors pipeline and internal/normalisers registry.
package cleaner

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlEntities = map[string]string{
	"&nbsp;": " ", "&amp;": "&", "&lt;": "<", "&gt;": ">", "&quot;": "\"",
	"&apos;": "'", "&#39;": "'", "&mdash;": "—", "&ndash;": "–",
	"&hellip;": "...", "&copy;": "©", "&reg;": "®", "&trade;": "™",
}

var (
	extraWhitespace    = regexp.MustCompile(`[ \t]+`)
	numericWordPattern = regexp.MustCompile(`^\d+$`)
	socialSharePattern = regexp.MustCompile(`(?i)\b(share|tweet|like|follow us|subscribe now|sign up for our newsletter)\b`)
)

var navigationWords = []string{
	"home", "login", "sign in", "sign up", "register", "menu", "search",
	"skip to content", "privacy policy", "terms of service", "cookie",
	"vote", "karma", "reply", "permalink", "posted by", "comments",
}

// CleanText runs the cleaning pipeline in order: entity decoding,
// repetitive-pattern collapse, navigation/boilerplate stripping,
// social-artifact removal, whitespace normalization.
func CleanText(raw string) string {
	text := decodeEntities(raw)
	text = collapseRepetitivePhrases(text)
	text = removeNavigationLines(text)
	text = removeSocialArtifacts(text)
	text = normalizeWhitespace(text)
	return text
}

func decodeEntities(s string) string {
	for entity, repl := range htmlEntities {
		s = strings.ReplaceAll(s, entity, repl)
	}
	return s
}

func collapseRepetitivePhrases(s string) string {
	words := strings.Split(s, " ")
	var out []string
	for i := 0; i < len(words); {
		n, reps := 1, 1
		for size := 1; size <= 4 && reps < 3; size++ {
			for n, reps = size, 1; i+(reps+1)*n <= len(words) && strings.Join(words[i:i+n], " ") == strings.Join(words[i+reps*n:i+(reps+1)*n], " "); reps++ {
			}
		}
		if reps < 3 {
			n, reps = 1, 1
		}
		out, i = append(out, words[i:i+n]...), i+n*reps
	}
	return strings.Join(out, " ")
}

// removeNavigationLines drops lines dominated by navigation tokens,
// lines with >60% numeric words, lines with >40% repeated words, and
// short lines (<50 chars) with <50% alpha ratio.
func removeNavigationLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, line)
			continue
		}
		lc := strings.ToLower(trimmed)

		isNav := false
		for _, nav := range navigationWords {
			if strings.Contains(lc, nav) {
				isNav = true
				break
			}
		}
		if isNav {
			continue
		}

		words := strings.Fields(trimmed)
		if len(words) > 0 {
			numeric := 0
			for _, w := range words {
				if numericWordPattern.MatchString(w) {
					numeric++
				}
			}
			if float64(numeric)/float64(len(words)) > 0.6 {
				continue
			}

			if hasHighRepeatedWordRatio(words, 0.4) {
				continue
			}
		}

		if len(trimmed) < 50 && alphaRatio(trimmed) < 0.5 {
			continue
		}

		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

func hasHighRepeatedWordRatio(words []string, threshold float64) bool {
	if len(words) < 2 {
		return false
	}
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[strings.ToLower(w)]++
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	return float64(maxCount)/float64(len(words)) > threshold
}

func alphaRatio(s string) float64 {
	if s == "" {
		return 0
	}
	alpha := 0
	total := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alpha) / float64(total)
}

func removeSocialArtifacts(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if socialSharePattern.MatchString(line) && len(strings.TrimSpace(line)) < 80 {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = extraWhitespace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(s)
}
