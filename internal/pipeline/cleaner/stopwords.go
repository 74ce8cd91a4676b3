package cleaner

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

// defaultStopWords is the fallback set used when no external
// stop-word file is configured, grounded on the original Python
// cleaner's fallback list.
var defaultStopWords = []string{
	"a", "about", "above", "after", "again", "all", "also", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being",
	"below", "between", "both", "but", "by", "can", "did", "do", "does",
	"doing", "down", "during", "each", "few", "for", "from", "further",
	"had", "has", "have", "having", "he", "her", "here", "hers", "herself",
	"him", "himself", "his", "how", "i", "if", "in", "into", "is", "it",
	"its", "itself", "just", "me", "more", "most", "my", "myself", "no",
	"nor", "not", "now", "of", "off", "on", "once", "only", "or", "other",
	"our", "ours", "ourselves", "out", "over", "own", "same", "she",
	"should", "so", "some", "such", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "these", "they",
	"this", "those", "through", "to", "too", "under", "until", "up",
	"very", "was", "we", "were", "what", "when", "where", "which",
	"while", "who", "whom", "why", "will", "with", "would", "you",
	"your", "yours", "yourself", "yourselves",
}

var (
	stopWordsOnce sync.Once
	stopWordsSet  map[string]struct{}
)

// StopWords returns the process-wide stop-word set, loaded exactly
// once per spec §5/§9 ("static resources ... loaded once at module
// initialization"). If STOPWORDS_FILE is set and readable, its lines
// are used instead of the built-in fallback list.
func StopWords() map[string]struct{} {
	stopWordsOnce.Do(func() {
		stopWordsSet = loadStopWords()
	})
	return stopWordsSet
}

func loadStopWords() map[string]struct{} {
	words := defaultStopWords

	if path := os.Getenv("STOPWORDS_FILE"); path != "" {
		if f, err := os.Open(path); err == nil {
			defer f.Close()
			var fromFile []string
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line != "" && !strings.HasPrefix(line, "#") {
					fromFile = append(fromFile, line)
				}
			}
			if len(fromFile) > 0 {
				words = fromFile
			}
		}
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
