// Package scorer computes domain authority, content-quality, and
// category scores as pure functions over extracted/cleaned data,
// grounded on the original Python DomainRanker/ContentScorer.
package scorer

import (
	"net/url"
	"strings"
)

const unknownDomainScore = 0.3

// domainScores is checked for an exact netloc match first, then as a
// TLD suffix match (entries starting with "."). Static, loaded once
// at package init — no mutation at runtime.
var domainScores = map[string]float64{
	"wikipedia.org":           0.9,
	"github.com":              0.85,
	"stackoverflow.com":       0.8,
	"arxiv.org":               0.85,
	"nature.com":              0.9,
	"science.org":             0.9,
	"pubmed.ncbi.nlm.nih.gov": 0.85,
	"reuters.com":             0.8,
	"bbc.com":                 0.8,
	"cnn.com":                 0.7,
	"npr.org":                 0.75,
	"techcrunch.com":          0.7,
	"arstechnica.com":         0.75,
	"wired.com":               0.7,

	".edu":  0.8,
	".ac.uk": 0.8,
	".gov":  0.75,
	".mil":  0.7,
	".org":  0.6,
	".com":  0.5,
	".net":  0.45,
	".info": 0.4,
	".biz":  0.35,
}

// DomainScore looks up the host's authority score: exact netloc match
// preferred, then longest-suffix TLD-pattern match, else the default
// for unknown hosts.
func DomainScore(rawURL string) float64 {
	u, err := url.Parse(rawURL)
	if err != nil {
		return unknownDomainScore
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return unknownDomainScore
	}

	if score, ok := domainScores[host]; ok {
		return score
	}

	best := unknownDomainScore
	bestLen := -1
	for pattern, score := range domainScores {
		if !strings.HasPrefix(pattern, ".") {
			continue
		}
		if strings.HasSuffix(host, pattern) && len(pattern) > bestLen {
			best = score
			bestLen = len(pattern)
		}
	}
	return best
}
