package scorer

import (
	"regexp"
	"strings"
)

// ContentMetrics carries the structural signals the processor already
// computed while walking the document, so the scorer stays a pure
// function over plain data rather than re-parsing HTML.
type ContentMetrics struct {
	WordCount         int
	HasCodeBlocks     bool
	HasLists          bool
	AvgSentenceLength float64
	HeadingCount      int
	HasSemanticTags   bool
	HasTables         bool
}

// Metadata is the subset of document metadata the quality scorer
// reads; kept narrow and decoupled from domain.Document.
type Metadata struct {
	Title       string
	Description string
	Author      string
	Date        string
}

var qualityWeights = struct {
	length, structure, contentType, language, metadata, technical, authority, completeness float64
}{
	length: 0.20, structure: 0.20, contentType: 0.15, language: 0.10,
	metadata: 0.10, technical: 0.10, authority: 0.10, completeness: 0.05,
}

// ContentQualityScore is the weighted sum of eight factor scores
// (length, structure, content type, language quality, metadata,
// technical bonus, authoritativeness, completeness), each roughly in
// [0, 2]; the technical bonus alone is capped at 2.5.
func ContentQualityScore(content string, meta Metadata, metrics ContentMetrics) float64 {
	if content == "" {
		return 0.1
	}

	return qualityWeights.length*lengthScore(metrics.WordCount) +
		qualityWeights.structure*structureScore(metrics) +
		qualityWeights.contentType*contentTypeScore(content, meta.Title) +
		qualityWeights.language*languageQualityScore(content) +
		qualityWeights.metadata*metadataScore(meta) +
		qualityWeights.technical*technicalContentBonus(content) +
		qualityWeights.authority*authoritativenessScore(content, meta.Title) +
		qualityWeights.completeness*completenessScore(content, metrics)
}

func lengthScore(wordCount int) float64 {
	switch {
	case wordCount < 30:
		return 0.05
	case wordCount < 50:
		return 0.15
	case wordCount < 75:
		return 0.4
	case wordCount < 150:
		return 0.8
	case wordCount < 300:
		return 1.3
	case wordCount <= 1000:
		return 1.5
	case wordCount <= 3000:
		return 1.4
	default:
		return 1.2
	}
}

func structureScore(m ContentMetrics) float64 {
	score := 1.0
	if m.HasCodeBlocks {
		score *= 1.2
	}
	if m.HasLists {
		score *= 1.1
	}
	if m.AvgSentenceLength >= 10 && m.AvgSentenceLength <= 25 {
		score *= 1.1
	}
	switch {
	case m.HeadingCount >= 3:
		score *= 1.15
	case m.HeadingCount >= 1:
		score *= 1.05
	}
	if m.HasSemanticTags {
		score *= 1.1
	}
	if m.HasTables {
		score *= 1.08
	}
	return score
}

var educationalIndicators = map[string][]string{
	"strong": {"tutorial", "guide", "documentation", "manual", "reference", "api", "how-to"},
	"medium": {"example", "demo", "introduction", "overview", "basics", "fundamentals"},
	"weak":   {"blog", "news", "announcement", "release"},
}

var qualityPositiveWords = []string{"detailed", "comprehensive", "complete", "thorough", "in-depth"}
var qualityNegativeWords = []string{"broken", "outdated", "deprecated", "old", "legacy"}

func contentTypeScore(content, title string) float64 {
	contentLower := strings.ToLower(content)
	titleLower := strings.ToLower(title)
	score := 1.0

	for _, strength := range []string{"strong", "medium", "weak"} {
		bonus := map[string]float64{"strong": 1.4, "medium": 1.25, "weak": 1.1}[strength]
		for _, indicator := range educationalIndicators[strength] {
			if strings.Contains(contentLower, indicator) || strings.Contains(titleLower, indicator) {
				score *= bonus
				break
			}
		}
	}

	positive := 0
	for _, w := range qualityPositiveWords {
		if strings.Contains(contentLower, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range qualityNegativeWords {
		if strings.Contains(contentLower, w) {
			negative++
		}
	}
	score *= 1 + float64(positive)*0.08
	score *= 1 - float64(negative)*0.15

	if score < 0.1 {
		return 0.1
	}
	return score
}

func languageQualityScore(content string) float64 {
	if content == "" {
		return 0.1
	}
	score := 1.0

	upper := 0
	punct := 0
	total := len([]rune(content))
	for _, r := range content {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
		if strings.ContainsRune(".,!?;:", r) {
			punct++
		}
	}
	capRatio := float64(upper) / float64(total)
	if capRatio >= 0.02 && capRatio <= 0.08 {
		score *= 1.1
	} else if capRatio > 0.15 {
		score *= 0.8
	}

	punctRatio := float64(punct) / float64(total)
	if punctRatio >= 0.03 && punctRatio <= 0.12 {
		score *= 1.05
	}

	words := strings.Fields(strings.ToLower(content))
	if len(words) > 0 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		if float64(len(unique))/float64(len(words)) > 0.4 {
			score *= 1.1
		}
	}

	return score
}

func metadataScore(meta Metadata) float64 {
	score := 1.0

	if meta.Title != "" {
		if len(meta.Title) >= 10 && len(meta.Title) <= 120 {
			score *= 1.1
		}
		tl := strings.ToLower(meta.Title)
		for _, w := range []string{"how", "guide", "tutorial", "api"} {
			if strings.Contains(tl, w) {
				score *= 1.05
				break
			}
		}
	}

	if len(meta.Description) > 50 {
		score *= 1.05
	}
	if meta.Author != "" {
		score *= 1.02
	}
	if meta.Date != "" {
		score *= 1.02
	}

	return score
}

var progLanguages = []string{
	"python", "javascript", "java", "c++", "c#", "php", "ruby", "go", "rust", "swift",
	"kotlin", "typescript", "scala", "haskell", "clojure", "erlang", "elixir",
}

var techTerms = []string{
	"api", "rest", "graphql", "database", "sql", "nosql", "mongodb", "redis",
	"docker", "kubernetes", "aws", "azure", "gcp", "react", "vue", "angular",
	"node.js", "express", "django", "flask", "spring", "laravel", "algorithm",
	"optimization", "performance", "architecture", "design", "pattern", "framework",
}

var advancedConcepts = []string{
	"decorator", "metaclass", "coroutine", "async", "await", "closure", "lambda",
	"generator", "iterator", "inheritance", "polymorphism", "encapsulation",
	"abstraction", "interface", "middleware", "microservice", "testing", "unittest",
}

func technicalContentBonus(content string) float64 {
	contentLower := strings.ToLower(content)
	score := 1.0

	langMentions := countMatches(contentLower, progLanguages)
	if langMentions > 0 {
		score *= 1 + float64(langMentions)*0.05
	}

	techMentions := countMatches(contentLower, techTerms)
	if techMentions > 0 {
		score *= 1 + float64(techMentions)*0.03
	}

	conceptMentions := countMatches(contentLower, advancedConcepts)
	if conceptMentions > 0 {
		score *= 1 + float64(conceptMentions)*0.04
	}

	if strings.Contains(content, "```") || strings.Contains(content, "<code>") {
		score *= 1.25
	}
	if strings.Count(content, "def ") > 0 || strings.Count(content, "function ") > 0 {
		score *= 1.15
	}
	if strings.Contains(contentLower, "class ") {
		score *= 1.1
	}

	if score > 2.5 {
		return 2.5
	}
	return score
}

func countMatches(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[\d+\]`),
	regexp.MustCompile(`\(\d{4}\)`),
	regexp.MustCompile(`doi:`),
	regexp.MustCompile(`isbn:`),
	regexp.MustCompile(`arxiv:`),
	regexp.MustCompile(`according to`),
	regexp.MustCompile(`research shows`),
	regexp.MustCompile(`study found`),
	regexp.MustCompile(`published in`),
}

var credentialIndicators = []string{
	"phd", "ph.d", "doctor", "professor", "researcher",
	"expert", "scientist", "engineer", "certified",
	"author:", "by:", "written by",
}

var institutionalIndicators = []string{
	"university", "institute", "research center",
	"official", "documentation", "specification",
	"standard", "rfc", "ieee", "acm",
}

func authoritativenessScore(content, title string) float64 {
	score := 1.0
	contentLower := strings.ToLower(content)
	titleLower := strings.ToLower(title)

	citations := 0
	for _, p := range citationPatterns {
		citations += len(p.FindAllString(contentLower, -1))
	}
	if citations > 0 {
		bonus := float64(citations) * 0.1
		if bonus > 0.5 {
			bonus = 0.5
		}
		score *= 1 + bonus
	}

	for _, ind := range credentialIndicators {
		if strings.Contains(contentLower, ind) || strings.Contains(titleLower, ind) {
			score *= 1.1
			break
		}
	}

	for _, ind := range institutionalIndicators {
		if strings.Contains(contentLower, ind) || strings.Contains(titleLower, ind) {
			score *= 1.15
			break
		}
	}

	if score > 2.0 {
		return 2.0
	}
	return score
}

var coverageIndicators = []string{
	"overview", "introduction", "conclusion", "summary",
	"background", "methodology", "results", "discussion",
	"examples", "case study", "implementation", "usage",
}

var depthIndicators = []string{
	"detailed", "comprehensive", "thorough", "in-depth",
	"step-by-step", "complete guide", "full tutorial",
	"advanced", "deep dive", "extensive",
}

func completenessScore(content string, metrics ContentMetrics) float64 {
	score := 1.0
	contentLower := strings.ToLower(content)

	coverage := countMatches(contentLower, coverageIndicators)
	switch {
	case coverage >= 4:
		score *= 1.3
	case coverage >= 2:
		score *= 1.15
	case coverage >= 1:
		score *= 1.05
	}

	for _, ind := range depthIndicators {
		if strings.Contains(contentLower, ind) {
			score *= 1.1
			break
		}
	}

	switch {
	case metrics.HeadingCount >= 5:
		score *= 1.2
	case metrics.HeadingCount >= 3:
		score *= 1.1
	}

	if score > 1.8 {
		return 1.8
	}
	return score
}
