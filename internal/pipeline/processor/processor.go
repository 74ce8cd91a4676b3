// Package processor is the per-document orchestrator: extractor →
// cleaner → scorer run in sequence over one raw record, with early
// exits at each validation gate. Grounded on the teacher's
// internal/core/services orchestration shape, generalized from
// store-backed service methods to a pure function of its input.
package processor

import (
	"net/url"
	"strings"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/pipeline/cleaner"
	"github.com/lumensearch/search-core/internal/pipeline/extractor"
	"github.com/lumensearch/search-core/internal/pipeline/scorer"
)

const (
	minHTMLBytes      = 500
	minContentLength  = 400
	maxChunkChars     = 8000
	docKeywordCap     = 10
	chunkKeywordCap   = 8
	docKeywordOverlap = 5
)

// Options tunes the gates the processor applies; the zero value is
// the spec's default configuration.
type Options struct {
	MinContentLength int
	MaxChunkChars    int
}

func (o Options) withDefaults() Options {
	if o.MinContentLength == 0 {
		o.MinContentLength = minContentLength
	}
	if o.MaxChunkChars == 0 {
		o.MaxChunkChars = maxChunkChars
	}
	return o
}

// Process runs the full pipeline for one raw record and returns the
// document plus its surviving chunks. Any rejection returns a
// sentinel from domain's tiered error set and no output — callers
// increment their own counters per the returned error's tier.
func Process(record domain.RawRecord, opts Options) (*domain.Document, []*domain.DocumentChunk, error) {
	opts = opts.withDefaults()

	pageURL := strings.TrimSpace(record.URL)
	if pageURL == "" {
		return nil, nil, domain.ErrMissingURL
	}
	if len(record.Content) < minHTMLBytes {
		return nil, nil, domain.ErrEmptyContent
	}

	if !IsEnglish(record.Content, pageURL) {
		return nil, nil, domain.ErrLanguageFiltered
	}

	facts := extractor.Parse(record.Content, pageURL)

	mainContent := extractor.ExtractContent(facts)
	if len(mainContent) < opts.MinContentLength {
		return nil, nil, domain.ErrContentTooShort
	}

	ogTitle := extractor.MetaValue(facts, "property:og:title")
	jsonLDHeadline := extractor.JSONLDString(facts, "headline")
	crawlerTitle := record.Title
	if crawlerTitle == "N/A" || crawlerTitle == "n/a" || crawlerTitle == "None" || crawlerTitle == "null" {
		crawlerTitle = ""
	}
	title := consolidateTitle(ogTitle, jsonLDHeadline, facts.PageTitle, crawlerTitle)

	cleanedContent := cleaner.CleanText(mainContent)
	if cleanedContent == "" {
		return nil, nil, domain.ErrContentTooShort
	}

	description := pickDescription(facts, cleanedContent)

	declaredKeywords := splitKeywords(extractor.MetaValue(facts, "name:keywords"))
	generatedKeywords := cleaner.Keywords(cleanedContent, nil)
	combinedKeywords := combineKeywords(declaredKeywords, generatedKeywords, docKeywordCap)

	headings := extractor.TableOfContents(facts)
	categories := scorer.Categories(cleanedContent, title)
	contentType := determineContentType(pageURL, description, headings, facts)

	domainName := record.Domain
	if domainName == "" {
		domainName = hostOf(pageURL)
	}

	domainScore := scorer.DomainScore(pageURL)
	qualityScore := scorer.ContentQualityScore(cleanedContent, scorer.Metadata{
		Title:       title,
		Description: description,
		Author:      authorName(facts),
		Date:        "",
	}, contentMetrics(cleanedContent, headings))

	published, modified := extractor.Dates(facts)

	documentID := domain.DocumentID(pageURL)
	doc := &domain.Document{
		DocumentID:      documentID,
		URL:             pageURL,
		CanonicalURL:    extractor.CanonicalURL(facts),
		Domain:          domainName,
		Title:           title,
		Description:     description,
		ContentType:     contentType,
		Categories:      firstN(categories, 3),
		Keywords:        combinedKeywords,
		PublishedDate:   published,
		ModifiedDate:    modified,
		AuthorInfo:      extractor.Author(facts),
		Images:          extractor.Images(facts),
		TableOfContents: headings,
		DomainScore:     float32(domainScore),
		QualityScore:    float32(qualityScore),
	}

	rawChunks := cleaner.Chunk(cleanedContent, record.Content)
	minWords := chunkMinWords(contentType)

	var qualityChunks []string
	for _, c := range rawChunks {
		qualityChunks = append(qualityChunks, splitOversized(c, opts.MaxChunkChars, minWords)...)
	}
	qualityChunks = filterByMinWords(qualityChunks, minWords)

	if len(qualityChunks) == 0 {
		return nil, nil, domain.ErrNoSurvivingChunk
	}

	chunks := make([]*domain.DocumentChunk, 0, len(qualityChunks))
	for i, text := range qualityChunks {
		chunkKeywords := firstN(cleaner.Keywords(text, nil), chunkKeywordCap)
		merged := combineKeywords(chunkKeywords, firstN(combinedKeywords, docKeywordOverlap), docKeywordCap)
		chunkID := domain.ChunkID(documentID, i)

		chunks = append(chunks, &domain.DocumentChunk{
			ChunkID:           chunkID,
			DocumentID:        documentID,
			URL:               pageURL,
			Title:             title,
			Domain:            domainName,
			TextChunk:         text,
			Headings:          headings,
			DomainScore:       float32(domainScore),
			QualityScore:      float32(qualityScore),
			WordCount:         len(strings.Fields(text)),
			ContentCategories: categories,
			Keywords:          merged,
			Position:          i,
		})
	}

	return doc, chunks, nil
}

func pickDescription(facts *extractor.RawFacts, cleanedContent string) string {
	candidates := []string{
		extractor.MetaValue(facts, "property:og:description"),
		extractor.MetaValue(facts, "name:description"),
		extractor.JSONLDString(facts, "description"),
	}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) > 10 {
			return cleaner.CleanText(c)
		}
	}
	return cleaner.Description(cleanedContent, 300)
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// combineKeywords merges declared (case preserved, highest priority)
// with generated, deduplicated case-insensitively, capped at max.
func combineKeywords(declared, generated []string, max int) []string {
	seen := make(map[string]struct{}, max)
	out := make([]string, 0, max)
	for _, group := range [][]string{declared, generated} {
		for _, k := range group {
			lk := strings.ToLower(k)
			if _, dup := seen[lk]; dup || k == "" {
				continue
			}
			seen[lk] = struct{}{}
			out = append(out, k)
			if len(out) >= max {
				return out
			}
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func authorName(facts *extractor.RawFacts) string {
	if a := extractor.Author(facts); a != nil {
		return a.Name
	}
	return ""
}

func contentMetrics(content string, headings []domain.Heading) scorer.ContentMetrics {
	sentences := cleaner.SplitSentences(content)
	words := strings.Fields(content)

	avgSentenceLen := 0.0
	if len(sentences) > 0 {
		avgSentenceLen = float64(len(words)) / float64(len(sentences))
	}

	return scorer.ContentMetrics{
		WordCount:         len(words),
		HasCodeBlocks:     strings.Contains(content, "```") || strings.Contains(content, "<code>"),
		HasLists:          strings.Contains(content, "\n- ") || strings.Contains(content, "\n* "),
		AvgSentenceLength: avgSentenceLen,
		HeadingCount:      len(headings),
		HasSemanticTags:   len(headings) > 0,
	}
}

func determineContentType(rawURL, description string, headings []domain.Heading, facts *extractor.RawFacts) domain.ContentType {
	lowerURL := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lowerURL, "/blog/") || strings.Contains(lowerURL, "blog."):
		return domain.ContentTypeBlog
	case strings.Contains(lowerURL, "/docs/") || strings.Contains(lowerURL, "docs."):
		return domain.ContentTypeDocumentation
	case strings.Contains(lowerURL, "/news/") || strings.Contains(lowerURL, "news."):
		return domain.ContentTypeNews
	case strings.Contains(lowerURL, "/forum/") || strings.Contains(lowerURL, "forum."):
		return domain.ContentTypeForum
	case strings.Contains(lowerURL, "arxiv.org") || strings.Contains(lowerURL, "/paper"):
		return domain.ContentTypeAcademic
	}

	lowerDesc := strings.ToLower(description)
	for _, kw := range []string{"tutorial", "guide", "documentation", "api", "code", "programming"} {
		if strings.Contains(lowerDesc, kw) {
			return domain.ContentTypeDocumentation
		}
	}
	if extractor.IsTechnical(description, nil) {
		return domain.ContentTypeTutorial
	}
	if len(headings) > 0 {
		return domain.ContentTypeArticle
	}
	return domain.ContentTypeGeneral
}

func chunkMinWords(contentType domain.ContentType) int {
	switch contentType {
	case domain.ContentTypeArticle, domain.ContentTypeBlog, domain.ContentTypeDocumentation:
		return 50
	default:
		return 30
	}
}

func filterByMinWords(chunks []string, minWords int) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if len(strings.Fields(c)) >= minWords {
			out = append(out, c)
		}
	}
	return out
}

// splitOversized recursively splits a chunk at sentence boundaries
// when it exceeds maxChars, never mid-sentence, dropping fragments
// that fall below minWords.
func splitOversized(chunk string, maxChars, minWords int) []string {
	if len(chunk) <= maxChars {
		return []string{chunk}
	}

	sentences := cleaner.SplitSentences(chunk)
	var out []string
	var current strings.Builder

	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" && len(strings.Fields(text)) >= minWords {
			out = append(out, text)
		}
		current.Reset()
	}

	for _, s := range sentences {
		candidate := current.Len() + len(s) + 1
		if candidate > maxChars && current.Len() > 0 {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(s)
	}
	flush()

	return out
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown.domain"
	}
	return u.Hostname()
}
