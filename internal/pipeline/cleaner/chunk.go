package cleaner

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxChunkSize        = 2000
	minChunkSize        = 400
	overlapSentences    = 2
	longFormThreshold   = 5000
	importanceThreshold = 0.3
)

var (
	contentIndicators = []string{"content", "article", "main", "body", "text", "post", "entry"}
	navIndicators     = []string{"nav", "menu", "sidebar", "footer", "header", "ad", "advertisement"}
)

// Chunk splits cleaned document text into chunks that accumulate up to
// maxChunkSize characters. When the original HTML is available it
// walks the heading hierarchy and scores each section's elements for
// content importance before including them (spec §4.2's structural
// chunking), keeping only chunks of at least minChunkSize; otherwise it
// falls back to paragraph-merge chunking for long-form text (beyond
// longFormThreshold) and sentence accumulation for everything else,
// both with sentence overlap between neighbouring chunks. The text
// paths may keep a chunk shorter than minChunkSize (a short input
// yields one short chunk), and a single paragraph-like element or
// sentence longer than maxChunkSize outside the heading and long-form
// paths stays whole. Grounded on cleaner.py's intelligent_chunking /
// _enhanced_chunk_by_html_structure / _calculate_content_importance.
func Chunk(cleanedText, html string) []string {
	if strings.TrimSpace(cleanedText) == "" {
		return nil
	}

	if html != "" {
		if chunks := chunkByHTMLStructure(html); len(chunks) > 0 {
			return chunks
		}
	}

	if len(cleanedText) > longFormThreshold {
		return chunkLongForm(cleanedText)
	}
	return chunkBySentences(cleanedText)
}

// chunkByHTMLStructure anchors chunks on headings when present, else
// falls back to per-paragraph importance scoring across the whole
// document. Malformed HTML yields a nil slice so the caller drops to
// the text-only strategies.
func chunkByHTMLStructure(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	headings := doc.Find("h1, h2, h3, h4, h5, h6")

	var chunks []string
	if headings.Length() > 0 {
		headings.Each(func(_ int, h *goquery.Selection) {
			headingText := strings.TrimSpace(h.Text())
			parts := collectSectionContent(h, headingLevel(h))
			if headingText == "" && len(parts) == 0 {
				return
			}

			all := make([]string, 0, len(parts)+1)
			if headingText != "" {
				all = append(all, headingText)
			}
			all = append(all, parts...)

			chunks = appendSection(chunks, strings.Join(all, " "), headingText)
		})
	} else {
		chunks = chunkByParagraphImportance(doc)
	}

	valid := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if len(c) >= minChunkSize {
			valid = append(valid, c)
		}
	}
	return valid
}

func headingLevel(h *goquery.Selection) int {
	name := goquery.NodeName(h)
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 6
}

// collectSectionContent gathers the content elements following a
// heading up to (not including) the next heading of equal or higher
// level, scoring each for content importance before inclusion.
func collectSectionContent(heading *goquery.Selection, level int) []string {
	stops := make([]string, 0, level)
	for l := 1; l <= level; l++ {
		stops = append(stops, fmt.Sprintf("h%d", l))
	}
	siblings := heading.NextUntil(strings.Join(stops, ", "))

	var elements []string
	siblings.Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "p", "div", "section", "article", "li", "td", "blockquote", "pre":
			text := strings.TrimSpace(s.Text())
			if len(text) > 15 && contentImportance(s, text) >= importanceThreshold {
				elements = append(elements, text)
			}
		case "ul", "ol":
			var items []string
			s.Find("li").Each(func(_ int, li *goquery.Selection) {
				if t := strings.TrimSpace(li.Text()); t != "" {
					items = append(items, "• "+t)
				}
			})
			if len(items) > 0 {
				listText := strings.Join(items, "\n")
				if contentImportance(s, listText) >= importanceThreshold {
					elements = append(elements, listText)
				}
			}
		case "table":
			if tableText := extractTableContent(s); tableText != "" {
				if contentImportance(s, tableText) >= importanceThreshold {
					elements = append(elements, tableText)
				}
			}
		}
	})
	return elements
}

// contentImportance scores one element's extracted text on length,
// vocabulary diversity, element type, class/id content-vs-navigation
// markers and sentence structure, clamped to [0,1]. Grounded on
// cleaner.py's _calculate_content_importance.
func contentImportance(s *goquery.Selection, text string) float64 {
	score := 0.0

	words := strings.Fields(text)
	wordCount := len(words)
	switch {
	case wordCount >= 50:
		score += 0.3 + 0.2 + 0.1
	case wordCount >= 25:
		score += 0.3 + 0.2
	case wordCount >= 10:
		score += 0.3
	}

	unique := make(map[string]struct{}, wordCount)
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	if wordCount > 0 && float64(len(unique)) > float64(wordCount)*0.7 {
		score += 0.2
	}

	switch goquery.NodeName(s) {
	case "article", "main", "section":
		score += 0.3
	case "p", "blockquote":
		score += 0.2
	case "li", "td":
		score += 0.1
	}

	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	marker := strings.ToLower(class + " " + id)
	for _, indicator := range contentIndicators {
		if strings.Contains(marker, indicator) {
			score += 0.2
			break
		}
	}
	for _, indicator := range navIndicators {
		if strings.Contains(marker, indicator) {
			score -= 0.3
			break
		}
	}

	if strings.ContainsAny(text, ".!?") {
		score += 0.1
	}
	if strings.Count(text, ".") >= 2 {
		score += 0.1
	}

	if wordCount > 0 && float64(len(unique)) < float64(wordCount)*0.5 {
		score -= 0.2
	}

	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

func extractTableContent(table *goquery.Selection) string {
	var rows []string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			if t := strings.TrimSpace(cell.Text()); t != "" {
				cells = append(cells, t)
			}
		})
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	})
	return strings.Join(rows, "\n")
}

// appendSection places a heading section's joined content, splitting
// it if oversized, merging it into the previous chunk if undersized
// and there's room, or standing it alone when it's at least minimally
// substantial (50 chars).
func appendSection(chunks []string, text, headingText string) []string {
	switch {
	case len(text) > maxChunkSize:
		return append(chunks, splitLargeChunk(text, headingText)...)
	case len(text) >= minChunkSize:
		return append(chunks, text)
	case len(chunks) > 0 && len(chunks[len(chunks)-1])+len(text)+2 <= maxChunkSize:
		chunks[len(chunks)-1] = chunks[len(chunks)-1] + "\n\n" + text
		return chunks
	case len(text) >= 50:
		return append(chunks, text)
	default:
		return chunks
	}
}

// chunkByParagraphImportance is the fallback for HTML with no heading
// structure: it walks paragraph-like elements in document order,
// filtering by contentImportance and accumulating into maxChunkSize
// windows.
func chunkByParagraphImportance(doc *goquery.Document) []string {
	var chunks []string
	var current strings.Builder

	doc.Find("p, div, section, article").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) < 20 || contentImportance(s, text) < importanceThreshold {
			return
		}

		if current.Len() > 0 && current.Len()+len(text) > maxChunkSize {
			chunks = appendOrMerge(chunks, current.String(), " ")
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(text)
	})

	return appendOrMerge(chunks, current.String(), " ")
}

// chunkLongForm merges paragraphs up to maxChunkSize, splitting any
// single paragraph that alone exceeds it, and injects sentence overlap
// across the result. Grounded on cleaner.py's _chunk_long_form_content.
func chunkLongForm(content string) []string {
	paragraphs := splitParagraphs(content)
	if len(paragraphs) == 0 {
		return chunkBySentences(content)
	}

	var chunks []string
	var current strings.Builder

	for _, p := range paragraphs {
		if current.Len() > 0 && current.Len()+len(p) > maxChunkSize {
			chunks = appendOrMerge(chunks, current.String(), "\n\n")
			current.Reset()
		}

		if len(p) > maxChunkSize {
			chunks = append(chunks, splitLargeChunk(p, "")...)
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}

	chunks = appendOrMerge(chunks, current.String(), "\n\n")

	if len(chunks) > 1 {
		chunks = addOverlap(chunks, overlapSentences)
	}
	return chunks
}

// splitLargeChunk breaks an oversized section into sentence-bounded
// sub-chunks, re-seeding the heading context into each new sub-chunk,
// and further splitting any single sentence that alone exceeds
// maxChunkSize on word boundaries.
func splitLargeChunk(text, headingContext string) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		if len(text) >= minChunkSize {
			return []string{text}
		}
		return nil
	}

	var chunks []string
	var current strings.Builder
	current.WriteString(headingContext)

	for _, sentence := range sentences {
		sep := 0
		if current.Len() > 0 {
			sep = 2
		}
		if current.Len()+len(sentence)+sep <= maxChunkSize {
			if current.Len() > 0 {
				current.WriteString(". ")
			}
			current.WriteString(sentence)
			continue
		}

		chunks = appendOrMerge(chunks, current.String(), ". ")
		current.Reset()

		if len(sentence) > maxChunkSize {
			chunks = append(chunks, splitWords(sentence)...)
			continue
		}

		if headingContext != "" {
			current.WriteString(headingContext)
			current.WriteString(". ")
		}
		current.WriteString(sentence)
	}

	return appendOrMerge(chunks, current.String(), ". ")
}

// splitWords handles the rare single sentence that alone exceeds
// maxChunkSize, packing whole words into maxChunkSize windows.
func splitWords(sentence string) []string {
	words := strings.Fields(sentence)
	var pieces []string
	var current []string
	currentLen := 0

	for _, w := range words {
		wl := len(w) + 1
		if currentLen+wl > maxChunkSize && len(current) > 0 {
			pieces = append(pieces, strings.Join(current, " "))
			current = nil
			currentLen = 0
		}
		current = append(current, w)
		currentLen += wl
	}
	if len(current) > 0 {
		pieces = append(pieces, strings.Join(current, " "))
	}

	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if len(p) >= minChunkSize {
			out = append(out, p)
		}
	}
	return out
}

// chunkBySentences is the plain-text strategy for content at or under
// longFormThreshold: accumulate sentences up to maxChunkSize, then
// overlap one trailing sentence into the next chunk. Grounded on
// cleaner.py's _chunk_by_sentences / _add_overlap.
func chunkBySentences(content string) []string {
	sentences := SplitSentences(content)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		sep := 0
		if current.Len() > 0 {
			sep = 1
		}
		if current.Len()+len(sentence)+sep <= maxChunkSize {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)
			continue
		}

		chunks = appendOrMerge(chunks, current.String(), " ")
		current.Reset()
		current.WriteString(sentence)
	}

	chunks = appendOrMerge(chunks, current.String(), " ")

	if len(chunks) > 1 {
		chunks = addOverlap(chunks, 1)
	}
	return chunks
}

// appendOrMerge trims text and either starts a new chunk (when it
// clears minChunkSize, or it's the first chunk so far) or folds it
// into the previous chunk when there's room, else stands it alone.
func appendOrMerge(chunks []string, text, sep string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return chunks
	}
	if len(text) >= minChunkSize || len(chunks) == 0 {
		return append(chunks, text)
	}
	if len(chunks[len(chunks)-1])+len(sep)+len(text) <= maxChunkSize {
		chunks[len(chunks)-1] = chunks[len(chunks)-1] + sep + text
		return chunks
	}
	return append(chunks, text)
}

// addOverlap prepends the last n sentences of each chunk onto the
// next, bounded so the combined text never exceeds maxChunkSize.
// Grounded on cleaner.py's _add_overlap / _add_enhanced_overlap.
func addOverlap(chunks []string, n int) []string {
	if len(chunks) <= 1 {
		return chunks
	}

	overlapped := make([]string, len(chunks))
	overlapped[0] = chunks[0]

	for i := 1; i < len(chunks); i++ {
		overlapped[i] = chunks[i]

		prev := SplitSentences(chunks[i-1])
		take := n
		if take > len(prev) {
			take = len(prev)
		}
		if take == 0 {
			continue
		}

		overlapText := strings.Join(prev[len(prev)-take:], ". ") + ". "
		if combined := overlapText + chunks[i]; len(combined) <= maxChunkSize {
			overlapped[i] = combined
		}
	}

	return overlapped
}
