package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// ContentType classifies the kind of document the pipeline produced.
type ContentType string

const (
	ContentTypeArticle       ContentType = "article"
	ContentTypeBlog          ContentType = "blog"
	ContentTypeDocumentation ContentType = "documentation"
	ContentTypeTutorial      ContentType = "tutorial"
	ContentTypeNews          ContentType = "news"
	ContentTypeForum         ContentType = "forum"
	ContentTypeAcademic      ContentType = "academic"
	ContentTypeGeneral       ContentType = "general"
)

// Categories is the fixed vocabulary categories are drawn from. A
// document or chunk's Categories field must be a subset of these plus
// "general" as the universal fallback.
var Categories = []string{
	"technology", "programming", "science", "business", "health",
	"education", "entertainment", "sports", "politics", "general",
}

// RawRecord is the input to the processor, one per crawled page.
type RawRecord struct {
	URL       string `json:"url"`
	Content   string `json:"content"`
	Title     string `json:"title,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Heading is one entry of a document or chunk's table of contents /
// heading list, truncated to 200 chars of text at formatting time.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
}

// Image is a retained image reference from the extractor, top-10 per
// document, alt/title preserved, URL resolved against the base.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt,omitempty"`
	Title  string `json:"title,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// AuthorInfo is opaque to search: stored but never analyzed.
type AuthorInfo struct {
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
	Source  string `json:"source,omitempty"` // meta|structured|class|cms
}

// Document is one record per URL, identified by the stable hash of
// its URL. Re-processing the same URL updates the row in place.
type Document struct {
	DocumentID   string `json:"document_id"`
	URL          string `json:"url"`
	CanonicalURL string `json:"canonical_url,omitempty"`
	Domain       string `json:"domain"`
	Title        string `json:"title"`
	Description  string `json:"description"`

	ContentType ContentType `json:"content_type"`
	Categories  []string    `json:"categories"`
	Keywords    []string    `json:"keywords"`

	PublishedDate string `json:"published_date,omitempty"`
	ModifiedDate  string `json:"modified_date,omitempty"`

	AuthorInfo      *AuthorInfo       `json:"author_info,omitempty"`
	Images          []Image           `json:"images,omitempty"`
	TableOfContents []Heading         `json:"table_of_contents,omitempty"`
	SemanticInfo    map[string]any    `json:"semantic_info,omitempty"`
	StructuredData  []map[string]any  `json:"structured_data,omitempty"`
	Icons           map[string]string `json:"icons,omitempty"`

	DomainScore  float32 `json:"domain_score"`
	QualityScore float32 `json:"quality_score"`

	IndexedAt string `json:"indexed_at,omitempty"`
}

// DocumentChunk is N per document (N≥1), each a contiguous bounded
// span of the parent's cleaned text.
type DocumentChunk struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`

	// URL, Title and Domain are denormalized from the parent Document
	// at index time so the chunks index can diversify and render
	// results without a parent multi-get (see query/service's
	// diversifyByDomain).
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
	Domain string `json:"domain"`

	TextChunk string    `json:"text_chunk"`
	Headings  []Heading `json:"headings,omitempty"`

	DomainScore       float32  `json:"domain_score"`
	QualityScore      float32  `json:"quality_score"`
	WordCount         int      `json:"word_count"`
	ContentCategories []string `json:"content_categories"`
	Keywords          []string `json:"keywords"`

	Position  int `json:"position"`
	StartChar int `json:"start_char"`
	EndChar   int `json:"end_char"`

	IndexedAt string `json:"indexed_at,omitempty"`
}

// DocumentID computes the stable hex-MD5 identity of a URL. Hashes
// the raw URL, not a canonicalized form — see DESIGN.md Open Question 2.
func DocumentID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// ChunkID computes the stable identity of one chunk of a document.
func ChunkID(documentID string, index int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_chunk_%d", documentID, index)))
	return hex.EncodeToString(sum[:])
}

// DocumentWithChunks bundles a processed document with its chunks,
// the unit the pipeline runner writes to its output files and the
// indexer worker reads back.
type DocumentWithChunks struct {
	Document *Document        `json:"document"`
	Chunks   []*DocumentChunk `json:"chunks"`
}
