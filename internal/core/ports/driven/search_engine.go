package driven

import (
	"context"

	"github.com/lumensearch/search-core/internal/core/domain"
)

// BulkAction is one `{_index, _id, _source}` action sent in a bulk
// call, per spec §6.
type BulkAction struct {
	Index  string
	ID     string
	Source any
}

// BulkItemResult reports the per-item outcome of one bulk call.
type BulkItemResult struct {
	ID      string
	Success bool
	Error   string
}

// SearchHit is one row of a chunk search response, before the query
// service merges in parent-document fields.
type SearchHit struct {
	ChunkID      string
	DocumentID   string
	URL          string
	Title        string
	Domain       string
	TextChunk    string
	Headings     []domain.Heading
	DomainScore  float32
	QualityScore float32
	Keywords     []string
	Categories   []string
	Score        float64
}

// IndexStore is the driven port against the external inverted-index
// engine. It issues exactly the six wire-level operations spec.md §6
// names and nothing else: template create, daily-index+alias create,
// ILM policy create, bulk, multi-get, search.
type IndexStore interface {
	// EnsureTemplate creates or replaces the index template for the
	// documents-* and chunks-* patterns.
	EnsureTemplate(ctx context.Context) error

	// EnsureDailyIndices creates today's documents-{date}/chunks-{date}
	// indices if absent and points the documents/chunks aliases at them.
	EnsureDailyIndices(ctx context.Context, date string) error

	// EnsureRetentionPolicy creates the hot->delete lifecycle policy at
	// the given retention in days. A cluster without policy support
	// surfaces as an error; deciding whether to continue is the caller's.
	EnsureRetentionPolicy(ctx context.Context, retentionDays int) error

	// Bulk submits a batch of index actions in one network call.
	Bulk(ctx context.Context, actions []BulkAction) ([]BulkItemResult, error)

	// MultiGet fetches documents by id from the documents alias.
	MultiGet(ctx context.Context, ids []string) (map[string]*domain.Document, error)

	// SearchChunks issues a search against the chunks alias, returning
	// at most size hits. fallback selects the relaxed query shape
	// instead of the primary one.
	SearchChunks(ctx context.Context, query string, size int, fallback bool) ([]SearchHit, error)

	// HealthCheck verifies the index store is reachable.
	HealthCheck(ctx context.Context) error
}
