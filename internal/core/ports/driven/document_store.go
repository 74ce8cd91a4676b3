package driven

import (
	"context"

	"github.com/lumensearch/search-core/internal/core/domain"
)

// DocumentStore mirrors documents/chunks into Postgres as a secondary
// metadata store. The indexer writes to it after each successful bulk
// batch; the query service reads from the index store only.
type DocumentStore interface {
	// SaveDocument upserts a document keyed by DocumentID.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks upserts all chunks of one document in a transaction.
	SaveChunks(ctx context.Context, chunks []*domain.DocumentChunk) error

	// GetDocument retrieves a document by id.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocuments retrieves documents by id in bulk.
	GetDocuments(ctx context.Context, ids []string) (map[string]*domain.Document, error)

	// CountDocuments returns the total mirrored document count.
	CountDocuments(ctx context.Context) (int, error)
}
