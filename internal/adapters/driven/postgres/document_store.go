package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore mirrors Document/DocumentChunk rows into PostgreSQL.
// It is a secondary copy written by the indexer after each successful
// bulk batch; the query path reads from the index store only.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// SaveDocument upserts a document keyed by document_id.
func (s *DocumentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	categoriesJSON, err := json.Marshal(doc.Categories)
	if err != nil {
		return err
	}
	keywordsJSON, err := json.Marshal(doc.Keywords)
	if err != nil {
		return err
	}
	fieldsJSON, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (document_id, url, domain, title, description, content_type, categories, keywords, domain_score, quality_score, fields)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (document_id) DO UPDATE SET
			url = EXCLUDED.url,
			domain = EXCLUDED.domain,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			content_type = EXCLUDED.content_type,
			categories = EXCLUDED.categories,
			keywords = EXCLUDED.keywords,
			domain_score = EXCLUDED.domain_score,
			quality_score = EXCLUDED.quality_score,
			fields = EXCLUDED.fields
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.DocumentID, doc.URL, doc.Domain, doc.Title, doc.Description,
		string(doc.ContentType), categoriesJSON, keywordsJSON,
		doc.DomainScore, doc.QualityScore, fieldsJSON,
	)
	return err
}

// SaveChunks upserts all chunks belonging to one document in a
// transaction.
func (s *DocumentStore) SaveChunks(ctx context.Context, chunks []*domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO chunks (chunk_id, document_id, text_chunk, word_count, domain_score, quality_score, position, fields)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (chunk_id) DO UPDATE SET
				text_chunk = EXCLUDED.text_chunk,
				word_count = EXCLUDED.word_count,
				domain_score = EXCLUDED.domain_score,
				quality_score = EXCLUDED.quality_score,
				position = EXCLUDED.position,
				fields = EXCLUDED.fields
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			fieldsJSON, err := json.Marshal(chunk)
			if err != nil {
				return err
			}
			_, err = stmt.ExecContext(ctx,
				chunk.ChunkID, chunk.DocumentID, chunk.TextChunk, chunk.WordCount,
				chunk.DomainScore, chunk.QualityScore, chunk.Position, fieldsJSON,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// GetDocument retrieves a single document by id.
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT fields FROM documents WHERE document_id = $1`

	var fieldsJSON []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&fieldsJSON)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var doc domain.Document
	if err := json.Unmarshal(fieldsJSON, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocuments retrieves documents by id in bulk.
func (s *DocumentStore) GetDocuments(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	result := make(map[string]*domain.Document, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT document_id, fields FROM documents WHERE document_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var fieldsJSON []byte
		if err := rows.Scan(&id, &fieldsJSON); err != nil {
			return nil, err
		}
		var doc domain.Document
		if err := json.Unmarshal(fieldsJSON, &doc); err != nil {
			return nil, err
		}
		result[id] = &doc
	}

	return result, rows.Err()
}

// CountDocuments returns the total mirrored document count.
func (s *DocumentStore) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}
