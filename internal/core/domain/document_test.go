package domain

import "testing"

func TestDocumentIDDeterministic(t *testing.T) {
	a := DocumentID("https://example.com/post")
	b := DocumentID("https://example.com/post")
	if a != b {
		t.Fatalf("document id not deterministic: %q != %q", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32-char hex md5, got %d chars", len(a))
	}
}

func TestDocumentIDDiffersByURL(t *testing.T) {
	a := DocumentID("https://example.com/post-a")
	b := DocumentID("https://example.com/post-b")
	if a == b {
		t.Fatal("expected different urls to produce different document ids")
	}
}

func TestChunkIDStableAndUnique(t *testing.T) {
	docID := DocumentID("https://example.com/post")
	c0 := ChunkID(docID, 0)
	c1 := ChunkID(docID, 1)
	if c0 == c1 {
		t.Fatal("expected distinct chunk ids for distinct positions")
	}
	if ChunkID(docID, 0) != c0 {
		t.Fatal("expected chunk id to be stable across calls")
	}
}

func TestQueueItemIndexID(t *testing.T) {
	doc := &Document{DocumentID: "d1"}
	item := &QueueItem{Type: ItemTypeDocument, Document: doc}
	id, alias := item.IndexID()
	if id != "d1" || alias != "documents" {
		t.Fatalf("unexpected index id/alias: %q/%q", id, alias)
	}

	chunk := &DocumentChunk{ChunkID: "c1", DocumentID: "d1"}
	item = &QueueItem{Type: ItemTypeChunk, Chunk: chunk}
	id, alias = item.IndexID()
	if id != "c1" || alias != "chunks" {
		t.Fatalf("unexpected index id/alias: %q/%q", id, alias)
	}
}

func TestDocumentWithChunks(t *testing.T) {
	doc := &Document{DocumentID: "doc-123", Title: "Test Document"}
	chunks := []*DocumentChunk{
		{ChunkID: "chunk-1", DocumentID: "doc-123", TextChunk: "First chunk"},
		{ChunkID: "chunk-2", DocumentID: "doc-123", TextChunk: "Second chunk"},
	}

	bundle := &DocumentWithChunks{Document: doc, Chunks: chunks}

	if bundle.Document.DocumentID != "doc-123" {
		t.Errorf("expected document id doc-123, got %s", bundle.Document.DocumentID)
	}
	if len(bundle.Chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(bundle.Chunks))
	}
	if bundle.Chunks[0].TextChunk != "First chunk" {
		t.Errorf("unexpected first chunk text: %s", bundle.Chunks[0].TextChunk)
	}
}
