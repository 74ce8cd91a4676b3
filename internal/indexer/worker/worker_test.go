package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/indexer/queue"
)

type fakeStore struct {
	mu      sync.Mutex
	batches [][]driven.BulkAction
	failN   int
	healthy bool
}

func (f *fakeStore) EnsureTemplate(ctx context.Context) error                        { return nil }
func (f *fakeStore) EnsureDailyIndices(ctx context.Context, date string) error       { return nil }
func (f *fakeStore) EnsureRetentionPolicy(ctx context.Context, days int) error       { return nil }
func (f *fakeStore) MultiGet(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	return nil, nil
}
func (f *fakeStore) SearchChunks(ctx context.Context, q string, size int, fallback bool) ([]driven.SearchHit, error) {
	return nil, nil
}

func (f *fakeStore) Bulk(ctx context.Context, actions []driven.BulkAction) ([]driven.BulkItemResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failN > 0 {
		f.failN--
		return nil, errBulkUnavailable
	}
	f.batches = append(f.batches, actions)
	results := make([]driven.BulkItemResult, len(actions))
	for i, a := range actions {
		results[i] = driven.BulkItemResult{ID: a.ID, Success: true}
	}
	return results, nil
}

func (f *fakeStore) HealthCheck(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.healthy {
		return nil
	}
	return errBulkUnavailable
}

type fakeDocStore struct {
	mu        sync.Mutex
	documents []*domain.Document
	chunks    []*domain.DocumentChunk
}

func (f *fakeDocStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents = append(f.documents, doc)
	return nil
}

func (f *fakeDocStore) SaveChunks(ctx context.Context, chunks []*domain.DocumentChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeDocStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeDocStore) GetDocuments(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	return nil, nil
}

func (f *fakeDocStore) CountDocuments(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.documents), nil
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errBulkUnavailable = sentinelErr("store unavailable")

func writeFreshFile(t *testing.T, dir, name string, n int) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	var lines []byte
	for i := 0; i < n; i++ {
		doc := domain.Document{DocumentID: "doc-" + name + "-" + itoa(i)}
		b, _ := json.Marshal(struct {
			Type string `json:"type"`
			domain.Document
		}{Type: "document", Document: doc})
		lines = append(lines, b...)
		lines = append(lines, '\n')
	}
	if err := os.WriteFile(filepath.Join(dir, name), lines, 0o644); err != nil {
		t.Fatal(err)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestWorkerMovesFreshFilesToProcessed(t *testing.T) {
	base := t.TempDir()
	fresh := filepath.Join(base, "fresh")
	backlog := filepath.Join(base, "backlog")
	processed := filepath.Join(base, "processed")
	failed := filepath.Join(base, "failed")
	writeFreshFile(t, fresh, "batch1.jsonl", 3)

	store := &fakeStore{healthy: true}
	q := queue.New(100, 100)
	w := New(Config{
		Store: store, Queue: q,
		FreshDir: fresh, BacklogDir: backlog, ProcessedDir: processed, FailedDir: failed,
		PollInterval: 20 * time.Millisecond, BatchTimeout: 30 * time.Millisecond,
		StatsInterval: time.Hour, HealthInterval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	time.Sleep(300 * time.Millisecond)
	cancel()
	w.Stop()

	entries, err := os.ReadDir(processed)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one file moved to processed, got %v err=%v", entries, err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.batches) == 0 {
		t.Fatal("expected at least one bulk batch flushed")
	}
}

func TestWorkerRoutesUnparseableFileToFailed(t *testing.T) {
	base := t.TempDir()
	fresh := filepath.Join(base, "fresh")
	failed := filepath.Join(base, "failed")
	os.MkdirAll(fresh, 0o755)
	os.WriteFile(filepath.Join(fresh, "bad.jsonl"), []byte("not json\n"), 0o644)

	store := &fakeStore{healthy: true}
	q := queue.New(10, 10)
	w := New(Config{
		Store: store, Queue: q,
		FreshDir: fresh, FailedDir: failed,
		PollInterval: 20 * time.Millisecond, StatsInterval: time.Hour, HealthInterval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	time.Sleep(150 * time.Millisecond)
	cancel()
	w.Stop()

	entries, err := os.ReadDir(failed)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected file moved to failed, got %v err=%v", entries, err)
	}
}

func TestFlushBatchMirrorsToDocStoreWhenConfigured(t *testing.T) {
	store := &fakeStore{healthy: true}
	docStore := &fakeDocStore{}
	w := New(Config{Store: store, DocStore: docStore, Queue: queue.New(10, 10)})

	doc := &domain.Document{DocumentID: "doc-1"}
	chunk := &domain.DocumentChunk{ChunkID: "chunk-1", DocumentID: "doc-1"}
	items := []*domain.QueueItem{
		{Type: domain.ItemTypeDocument, Document: doc},
		{Type: domain.ItemTypeChunk, Chunk: chunk},
	}

	w.flushBatch(context.Background(), items)

	docStore.mu.Lock()
	defer docStore.mu.Unlock()
	if len(docStore.documents) != 1 || docStore.documents[0].DocumentID != "doc-1" {
		t.Fatalf("expected document mirrored, got %+v", docStore.documents)
	}
	if len(docStore.chunks) != 1 || docStore.chunks[0].ChunkID != "chunk-1" {
		t.Fatalf("expected chunk mirrored, got %+v", docStore.chunks)
	}
}

func TestFlushBatchSkipsMirrorWithoutDocStore(t *testing.T) {
	store := &fakeStore{healthy: true}
	w := New(Config{Store: store, Queue: queue.New(10, 10)})

	items := []*domain.QueueItem{
		{Type: domain.ItemTypeDocument, Document: &domain.Document{DocumentID: "doc-1"}},
	}

	w.flushBatch(context.Background(), items)
}

func TestWorkerEntersOfflineModeOnHealthCheckFailure(t *testing.T) {
	store := &fakeStore{healthy: false}
	q := queue.New(10, 10)
	w := New(Config{Store: store, Queue: q, HealthInterval: 10 * time.Millisecond, PollInterval: time.Hour, StatsInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	time.Sleep(100 * time.Millisecond)
	cancel()
	w.Stop()

	if !w.isOffline() {
		t.Fatal("expected worker to be offline after failing health checks")
	}
}
