package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/metrics"
)

// flusherLoop is the queue's single consumer: it batches admitted
// items and bulk-writes them, flushing on buffer-full, on
// BatchTimeout-with-pending-items, or on shutdown (spec §4.7).
func (w *Worker) flusherLoop(ctx context.Context) {
	buf := make([]*domain.QueueItem, 0, w.cfg.BulkChunkSize)
	timer := time.NewTimer(w.cfg.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(buf) == 0 {
			return
		}
		w.flushBatch(ctx, buf)
		buf = buf[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.stopCh:
			w.drainQueue(ctx, &buf)
			flush()
			return
		case <-timer.C:
			flush()
			timer.Reset(w.cfg.BatchTimeout)
		default:
			item, ok := w.cfg.Queue.Get(ctx)
			if !ok {
				continue
			}
			buf = append(buf, item)
			if len(buf) >= w.cfg.BulkChunkSize {
				flush()
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.cfg.BatchTimeout)
			}
		}
	}
}

// drainQueue pulls any remaining buffered items off the queue with a
// bounded overall timeout, so shutdown cannot hang indefinitely.
func (w *Worker) drainQueue(ctx context.Context, buf *[]*domain.QueueItem) {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		high, standard := w.cfg.Queue.QSize()
		if high == 0 && standard == 0 {
			return
		}
		item, ok := w.cfg.Queue.Get(ctx)
		if !ok {
			return
		}
		*buf = append(*buf, item)
		if len(*buf) >= w.cfg.BulkChunkSize {
			w.flushBatch(ctx, *buf)
			*buf = (*buf)[:0]
		}
	}
}

func (w *Worker) flushBatch(ctx context.Context, items []*domain.QueueItem) {
	if w.isOffline() {
		w.cfg.Logger.Debug("offline mode: dropping batch without indexing", "count", len(items))
		return
	}

	actions := make([]driven.BulkAction, 0, len(items))
	today := time.Now().UTC().Format("2006-01-02")
	for _, item := range items {
		id, alias := item.IndexID()
		if id == "" {
			continue
		}
		index := fmt.Sprintf("%s-%s", alias, today)
		actions = append(actions, driven.BulkAction{
			Index:  index,
			ID:     id,
			Source: bulkSource(item),
		})
	}
	if len(actions) == 0 {
		return
	}

	results, err := w.bulkWithRetry(ctx, actions)
	if err != nil {
		w.cfg.Logger.Error("bulk flush failed after retries, batch dropped", "count", len(actions), "error", err)
		w.setOffline(true)
		return
	}

	w.mirrorToDocStore(ctx, items)

	failed := 0
	logged := 0
	for _, r := range results {
		if r.Success {
			continue
		}
		failed++
		if logged < 5 {
			w.cfg.Logger.Warn("bulk item failed", "id", r.ID, "error", r.Error)
			logged++
		}
	}

	w.stats.mu.Lock()
	w.stats.itemsIndexed += len(actions) - failed
	w.stats.itemsFailed += failed
	w.stats.mu.Unlock()

	metrics.ItemsIndexed.Add(float64(len(actions) - failed))
	metrics.ItemsFailedIndexing.Add(float64(failed))
}

// mirrorToDocStore best-effort mirrors this batch's documents and
// chunks into the Postgres metadata store, when one is configured. It
// never affects the primary index write's success or the caller's
// stats/offline state — the index engine remains the system of record.
func (w *Worker) mirrorToDocStore(ctx context.Context, items []*domain.QueueItem) {
	if w.cfg.DocStore == nil {
		return
	}

	var chunks []*domain.DocumentChunk
	for _, item := range items {
		switch item.Type {
		case domain.ItemTypeDocument:
			if item.Document == nil {
				continue
			}
			if err := w.cfg.DocStore.SaveDocument(ctx, item.Document); err != nil {
				w.cfg.Logger.Warn("postgres document mirror failed", "document_id", item.Document.DocumentID, "error", err)
			}
		case domain.ItemTypeChunk:
			if item.Chunk != nil {
				chunks = append(chunks, item.Chunk)
			}
		}
	}
	if len(chunks) == 0 {
		return
	}
	if err := w.cfg.DocStore.SaveChunks(ctx, chunks); err != nil {
		w.cfg.Logger.Warn("postgres chunk mirror failed", "count", len(chunks), "error", err)
	}
}

// bulkWithRetry retries the whole batch with exponential backoff
// (initial 2s, cap 600s, bounded tries) on transport/auth failure.
func (w *Worker) bulkWithRetry(ctx context.Context, actions []driven.BulkAction) ([]driven.BulkItemResult, error) {
	backoff := w.cfg.RetryInitial
	var lastErr error
	for attempt := 0; attempt < w.cfg.RetryMaxTries; attempt++ {
		results, err := w.cfg.Store.Bulk(ctx, actions)
		if err == nil {
			return results, nil
		}
		lastErr = err
		w.cfg.Logger.Warn("bulk call failed, retrying", "attempt", attempt+1, "backoff", backoff, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > w.cfg.RetryCap {
			backoff = w.cfg.RetryCap
		}
	}
	return nil, lastErr
}

// bulkSource builds the `_source` document stamped with indexed_at /
// @timestamp, per spec §4.7.
func bulkSource(item *domain.QueueItem) any {
	now := time.Now().UTC()
	switch item.Type {
	case domain.ItemTypeDocument:
		return struct {
			*domain.Document
			IndexedAt time.Time `json:"indexed_at"`
			Timestamp time.Time `json:"@timestamp"`
		}{Document: item.Document, IndexedAt: now, Timestamp: now}
	case domain.ItemTypeChunk:
		return struct {
			*domain.DocumentChunk
			IndexedAt time.Time `json:"indexed_at"`
			Timestamp time.Time `json:"@timestamp"`
		}{DocumentChunk: item.Chunk, IndexedAt: now, Timestamp: now}
	default:
		return nil
	}
}
