package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/metrics"
)

// controlLoop scans fresh/ every iteration, falling back to backlog/
// only when fresh/ was empty, per spec §4.7 steps 1-5.
func (w *Worker) controlLoop(ctx context.Context) {
	statsTicker := time.NewTicker(w.cfg.StatsInterval)
	defer statsTicker.Stop()
	healthTicker := time.NewTicker(w.cfg.HealthInterval)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		default:
		}

		freshProcessed := w.scanDirectory(ctx, w.cfg.FreshDir, domain.PriorityHigh, 0)
		if freshProcessed == 0 {
			w.scanDirectory(ctx, w.cfg.BacklogDir, domain.PriorityStandard, w.cfg.BacklogBatchSize)
		}

		select {
		case <-statsTicker.C:
			w.logStats()
		default:
		}

		select {
		case <-healthTicker.C:
			w.runHealthCheck(ctx)
		default:
		}

		wait := time.After(w.cfg.PollInterval)
		for waiting := true; waiting; {
			select {
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			case <-healthTicker.C:
				w.runHealthCheck(ctx)
			case <-statsTicker.C:
				w.logStats()
			case <-wait:
				waiting = false
			}
		}
	}
}

// scanDirectory processes up to limit files (0 = unlimited) from dir,
// returning how many were handled.
func (w *Worker) scanDirectory(ctx context.Context, dir string, priority domain.Priority, limit int) int {
	if dir == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := w.ingestFile(ctx, path, priority); err != nil {
			w.cfg.Logger.Warn("failed to ingest file", "path", path, "error", err)
			w.moveFile(path, w.cfg.FailedDir)
			continue
		}
		w.moveFile(path, w.cfg.ProcessedDir)
		w.stats.mu.Lock()
		w.stats.filesProcessed++
		w.stats.mu.Unlock()
	}
	return len(names)
}

// ingestFile streams one JSONL file line by line, admitting each line
// as a QueueItem. A read/parse failure anywhere in the file fails the
// whole file (caller routes it to failed/); partially admitted items
// remain queued.
func (w *Worker) ingestFile(ctx context.Context, path string, priority domain.Priority) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		item, err := parseLine(line, path, priority)
		if err != nil {
			return err
		}
		admitted := w.cfg.Queue.Put(ctx, item, priority, w.cfg.AdmissionTimeout)
		if !admitted {
			w.cfg.Logger.Warn("queue admission timed out, aborting file early", "path", path)
			return nil
		}
		w.stats.mu.Lock()
		w.stats.itemsAdmitted++
		w.stats.mu.Unlock()
	}
	return scanner.Err()
}

func parseLine(line, path string, priority domain.Priority) (*domain.QueueItem, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(line), &envelope); err != nil {
		return nil, err
	}

	item := &domain.QueueItem{FilePath: path, Priority: priority}
	switch envelope.Type {
	case string(domain.ItemTypeDocument):
		var doc domain.Document
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			return nil, err
		}
		item.Type = domain.ItemTypeDocument
		item.Document = &doc
	case string(domain.ItemTypeChunk):
		var chunk domain.DocumentChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return nil, err
		}
		item.Type = domain.ItemTypeChunk
		item.Chunk = &chunk
	default:
		return nil, errUnknownItemType(envelope.Type)
	}
	return item, nil
}

func (w *Worker) moveFile(path, destDir string) {
	if destDir == "" {
		return
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		w.cfg.Logger.Error("failed to create destination directory", "dir", destDir, "error", err)
		return
	}
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		w.cfg.Logger.Error("failed to move file", "from", path, "to", dest, "error", err)
	}
}

func (w *Worker) logStats() {
	w.stats.mu.Lock()
	files, admitted, indexed, failed := w.stats.filesProcessed, w.stats.itemsAdmitted, w.stats.itemsIndexed, w.stats.itemsFailed
	w.stats.mu.Unlock()
	high, standard := w.cfg.Queue.QSize()
	metrics.QueueDepthHigh.Set(float64(high))
	metrics.QueueDepthStandard.Set(float64(standard))
	w.cfg.Logger.Info("indexer stats",
		"files_processed", files,
		"items_admitted", admitted,
		"items_indexed", indexed,
		"items_failed", failed,
		"queue_high", high,
		"queue_standard", standard,
		"offline", w.isOffline(),
	)
}

func (w *Worker) runHealthCheck(ctx context.Context) {
	err := w.cfg.Store.HealthCheck(ctx)
	if err != nil {
		w.cfg.Logger.Warn("index store health check failed", "error", err)
		w.setOffline(true)
		return
	}
	w.setOffline(false)
}

type errUnknownItemType string

func (e errUnknownItemType) Error() string {
	return "unknown item type: " + string(e)
}
