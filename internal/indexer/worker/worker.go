// Package worker is the indexer's long-running service: one control
// loop that scans fresh/backlog directories and admits items into the
// queue, and one flusher that drains the queue and bulk-writes to the
// index store. Grounded on the teacher's internal/worker.Worker
// Start/Stop/processLoop shape, retargeted from driven.TaskQueue to
// driven.IndexStore + indexer/queue.Queue.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/indexer/queue"
	"github.com/lumensearch/search-core/internal/metrics"
)

// Config tunes one Worker instance; unset durations fall back to the
// spec's defaults.
type Config struct {
	Store  driven.IndexStore
	Queue  *queue.Queue
	Logger *slog.Logger

	// DocStore, if set, mirrors indexed documents/chunks into the
	// Postgres metadata store alongside the primary index write. A
	// mirror failure is logged and never fails the batch.
	DocStore driven.DocumentStore

	FreshDir     string
	BacklogDir   string
	ProcessedDir string
	FailedDir    string

	BacklogBatchSize int
	AdmissionTimeout time.Duration
	PollInterval     time.Duration
	StatsInterval    time.Duration
	HealthInterval   time.Duration

	BulkChunkSize int
	BatchTimeout  time.Duration
	RetryInitial  time.Duration
	RetryCap      time.Duration
	RetryMaxTries int
}

func (c Config) withDefaults() Config {
	if c.BacklogBatchSize <= 0 {
		c.BacklogBatchSize = 5
	}
	if c.AdmissionTimeout <= 0 {
		c.AdmissionTimeout = 30 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.StatsInterval <= 0 {
		c.StatsInterval = time.Minute
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = 30 * time.Second
	}
	if c.BulkChunkSize <= 0 {
		c.BulkChunkSize = 500
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 5 * time.Second
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = 2 * time.Second
	}
	if c.RetryCap <= 0 {
		c.RetryCap = 600 * time.Second
	}
	if c.RetryMaxTries <= 0 {
		c.RetryMaxTries = 5
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Worker is a long-running indexer service with one control loop and
// one flusher goroutine.
type Worker struct {
	cfg Config

	mu      sync.RWMutex
	running bool
	offline bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	stats stats
}

type stats struct {
	mu             sync.Mutex
	filesProcessed int
	itemsAdmitted  int
	itemsIndexed   int
	itemsFailed    int
}

// New builds a Worker over cfg.
func New(cfg Config) *Worker {
	return &Worker{cfg: cfg.withDefaults(), stopCh: make(chan struct{}), doneCh: make(chan struct{})}
}

// Start runs the control loop and flusher until Stop is called or ctx
// is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.controlLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		w.flusherLoop(ctx)
	}()

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()
}

// Stop signals shutdown and blocks until both loops exit.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

func (w *Worker) isOffline() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.offline
}

// IsOffline reports whether the worker is currently skipping index
// calls due to a failed health check.
func (w *Worker) IsOffline() bool {
	return w.isOffline()
}

// Stats is a point-in-time snapshot of the worker's counters, exposed
// for the /stats introspection endpoint.
type Stats struct {
	FilesProcessed int
	ItemsAdmitted  int
	ItemsIndexed   int
	ItemsFailed    int
	Offline        bool
	QueueHigh      int
	QueueStandard  int
}

// Stats returns a snapshot of the worker's counters and current queue
// depth.
func (w *Worker) Stats() Stats {
	w.stats.mu.Lock()
	s := Stats{
		FilesProcessed: w.stats.filesProcessed,
		ItemsAdmitted:  w.stats.itemsAdmitted,
		ItemsIndexed:   w.stats.itemsIndexed,
		ItemsFailed:    w.stats.itemsFailed,
	}
	w.stats.mu.Unlock()

	s.Offline = w.isOffline()
	if w.cfg.Queue != nil {
		s.QueueHigh, s.QueueStandard = w.cfg.Queue.QSize()
		metrics.QueueDepthHigh.Set(float64(s.QueueHigh))
		metrics.QueueDepthStandard.Set(float64(s.QueueStandard))
	}
	return s
}

func (w *Worker) setOffline(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.offline != v {
		if v {
			w.cfg.Logger.Warn("indexer entering offline mode: index calls are no-ops")
		} else {
			w.cfg.Logger.Info("indexer recovered from offline mode")
		}
	}
	w.offline = v
}
