// Package runner drives the pipeline end to end: discovers input
// files, dispatches records to a worker pool running the processor,
// and flushes accumulated documents/chunks to bounded JSONL output
// files. Grounded on the teacher's internal/worker.Worker
// Start/Stop/stopCh/doneCh shape, generalized from task-dequeue to
// record-dispatch-and-accumulate.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/metrics"
	"github.com/lumensearch/search-core/internal/pipeline/filereader"
	"github.com/lumensearch/search-core/internal/pipeline/processor"
)

const defaultMaxItemsPerFile = 1000

// Config tunes one run of the pipeline.
type Config struct {
	InputDir        string
	OutputDir       string
	BatchName       string
	Concurrency     int
	MaxItemsPerFile int
	Logger          *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency()
	}
	if c.MaxItemsPerFile <= 0 {
		c.MaxItemsPerFile = defaultMaxItemsPerFile
	}
	if c.BatchName == "" {
		c.BatchName = "batch"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

func defaultConcurrency() int {
	n := 2
	if cpu := runtime.NumCPU(); cpu-1 < n && cpu-1 > 0 {
		n = cpu - 1
	}
	return n
}

// Summary reports what one run produced.
type Summary struct {
	FilesProduced      int
	DocumentsProcessed int
	ThroughputPerSec   float64
	ErrorCount         int
	Duration           time.Duration
}

// Runner coordinates the worker pool and output accumulators for one
// batch run.
type Runner struct {
	cfg         Config
	accumulator *accumulator
}

// New builds a Runner over the given configuration.
func New(cfg Config) *Runner {
	cfg = cfg.withDefaults()
	return &Runner{
		cfg:         cfg,
		accumulator: newAccumulator(cfg.OutputDir, cfg.BatchName, cfg.MaxItemsPerFile),
	}
}

// Run discovers files under cfg.InputDir, dispatches their records to
// a worker pool, and flushes accumulated output, honoring SIGINT/
// SIGTERM for graceful shutdown (stop submitting, drain in-flight,
// flush partial accumulators).
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	logger := r.cfg.Logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files, err := filereader.ScanDirectory(r.cfg.InputDir, true)
	if err != nil {
		return Summary{}, err
	}
	logger.Info("runner discovered input files", "count", len(files))

	records := make(chan domain.RawRecord, r.cfg.Concurrency*4)
	var wg sync.WaitGroup
	var processed, errCount int
	var mu sync.Mutex

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.worker(ctx, workerID, records, &mu, &processed, &errCount)
		}(i)
	}

	go func() {
		defer close(records)
		stats := &filereader.Stats{}
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if readErr := filereader.ReadFile(path, stats, func(rec domain.RawRecord) error {
				select {
				case records <- rec:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}); readErr != nil {
				logger.Warn("file read aborted", "path", path, "error", readErr)
			}
		}
	}()

	wg.Wait()

	if err := r.accumulator.flushAll(); err != nil {
		logger.Error("final flush failed", "error", err)
	}

	duration := time.Since(start)
	throughput := 0.0
	if duration.Seconds() > 0 {
		throughput = float64(processed) / duration.Seconds()
	}

	summary := Summary{
		FilesProduced:      r.accumulator.filesWritten,
		DocumentsProcessed: processed,
		ThroughputPerSec:   throughput,
		ErrorCount:         errCount,
		Duration:           duration,
	}
	logger.Info("batch complete",
		"files_produced", summary.FilesProduced,
		"documents_processed", summary.DocumentsProcessed,
		"throughput_per_sec", summary.ThroughputPerSec,
		"error_count", summary.ErrorCount,
	)
	return summary, nil
}

func (r *Runner) worker(ctx context.Context, workerID int, records <-chan domain.RawRecord, mu *sync.Mutex, processed, errCount *int) {
	logger := r.cfg.Logger.With("worker_id", workerID)
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			doc, chunks, err := processor.Process(rec, processor.Options{})
			mu.Lock()
			if err != nil {
				*errCount++
				mu.Unlock()
				if errors.Is(err, domain.ErrLanguageFiltered) {
					metrics.LanguageFiltered.Inc()
				} else {
					metrics.DocumentsFailed.Inc()
				}
				logger.Debug("record skipped", "url", rec.URL, "error", err)
				continue
			}
			*processed++
			mu.Unlock()
			metrics.DocumentsProcessed.Inc()

			if flushErr := r.accumulator.add(doc, chunks); flushErr != nil {
				logger.Error("accumulator flush failed", "error", flushErr)
			}
		}
	}
}
