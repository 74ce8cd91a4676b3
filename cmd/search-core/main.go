// Command search-core is the single binary for all three subsystems
// of the platform: the batch document-processing pipeline, the
// priority-queued indexer, and the query service's HTTP surface.
// RUN_MODE selects which subsystem(s) this process runs, generalizing
// the teacher's api/worker/all dispatch in cmd/sercha-core/main.go.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	restclient "github.com/lumensearch/search-core/internal/adapters/driven/indexstore/restclient"
	"github.com/lumensearch/search-core/internal/adapters/driven/postgres"
	redisadapter "github.com/lumensearch/search-core/internal/adapters/driven/redis"
	httpclient "github.com/lumensearch/search-core/internal/adapters/driven/summarizer/httpclient"
	httpserver "github.com/lumensearch/search-core/internal/adapters/driving/http"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/indexer/admin"
	"github.com/lumensearch/search-core/internal/indexer/coordinator"
	"github.com/lumensearch/search-core/internal/indexer/queue"
	"github.com/lumensearch/search-core/internal/indexer/worker"
	"github.com/lumensearch/search-core/internal/pipeline/runner"
	"github.com/lumensearch/search-core/internal/query/cache"
	"github.com/lumensearch/search-core/internal/query/service"
	"github.com/lumensearch/search-core/internal/query/summary"
)

var version = "dev"

func main() {
	mode := getEnv("RUN_MODE", "all")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	logger := slog.Default()
	logger.Info("search-core starting", "version", version, "run_mode", mode)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch mode {
	case "pipeline":
		runPipeline(ctx, logger)
	case "indexer":
		runIndexerOnly(ctx, logger)
	case "query":
		runQueryOnly(ctx, logger)
	case "all":
		runAll(ctx, logger)
	default:
		logger.Error("unknown RUN_MODE, expected pipeline|indexer|query|all", "run_mode", mode)
		os.Exit(1)
	}
}

// runPipeline runs one batch of the document-processing pipeline and
// exits — it has no long-running server component.
func runPipeline(ctx context.Context, logger *slog.Logger) {
	cfg := runner.Config{
		InputDir:        getEnv("PIPELINE_INPUT_DIR", "./data/raw"),
		OutputDir:       getEnv("PIPELINE_OUTPUT_DIR", "./data/fresh"),
		BatchName:       getEnv("PIPELINE_BATCH_NAME", "batch"),
		Concurrency:     getEnvInt("PIPELINE_CONCURRENCY", 0),
		MaxItemsPerFile: getEnvInt("PIPELINE_MAX_ITEMS_PER_FILE", 0),
		Logger:          logger,
	}
	r := runner.New(cfg)
	summary, err := r.Run(ctx)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("pipeline run complete",
		"files_produced", summary.FilesProduced,
		"documents_processed", summary.DocumentsProcessed,
		"error_count", summary.ErrorCount,
		"duration", summary.Duration,
	)
}

// buildIndexStore wires the raw-REST client against the external
// index engine, per spec §6's six wire operations.
func buildIndexStore() driven.IndexStore {
	return restclient.New(restclient.Config{
		BaseURL:       getEnv("INDEX_STORE_URL", "http://localhost:9200"),
		Timeout:       time.Duration(getEnvInt("INDEX_STORE_TIMEOUT_SEC", 30)) * time.Second,
		RetentionDays: getEnvInt("INDEX_RETENTION_DAYS", 90),
	})
}

// buildIndexerLock wires the optional distributed lock backing leader
// election across indexer replicas: Redis preferred, Postgres advisory
// lock fallback, nil (single-process mode) otherwise — the teacher's
// own fallback shape in main.go.
func buildIndexerLock(ctx context.Context, logger *slog.Logger) (driven.DistributedLock, func()) {
	if !getEnvBool("INDEXER_CLUSTER_MODE", false) {
		return nil, func() {}
	}

	if redisURL := getEnv("REDIS_URL", ""); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, falling back to postgres advisory lock", "error", err)
		} else {
			client := redis.NewClient(opts)
			return redisadapter.NewLock(client), func() { client.Close() }
		}
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		logger.Warn("INDEXER_CLUSTER_MODE enabled but neither REDIS_URL nor DATABASE_URL set, disabling cluster mode")
		return nil, func() {}
	}
	db, err := postgres.Connect(ctx, postgres.DefaultConfig(dbURL))
	if err != nil {
		logger.Warn("failed to connect to postgres for advisory lock, disabling cluster mode", "error", err)
		return nil, func() {}
	}
	return postgres.NewAdvisoryLock(db), func() { db.Close() }
}

// buildDocumentStore wires the optional Postgres metadata mirror: a
// secondary copy of documents/chunks that the indexer writes after each
// successful bulk batch; the query path does not read it. It is
// a mirror, not the system of record, so any failure here disables it
// rather than failing startup.
func buildDocumentStore(ctx context.Context, logger *slog.Logger) (driven.DocumentStore, func()) {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, func() {}
	}

	db, err := postgres.Connect(ctx, postgres.DefaultConfig(dbURL))
	if err != nil {
		logger.Warn("failed to connect to postgres for document mirror, disabling it", "error", err)
		return nil, func() {}
	}
	if err := db.InitSchema(ctx); err != nil {
		logger.Warn("failed to initialize postgres schema, disabling document mirror", "error", err)
		db.Close()
		return nil, func() {}
	}
	return postgres.NewDocumentStore(db), func() { db.Close() }
}

func buildWorker(store driven.IndexStore, docStore driven.DocumentStore, logger *slog.Logger) *worker.Worker {
	dataDir := getEnv("SEARCH_DATA_DIR", "./data")
	q := queue.New(getEnvInt("QUEUE_HIGH_CAPACITY", 10000), getEnvInt("QUEUE_STANDARD_CAPACITY", 10000))
	return worker.New(worker.Config{
		Store:            store,
		DocStore:         docStore,
		Queue:            q,
		Logger:           logger,
		FreshDir:         dataDir + "/fresh",
		BacklogDir:       dataDir + "/backlog",
		ProcessedDir:     dataDir + "/processed",
		FailedDir:        dataDir + "/failed",
		BacklogBatchSize: getEnvInt("INDEXER_BACKLOG_BATCH_SIZE", 0),
		AdmissionTimeout: time.Duration(getEnvInt("INDEXER_ADMISSION_TIMEOUT_SEC", 0)) * time.Second,
		PollInterval:     time.Duration(getEnvInt("INDEXER_POLL_INTERVAL_SEC", 0)) * time.Second,
		StatsInterval:    time.Duration(getEnvInt("INDEXER_STATS_INTERVAL_SEC", 0)) * time.Second,
		HealthInterval:   time.Duration(getEnvInt("INDEXER_HEALTH_INTERVAL_SEC", 0)) * time.Second,
		BulkChunkSize:    getEnvInt("INDEXER_BULK_CHUNK_SIZE", 0),
		BatchTimeout:     time.Duration(getEnvInt("INDEXER_BATCH_TIMEOUT_SEC", 0)) * time.Second,
		RetryInitial:     time.Duration(getEnvInt("INDEXER_RETRY_INITIAL_SEC", 0)) * time.Second,
		RetryCap:         time.Duration(getEnvInt("INDEXER_RETRY_CAP_SEC", 0)) * time.Second,
		RetryMaxTries:    getEnvInt("INDEXER_RETRY_MAX_TRIES", 0),
	})
}

// runIndexerOnly bootstraps the index store and runs the indexer
// worker (optionally under leader election) until cancelled.
func runIndexerOnly(ctx context.Context, logger *slog.Logger) {
	store := buildIndexStore()
	if err := admin.Bootstrap(ctx, admin.Config{Store: store, RetentionDays: getEnvInt("INDEX_RETENTION_DAYS", 90), Logger: logger}); err != nil {
		logger.Error("index admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	lock, closeLock := buildIndexerLock(ctx, logger)
	defer closeLock()

	docStore, closeDocStore := buildDocumentStore(ctx, logger)
	defer closeDocStore()

	w := buildWorker(store, docStore, logger)
	coord := coordinator.New(coordinator.Config{Lock: lock, Logger: logger})
	coord.RunAsLeader(ctx, func(leaderCtx context.Context) {
		w.Start(leaderCtx)
		<-leaderCtx.Done()
		w.Stop()
	})
}

func buildQueryServer(store driven.IndexStore, indexer *worker.Worker, logger *slog.Logger) *httpserver.Server {
	summarizer := httpclient.New(httpclient.DefaultConfig(
		getEnv("SUMMARIZER_URL", ""),
		getEnv("SUMMARIZER_API_KEY", ""),
	))

	qsvc := service.New(store, cache.New(getEnvInt("QUERY_CACHE_CAPACITY", 0)))
	coord := summary.New(summarizer, logger)

	runtimeConfig := map[string]string{
		"run_mode":        getEnv("RUN_MODE", "all"),
		"index_store_url": getEnv("INDEX_STORE_URL", "http://localhost:9200"),
		"summarizer_url":  getEnv("SUMMARIZER_URL", ""),
		"search_data_dir": getEnv("SEARCH_DATA_DIR", "./data"),
		"indexer_cluster": fmt.Sprintf("%v", getEnvBool("INDEXER_CLUSTER_MODE", false)),
	}

	cfg := httpserver.Config{
		Host:    getEnv("HTTP_HOST", "0.0.0.0"),
		Port:    getEnvInt("PORT", 8080),
		Version: version,
	}
	return httpserver.NewServer(cfg, qsvc, coord, store, indexer, runtimeConfig, logger)
}

// runQueryOnly runs only the HTTP query surface, against an externally
// managed indexer.
func runQueryOnly(ctx context.Context, logger *slog.Logger) {
	store := buildIndexStore()
	srv := buildQueryServer(store, nil, logger)
	if err := srv.Start(); err != nil {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

// runAll runs the indexer and the query HTTP surface in the same
// process, sharing one index store client, mirroring the teacher's
// "mode=all" path of running both worker and API loops together.
func runAll(ctx context.Context, logger *slog.Logger) {
	store := buildIndexStore()
	if err := admin.Bootstrap(ctx, admin.Config{Store: store, RetentionDays: getEnvInt("INDEX_RETENTION_DAYS", 90), Logger: logger}); err != nil {
		logger.Error("index admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	lock, closeLock := buildIndexerLock(ctx, logger)
	defer closeLock()

	docStore, closeDocStore := buildDocumentStore(ctx, logger)
	defer closeDocStore()

	w := buildWorker(store, docStore, logger)
	coord := coordinator.New(coordinator.Config{Lock: lock, Logger: logger})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		coord.RunAsLeader(ctx, func(leaderCtx context.Context) {
			w.Start(leaderCtx)
			<-leaderCtx.Done()
			w.Stop()
		})
	}()

	srv := buildQueryServer(store, w, logger)
	if err := srv.Start(); err != nil {
		logger.Error("http server failed", "error", err)
	}

	wg.Wait()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
