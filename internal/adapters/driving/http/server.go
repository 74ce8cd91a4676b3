package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/indexer/worker"
	"github.com/lumensearch/search-core/internal/metrics"
	"github.com/lumensearch/search-core/internal/pipeline/runner"
	"github.com/lumensearch/search-core/internal/query/service"
	"github.com/lumensearch/search-core/internal/query/summary"
)

// Pinger is a simple health check interface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the query service's HTTP surface: GET /search, GET
// /health, GET /stats, GET /config, GET /ws/summary/{id}, GET
// /metrics. No auth, CORS or rate-limiting middleware — this process
// sits behind whatever edge the deployer chooses, per spec §6.
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	logger     *slog.Logger
	version    string
	config     map[string]string

	query   *service.Service
	summary *summary.Coordinator
	store   driven.IndexStore
	indexer *worker.Worker // nil unless this process also runs the indexer

	lastPipelineSummary *runner.Summary
}

// Config holds server configuration.
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server. indexer may be nil when this
// process runs in query-only mode; runtimeConfig is surfaced verbatim
// by GET /config.
func NewServer(
	cfg Config,
	queryService *service.Service,
	summaryCoordinator *summary.Coordinator,
	store driven.IndexStore,
	indexer *worker.Worker,
	runtimeConfig map[string]string,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  http.NewServeMux(),
		logger:  logger,
		version: cfg.Version,
		config:  runtimeConfig,
		query:   queryService,
		summary: summaryCoordinator,
		store:   store,
		indexer: indexer,
	}

	logging := NewLoggingMiddleware(logger)
	recovery := NewRecoveryMiddleware(logger)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      recovery.Handler(logging.Handler(s.router)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures the service's entire public HTTP surface.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /search", s.handleSearch)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)
	s.router.HandleFunc("GET /config", s.handleConfig)
	s.router.HandleFunc("GET /ws/summary/{id}", s.handleSummaryWebSocket)
	s.router.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts it down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	<-stop
	s.logger.Info("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// Stop shuts the server down using the caller's context.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
