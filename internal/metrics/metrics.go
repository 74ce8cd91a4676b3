// Package metrics holds the process-wide Prometheus collectors served
// at GET /metrics (SPEC_FULL.md §1 domain stack),
// grounded on cortex-gateway's use of github.com/prometheus/
// client_golang for request/pipeline counters. Components Inc()/Set()
// these directly rather than going through a facade, matching the
// pack's style of package-level collectors registered once at import
// time.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	DocumentsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_core_documents_processed_total",
		Help: "Total raw records successfully turned into a Document.",
	})
	DocumentsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_core_documents_failed_total",
		Help: "Total raw records rejected by the pipeline (any reason).",
	})
	LanguageFiltered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_core_language_filtered_total",
		Help: "Total raw records rejected for non-English content.",
	})
	ItemsIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_core_items_indexed_total",
		Help: "Total documents/chunks successfully bulk-indexed.",
	})
	ItemsFailedIndexing = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_core_items_failed_indexing_total",
		Help: "Total documents/chunks rejected by the index store's bulk API.",
	})
	QueueDepthHigh = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "search_core_queue_depth_high",
		Help: "Current depth of the indexer's high-priority queue lane.",
	})
	QueueDepthStandard = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "search_core_queue_depth_standard",
		Help: "Current depth of the indexer's standard-priority queue lane.",
	})
	SearchRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_core_search_requests_total",
		Help: "Total GET /search requests served.",
	})
)

// Registry is the process-wide collector registry backing GET /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		DocumentsProcessed,
		DocumentsFailed,
		LanguageFiltered,
		ItemsIndexed,
		ItemsFailedIndexing,
		QueueDepthHigh,
		QueueDepthStandard,
		SearchRequests,
	)
}
