package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
	"github.com/lumensearch/search-core/internal/metrics"
)

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth is one dependency's health in a HealthResponse.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// handleHealth reports the index store's reachability and, when this
// process also runs the indexer, whether it has gone offline.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]ComponentHealth)
	allHealthy := true

	if s.store != nil {
		if err := s.store.HealthCheck(r.Context()); err != nil {
			components["index_store"] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
			allHealthy = false
		} else {
			components["index_store"] = ComponentHealth{Status: "healthy"}
		}
	}

	if s.indexer != nil {
		if s.indexer.IsOffline() {
			components["indexer"] = ComponentHealth{Status: "unhealthy", Message: "indexer is offline: index calls are no-ops"}
			allHealthy = false
		} else {
			components["indexer"] = ComponentHealth{Status: "healthy"}
		}
	}

	components["server"] = ComponentHealth{Status: "healthy"}

	status := "healthy"
	if !allHealthy {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: status, Components: components})
}

// StatsResponse is the body returned by GET /stats.
type StatsResponse struct {
	Indexer *IndexerStats `json:"indexer,omitempty"`
}

// IndexerStats mirrors worker.Stats for JSON exposure.
type IndexerStats struct {
	FilesProcessed int  `json:"files_processed"`
	ItemsAdmitted  int  `json:"items_admitted"`
	ItemsIndexed   int  `json:"items_indexed"`
	ItemsFailed    int  `json:"items_failed"`
	Offline        bool `json:"offline"`
	QueueHigh      int  `json:"queue_depth_high"`
	QueueStandard  int  `json:"queue_depth_standard"`
}

// handleStats surfaces the indexer's live counters, when this process
// runs one; prometheus carries the same figures for scraping at
// GET /metrics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{}
	if s.indexer != nil {
		st := s.indexer.Stats()
		resp.Indexer = &IndexerStats{
			FilesProcessed: st.FilesProcessed,
			ItemsAdmitted:  st.ItemsAdmitted,
			ItemsIndexed:   st.ItemsIndexed,
			ItemsFailed:    st.ItemsFailed,
			Offline:        st.Offline,
			QueueHigh:      st.QueueHigh,
			QueueStandard:  st.QueueStandard,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleConfig returns the effective runtime configuration this
// process was started with, for operator introspection.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.version,
		"config":  s.config,
	})
}

// handleSearch runs the query service and kicks off an asynchronous
// summary task for the result set, per spec §4.8/§4.9.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	metrics.SearchRequests.Inc()

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing required query parameter 'q'")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	resp, err := s.query.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.summary != nil && resp.Error == "" {
		resp.RequestID = uuid.NewString()
		// Detached context: the summary generator outlives this
		// request/response cycle, so it must not inherit r.Context()'s
		// cancellation on handler return.
		s.summary.StartTask(context.Background(), resp.RequestID, query, summaryRefs(resp), 500)
	}

	writeJSON(w, http.StatusOK, resp)
}

func summaryRefs(resp *domain.SearchResponse) []driven.SummaryResultRef {
	refs := make([]driven.SummaryResultRef, 0, len(resp.Results))
	for _, r := range resp.Results {
		refs = append(refs, driven.SummaryResultRef{
			Title:   r.Title,
			URL:     r.URL,
			Preview: r.ContentPreview,
		})
	}
	return refs
}

// handleSummaryWebSocket mounts the async summary channel at
// /ws/summary/{id}.
func (s *Server) handleSummaryWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing summary task id")
		return
	}
	s.summary.HandleWebSocket(w, r, id)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
