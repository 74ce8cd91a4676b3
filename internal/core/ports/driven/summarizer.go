package driven

import "context"

// SummaryResultRef is the minimal per-result context the summarizer
// endpoint needs: title, URL and a short preview, never the full
// document body.
type SummaryResultRef struct {
	Title   string
	URL     string
	Preview string
}

// SummaryRequest is the payload sent to the external summarizer for
// one (query, top results) pair, per spec §4.9 step 2.
type SummaryRequest struct {
	Query     string
	Results   []SummaryResultRef
	MaxLength int
}

// Summarizer is the driven port against the external AI summarization
// endpoint. It is treated as a black-box HTTP collaborator returning a
// summary string for a (query, results) pair — no embeddings, no
// query expansion, nothing beyond this single operation.
type Summarizer interface {
	// Summarize returns a natural-language summary of req.Results in
	// the context of req.Query.
	Summarize(ctx context.Context, req SummaryRequest) (string, error)

	// Ping verifies the summarizer endpoint is reachable.
	Ping(ctx context.Context) error
}
