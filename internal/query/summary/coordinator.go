// Package summary implements the asynchronous AI-summarization side
// channel of spec §4.9: a background generator that calls the external
// summarizer and streams the result over a persistent WebSocket
// connection with a typing-effect pacing. Grounded directly on
// _examples/original_source/ai_search/backend/api/routes.py
// (ai_summary_tasks / websocket_connections globals, notify_websocket_*
// helpers, stream_summary_chunks, the ping loop), reshaped into one
// owning Coordinator per spec's "no global singletons — pass the
// coordinator by reference" design note, and on the teacher pack's
// gorilla/websocket upgrade idiom (cortex-gateway's webchat adapter).
package summary

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

const (
	connectionAttachTimeout = 10 * time.Second
	chunkWordsPerFragment   = 3
	chunkPacing             = 100 * time.Millisecond
)

// Coordinator owns the process-wide summary-task state map and the
// WebSocket connection registry. The generator goroutine writes task
// state; the connection handler reads it and owns its own socket —
// single-writer-per-field in practice, per spec's design note.
type Coordinator struct {
	summarizer driven.Summarizer
	logger     *slog.Logger

	mu    sync.Mutex
	tasks map[string]*domain.SummaryTask
	conns map[string]*websocket.Conn
}

// New builds a Coordinator over the given summarizer collaborator.
func New(summarizer driven.Summarizer, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		summarizer: summarizer,
		logger:     logger,
		tasks:      make(map[string]*domain.SummaryTask),
		conns:      make(map[string]*websocket.Conn),
	}
}

// StartTask registers a new task in the "starting" state and launches
// the background generator for it. Call this right after minting the
// request_id and returning the search response, per spec §4.9 step 1.
func (c *Coordinator) StartTask(ctx context.Context, requestID, query string, results []driven.SummaryResultRef, maxLength int) {
	task := &domain.SummaryTask{
		RequestID: requestID,
		Query:     query,
		State:     domain.SummaryStarting,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.tasks[requestID] = task
	c.mu.Unlock()

	go c.generate(ctx, requestID, query, results, maxLength)
}

// Task returns a snapshot of the task's current state, or false if the
// request_id is unknown.
func (c *Coordinator) Task(requestID string) (domain.SummaryTask, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tasks[requestID]
	if !ok {
		return domain.SummaryTask{}, false
	}
	return *t, true
}

func (c *Coordinator) setState(requestID string, state domain.SummaryState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tasks[requestID]; ok {
		t.State = state
	}
}

func (c *Coordinator) complete(requestID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tasks[requestID]; ok {
		t.State = domain.SummaryCompleted
		t.Summary = text
	}
}

func (c *Coordinator) fail(requestID, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tasks[requestID]; ok {
		t.State = domain.SummaryFailed
		t.Error = errMsg
	}
}

// registerConn attaches a live WebSocket connection to a request_id.
func (c *Coordinator) registerConn(requestID string, conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[requestID] = conn
}

// connOf returns the live connection for a request_id, if attached.
func (c *Coordinator) connOf(requestID string) (*websocket.Conn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, ok := c.conns[requestID]
	return conn, ok
}

func (c *Coordinator) dropConn(requestID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, requestID)
}

// waitForConnection blocks until a connection attaches for requestID or
// connectionAttachTimeout elapses, per spec §4.9 step 3: "if no
// connection arrives within 10s, the task proceeds and buffers the
// final state for later polling."
func (c *Coordinator) waitForConnection(ctx context.Context, requestID string) (*websocket.Conn, bool) {
	deadline := time.Now().Add(connectionAttachTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		if conn, ok := c.connOf(requestID); ok {
			return conn, true
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-ticker.C:
		}
	}
	return c.connOf(requestID)
}
