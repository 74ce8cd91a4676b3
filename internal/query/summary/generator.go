package summary

import (
	"context"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

// generate is the background task of spec §4.9 step 2: wait (up to
// connectionAttachTimeout) for a WebSocket attach, move the task to
// processing, call the summarizer (falling back to TemplateSummary on
// error), stream the result to an attached connection, then mark the
// task completed.
func (c *Coordinator) generate(ctx context.Context, requestID, query string, results []driven.SummaryResultRef, maxLength int) {
	conn, attached := c.waitForConnection(ctx, requestID)
	c.setState(requestID, domain.SummaryProcessing)
	if attached {
		c.sendFrame(conn, domain.SummaryFrame{Type: domain.FrameProgress, Message: "Analyzing search results..."})
	}

	text, err := c.summarizer.Summarize(ctx, driven.SummaryRequest{Query: query, Results: results, MaxLength: maxLength})
	if err != nil {
		text = TemplateSummary(query, results)
	}

	if attached {
		c.streamChunks(conn, text)
		c.sendFrame(conn, domain.SummaryFrame{Type: domain.FrameSummaryDone})
		closeConnection(conn)
		c.dropConn(requestID)
	}
	c.complete(requestID, text)
}

// streamChunks sends summary text in ~3-word fragments with ~100ms
// pacing to produce a typing effect, per spec §4.9 step 4.
func (c *Coordinator) streamChunks(conn *websocket.Conn, text string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	for i := 0; i < len(words); i += chunkWordsPerFragment {
		end := i + chunkWordsPerFragment
		if end > len(words) {
			end = len(words)
		}
		fragment := strings.Join(words[i:end], " ")
		if end < len(words) {
			fragment += " "
		}
		if !c.sendFrame(conn, domain.SummaryFrame{Type: domain.FrameSummaryChunk, Text: fragment}) {
			return
		}
		time.Sleep(chunkPacing)
	}
}
