package summary

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumensearch/search-core/internal/core/domain"
)

const pingInterval = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection, registers it against
// requestID, relays the task's current status, then runs a ping loop
// until the task reaches a terminal state, per spec §4.9 steps 3-5.
// Mount it at /ws/summary/{request_id} with requestID taken from the
// path.
func (c *Coordinator) HandleWebSocket(w http.ResponseWriter, r *http.Request, requestID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", "request_id", requestID, "error", err)
		return
	}
	c.registerConn(requestID, conn)
	defer func() {
		c.dropConn(requestID)
		conn.Close()
	}()

	if task, ok := c.Task(requestID); ok {
		c.sendFrame(conn, domain.SummaryFrame{Type: domain.FrameStatus, Message: string(task.State)})
	}

	c.pingLoop(conn, requestID)
}

// pingLoop keeps the connection alive with periodic pings, reading (and
// discarding, except for pong bookkeeping) client frames, exiting as
// soon as the task reaches a terminal state — matching the Python
// original's asyncio.wait_for-based read-with-timeout loop.
func (c *Coordinator) pingLoop(conn *websocket.Conn, requestID string) {
	lastPing := time.Now()
	conn.SetReadDeadline(time.Now().Add(time.Second))

	for {
		if task, ok := c.Task(requestID); ok {
			if task.State == domain.SummaryCompleted || task.State == domain.SummaryFailed {
				return
			}
		}

		if time.Since(lastPing) > pingInterval {
			if !c.sendFrame(conn, domain.SummaryFrame{Type: domain.FramePing}) {
				return
			}
			lastPing = time.Now()
		}

		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
				continue
			}
			return
		}
	}
}

// sendFrame writes one JSON frame; returns false on write failure so
// callers can stop streaming.
func (c *Coordinator) sendFrame(conn *websocket.Conn, frame domain.SummaryFrame) bool {
	body, err := json.Marshal(frame)
	if err != nil {
		return false
	}
	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		c.logger.Warn("failed to write summary frame", "error", err)
		return false
	}
	return true
}

func closeConnection(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "summary complete"),
		time.Now().Add(time.Second))
	conn.Close()
}
