package domain

import "time"

// SummaryState is the lifecycle of one background summary task.
type SummaryState string

const (
	SummaryStarting   SummaryState = "starting"
	SummaryProcessing SummaryState = "processing"
	SummaryCompleted  SummaryState = "completed"
	SummaryFailed     SummaryState = "failed"
)

// SummaryTask is process-wide mutable state for one request_id,
// written by the background generator and read by the connection
// handler. See DESIGN NOTES: single-writer-per-field in practice.
type SummaryTask struct {
	RequestID string
	Query     string
	State     SummaryState
	Summary   string
	Error     string
	CreatedAt time.Time
}

// FrameType is the discriminator of a summary-channel websocket frame.
type FrameType string

const (
	FrameStatus       FrameType = "status"
	FrameProgress     FrameType = "progress"
	FrameSummaryChunk FrameType = "summary_chunk"
	FrameSummaryDone  FrameType = "summary_done"
	FrameError        FrameType = "error"
	FramePing         FrameType = "ping"
)

// SummaryFrame is one message sent down the duplex connection.
type SummaryFrame struct {
	Type    FrameType `json:"type"`
	Text    string    `json:"text,omitempty"`
	Message string    `json:"message,omitempty"`
}
