package domain

import "errors"

// Sentinel errors, tiered by the severities of spec §7. Each
// component's boundary compares against these with errors.Is rather
// than letting a raw error escape across a layer.
var (
	// Tier 1: validation — skip the record, counted, logged at debug.
	ErrMissingURL        = errors.New("raw record missing url")
	ErrEmptyContent      = errors.New("raw record content empty or too short")
	ErrInvalidURL        = errors.New("raw record url is not absolute http(s) or too short")
	ErrLanguageFiltered  = errors.New("content language is not english")

	// Tier 2: parsing — skip the record, logged at warn, throttled.
	ErrMalformedJSON = errors.New("malformed json record")
	ErrMalformedHTML = errors.New("html could not be parsed")

	// Tier 3: processing — skip the record, logged at error, counted.
	ErrContentTooShort  = errors.New("main content shorter than minimum length")
	ErrGenericTitle     = errors.New("title matched generic-title blocklist")
	ErrNoSurvivingChunk = errors.New("no chunk survived minimum-size filtering")

	// Indexer / index-store errors.
	ErrQueueFull        = errors.New("queue is full")
	ErrQueueClosed      = errors.New("queue is closed")
	ErrIndexUnreachable = errors.New("index store unreachable")
	ErrBulkRejected     = errors.New("bulk call rejected")
	ErrOrphanChunk      = errors.New("chunk references unknown document")

	// Query service errors.
	ErrNotFound        = errors.New("not found")
	ErrSummarizerDown  = errors.New("summarizer unavailable")
	ErrInvalidInput    = errors.New("invalid input")
)
