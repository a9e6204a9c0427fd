package service

import "errors"

// Service errors.
var (
	// ErrInvalidEvent marks an event that failed vocabulary or metadata
	// validation and was never appended.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrDuplicateEvent marks an event id that was already ingested.
	ErrDuplicateEvent = errors.New("duplicate event")

	// ErrReportNotReady marks a report request for a session that has
	// not completed yet.
	ErrReportNotReady = errors.New("report not ready: session still active")
)
