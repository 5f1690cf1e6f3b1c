package models

import "time"

// Upload is one validated file taken from the multipart form before any
// staging happens.
type Upload struct {
	Filename  string
	MediaType string
	Size      int64
	Data      []byte
}

// Result is a completed conversion ready to stream back to the client.
type Result struct {
	Data        []byte
	ContentType string
	Filename    string
}

// JobRecord is one row of the best-effort conversion audit log.
type JobRecord struct {
	ID          string
	Operation   string
	Filename    string
	InputBytes  int64
	OutputBytes int64
	Outcome     string // "success" or a failure cause keyword
	Detail      string
	Duration    time.Duration
	CreatedAt   time.Time
}

// Failure cause keywords recorded in the audit log.
const (
	OutcomeSuccess           = "success"
	OutcomeValidation        = "validation_error"
	OutcomeRuntimeNotFound   = "runtime_not_found"
	OutcomeScriptNotFound    = "script_not_found"
	OutcomeDependencyMissing = "dependency_missing"
	OutcomeTimeout           = "timeout"
	OutcomeFailed            = "conversion_failed"
)
