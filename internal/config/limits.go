package config

import "time"

const (
	// MaxUploadBytes is the maximum size of a single uploaded file.
	// 25 MiB matches what the hosted tier advertises; larger files make
	// the Office conversion workers balloon in memory.
	MaxUploadBytes = 25 << 20

	// MaxUploadSizeMessage is the user-facing rejection message for
	// oversize uploads.
	MaxUploadSizeMessage = "File size exceeds 25MB limit"

	// FormOverheadBytes is per-file headroom for multipart framing and
	// form fields, added on top of MaxUploadBytes when bounding a whole
	// request body. Kept above zero so the per-file size check fires with
	// its own message rather than a generic body-too-large error.
	FormOverheadBytes = 1 << 20

	// MaxMergeFiles is the maximum number of files accepted by the merge
	// operation.
	MaxMergeFiles = 20

	// ProbeTimeout bounds a single interpreter version probe.
	ProbeTimeout = 5 * time.Second

	// MaxCapturedOutput caps combined captured stdout+stderr of a worker
	// process. Overflow is truncated, not treated as an error.
	MaxCapturedOutput = 32 << 20

	// StderrExcerptLen is how much trailing stderr is kept in a
	// conversion-failure message.
	StderrExcerptLen = 512
)
