package core

import "errors"

var (
	// ErrMalformedString reports an unterminated literal or hex string, or a
	// hex string holding a non-hex digit.
	ErrMalformedString = errors.New("core: malformed string")

	// ErrNotString reports input that does not open with ( or a single <.
	ErrNotString = errors.New("core: not a string")

	// ErrNoObjectsFound reports a buffer without any "N G obj ... endobj" span.
	ErrNoObjectsFound = errors.New("core: no objects found")

	// ErrStreamDecompressionFailed reports a missing stream or a Flate error.
	ErrStreamDecompressionFailed = errors.New("core: stream decompression failed")
)
