// Package logging holds the *slog.Logger used for debug output by the ripper
// packages. Nothing is logged unless a logger is installed with SetLogger.
//
// Enable debug output to stderr:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//	    &slog.HandlerOptions{Level: slog.LevelDebug})))
//
// Capture output in tests:
//
//	h := logging.NewCaptureHandler(nil)
//	logging.SetLogger(slog.New(h))
//	// ... load a document ...
//	if h.Contains("object number collision") { ... }
package logging

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

var discard = slog.New(slog.DiscardHandler)

// SetLogger installs the package-level logger. Passing nil restores the
// discarding logger. SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	logger.Store(l)
}

// Logger returns the installed logger, or a logger that discards everything.
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return discard
}
