package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// CaptureHandler is a slog.Handler that keeps records in memory as JSON
// lines. Handlers derived with WithAttrs or WithGroup write to the same
// buffer.
type CaptureHandler struct {
	level  slog.Leveler
	sink   *captureSink
	attrs  []slog.Attr
	groups []string
}

type captureSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

type captureRecord struct {
	Level   string   `json:"level"`
	Message string   `json:"msg"`
	Attrs   []string `json:"attrs,omitempty"`
}

// NewCaptureHandler returns an empty handler. With nil opts (or a nil
// Level) every level is captured.
func NewCaptureHandler(opts *slog.HandlerOptions) *CaptureHandler {
	h := &CaptureHandler{sink: &captureSink{}}
	if opts != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled implements slog.Handler.
func (h *CaptureHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.level == nil || level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := captureRecord{Level: r.Level.String(), Message: r.Message}
	for _, a := range h.attrs {
		rec.Attrs = append(rec.Attrs, h.qualify(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs = append(rec.Attrs, h.qualify(a))
		return true
	})

	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	h.sink.buf.Write(line)
	h.sink.buf.WriteByte('\n')
	return nil
}

func (h *CaptureHandler) qualify(a slog.Attr) string {
	if len(h.groups) == 0 {
		return a.String()
	}
	return strings.Join(h.groups, ".") + "." + a.String()
}

// WithAttrs implements slog.Handler.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &c
}

// WithGroup implements slog.Handler.
func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append([]string(nil), h.groups...), name)
	return &c
}

// String returns everything captured so far.
func (h *CaptureHandler) String() string {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return h.sink.buf.String()
}

// Contains reports whether the captured output contains s.
func (h *CaptureHandler) Contains(s string) bool {
	return strings.Contains(h.String(), s)
}

// Reset discards the captured output.
func (h *CaptureHandler) Reset() {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	h.sink.buf.Reset()
}
