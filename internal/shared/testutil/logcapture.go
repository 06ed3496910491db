package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// CapturedLog is one record seen by a LogCapture
type CapturedLog struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that keeps every record for assertions
type LogCapture struct {
	mu      *sync.Mutex
	records *[]CapturedLog
	attrs   []slog.Attr
	t       testing.TB
}

// NewLogCapture returns a handler and a logger writing to it
func NewLogCapture(t testing.TB) (*LogCapture, *slog.Logger) {
	h := &LogCapture{mu: &sync.Mutex{}, records: &[]CapturedLog{}, t: t}
	return h, slog.New(h)
}

// Enabled implements slog.Handler
func (h *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler
func (h *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	*h.records = append(*h.records, CapturedLog{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler; derived handlers share the record buffer
func (h *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &LogCapture{mu: h.mu, records: h.records, attrs: merged, t: h.t}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *LogCapture) WithGroup(string) slog.Handler { return h }

// Records returns a copy of the captured records
func (h *LogCapture) Records() []CapturedLog {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]CapturedLog, len(*h.records))
	copy(out, *h.records)
	return out
}

// Contains reports whether any record message contains substr
func (h *LogCapture) Contains(substr string) bool {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

// Find returns the first record whose message contains substr
func (h *LogCapture) Find(substr string) (CapturedLog, bool) {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, substr) {
			return r, true
		}
	}
	return CapturedLog{}, false
}
