// Package testutil provides helpers shared by the package tests: loggers,
// stub upstream HTTP servers and tool result accessors.
package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
)

// NewTestLogger creates a new logger for testing
// If writer is nil, it will use io.Discard
func NewTestLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// DiscardLogger returns a logger that discards all output
func DiscardLogger() *slog.Logger {
	return NewTestLogger(nil)
}

// LogBuffer is a goroutine-safe buffer for capturing log output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogger returns a debug-level logger writing into the returned buffer.
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return NewTestLogger(buf), buf
}
