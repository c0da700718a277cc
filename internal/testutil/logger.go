// Package testutil provides shared helpers for the engine and state
// tests, which need a real *slog.Logger without polluting test output.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level logger routed through t.Log, so
// evaluation and store log lines surface only on failure or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// testWriter adapts testing.TB to io.Writer for the slog handler.
type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
