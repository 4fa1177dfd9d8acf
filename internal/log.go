package internal

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

// Logger returns the logger used for warnings, falling back to slog.Default.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}

	return slog.Default()
}

// SetLogger replaces the logger. A nil logger restores slog.Default.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}
