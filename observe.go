package reactivity

import (
	"log/slog"

	"github.com/AnatoleLucet/reactivity/internal"
)

// Observer receives engine events: triggers, effect runs and flushes.
// It is called synchronously, so it must be cheap.
type Observer = internal.Observer

type (
	RunStats   = internal.RunStats
	FlushStats = internal.FlushStats
)

// AddObserver registers o for every runtime and returns a function removing it.
func AddObserver(o Observer) (remove func()) {
	return internal.AddObserver(o)
}

// SetLogger sets the logger used for warnings. nil restores slog.Default.
func SetLogger(l *slog.Logger) {
	internal.SetLogger(l)
}

// HasChanged reports whether value differs from old, the way writes decide
// whether to notify. NaN is unchanged relative to NaN, maps and slices are
// compared by identity.
func HasChanged(value, old any) bool {
	return internal.HasChanged(value, old)
}
