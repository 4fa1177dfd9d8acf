package internal

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// RunStats describes one execution of a derivation body.
type RunStats struct {
	// Derivation identifies the derivation, stable across its runs.
	Derivation uint64

	Start    time.Time
	Duration time.Duration

	// Scheduled is true for derivations with a custom re-run policy.
	Scheduled bool

	// Panic holds the recovered value when the body panicked.
	Panic any
}

// FlushStats describes one scheduler flush.
type FlushStats struct {
	Start    time.Time
	Duration time.Duration
	Jobs     int
	Err      error
}

// Observer receives engine events. Implementations must be cheap, they are
// called synchronously from the runtime.
type Observer interface {
	ObserveTrigger(subscribers int)
	ObserveRun(RunStats)
	ObserveFlush(FlushStats)
}

type observerEntry struct {
	observer Observer
}

var (
	observersMu sync.Mutex
	observers   atomic.Pointer[[]*observerEntry]
)

// AddObserver registers o and returns a function removing it.
func AddObserver(o Observer) (remove func()) {
	entry := &observerEntry{o}

	observersMu.Lock()
	defer observersMu.Unlock()

	next := append(slices.Clone(loadObservers()), entry)
	observers.Store(&next)

	return func() {
		observersMu.Lock()
		defer observersMu.Unlock()

		next := slices.DeleteFunc(slices.Clone(loadObservers()), func(e *observerEntry) bool {
			return e == entry
		})
		observers.Store(&next)
	}
}

func loadObservers() []*observerEntry {
	if p := observers.Load(); p != nil {
		return *p
	}

	return nil
}

func observing() bool {
	return len(loadObservers()) > 0
}

func notifyTrigger(subscribers int) {
	for _, e := range loadObservers() {
		e.observer.ObserveTrigger(subscribers)
	}
}

func notifyRun(stats RunStats) {
	for _, e := range loadObservers() {
		e.observer.ObserveRun(stats)
	}
}

func notifyFlush(stats FlushStats) {
	for _, e := range loadObservers() {
		e.observer.ObserveFlush(stats)
	}
}
