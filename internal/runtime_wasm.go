//go:build wasm

package internal

import "sync"

// js/wasm runs a single goroutine driving the event loop
var (
	runtimeOnce   sync.Once
	sharedRuntime *Runtime
)

func GetRuntime() *Runtime {
	runtimeOnce.Do(func() {
		sharedRuntime = NewRuntime()
	})

	return sharedRuntime
}

// ReleaseRuntime replaces the shared runtime with a fresh one.
func ReleaseRuntime() {
	GetRuntime()
	sharedRuntime = NewRuntime()
}
