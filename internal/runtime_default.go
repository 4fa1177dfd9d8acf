//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// each goroutine drives its own runtime, so reactive state is never shared
// implicitly between goroutines
var runtimes sync.Map

func GetRuntime() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r, _ := runtimes.LoadOrStore(gid, NewRuntime())
	return r.(*Runtime)
}

// ReleaseRuntime drops the calling goroutine's runtime. Pending jobs and
// microtasks are discarded with it.
func ReleaseRuntime() {
	runtimes.Delete(goid.Get())
}
