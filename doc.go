// Package reactivity tracks which effects read which pieces of state and
// re-runs them when that state changes.
//
// State lives in reactive wrappers (NewReactive), boxes (NewRef) and cached
// derivations (NewComputed). Effects (NewEffect) re-run synchronously by
// default, or through a scheduler: with QueueJob, re-runs requested during a
// burst of writes are coalesced into a single flush, awaited with NextTick.
//
//	count := reactivity.NewRef(0)
//	reactivity.NewRenderEffect(func() {
//		fmt.Println("count:", count.Value())
//	})
//
//	count.Set(1)
//	count.Set(2)
//	reactivity.NextTick(nil).Wait() // prints "count: 2" once
//
// Every goroutine drives its own runtime. Pending flushes only run while the
// goroutine waits on a Tick or calls Settle.
package reactivity
