package internal

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
	"weak"
)

// Runtime is one logical execution context: its own dependency store, stack
// of running derivations, scheduler and microtask queue.
type Runtime struct {
	store      *Store
	tracker    *Tracker
	batcher    *Batcher
	scheduler  *Scheduler
	microtasks *Microtasks
}

func NewRuntime() *Runtime {
	m := NewMicrotasks()

	return &Runtime{
		store:      NewStore(),
		tracker:    NewTracker(),
		batcher:    NewBatcher(),
		scheduler:  NewScheduler(m),
		microtasks: m,
	}
}

func (r *Runtime) Store() *Store { return r.store }

func (r *Runtime) Scheduler() *Scheduler { return r.scheduler }

// Untrack runs fn without collecting dependencies.
func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

// OnCleanup registers fn on the running derivation, or else on the running
// scope. Outside of both it is a no-op.
func (r *Runtime) OnCleanup(fn func()) {
	if d := r.tracker.Current(); d != nil {
		d.OnCleanup(fn)
		return
	}

	if s := r.tracker.Scope(); s != nil {
		s.OnCleanup(fn)
	}
}

// Settle runs every pending microtask, flushes included, and returns the
// errors of the flushes that failed meanwhile.
func (r *Runtime) Settle() error {
	var errs []error

	for {
		if r.scheduler.Pending() {
			if err := r.scheduler.NextTick(nil).Wait(); err != nil {
				if errors.Is(err, ErrUnsettled) {
					return err
				}
				errs = append(errs, err)
			}
			continue
		}

		if !r.microtasks.RunOne() {
			return errors.Join(errs...)
		}
	}
}

// Track subscribes the active derivation, if any, to (target, key).
func Track[T any](target *T, key any) {
	r := GetRuntime()

	d := r.tracker.Active()
	if d == nil || d.stopped {
		return
	}

	mustTrackable(target)

	wk := weak.Make(target)
	id, isNew := r.store.ensure(wk, key)
	if isNew {
		runtime.AddCleanup(target, r.store.forget, any(wk))
	}

	if r.store.subscribe(id, d) {
		d.addDep(id)
	}
}

// Trigger notifies every derivation subscribed to (target, key).
//
// Subscribers are snapshotted first since re-running a derivation removes
// and re-adds it to the very set being iterated.
func Trigger[T any](target *T, key any) {
	if target == nil {
		return
	}

	r := GetRuntime()

	subs := r.store.subscribers(weak.Make(target), key)
	if len(subs) == 0 {
		return
	}

	if observing() {
		notifyTrigger(len(subs))
	}

	notifyAll(r, subs, key)
}

// notifyAll notifies each derivation in turn. A panicking one does not stop
// the others, the first panic is re-raised once all of them ran.
func notifyAll(r *Runtime, subs []*Derivation, key any) {
	var (
		panicked   bool
		firstPanic any
	)

	for _, d := range subs {
		if d.stopped || r.tracker.Running(d) {
			continue
		}

		if d.policy.Kind == PolicyDefault && r.batcher.IsBatching() {
			r.batcher.Defer(d)
			continue
		}

		func() {
			defer func() {
				if v := recover(); v != nil {
					if !panicked {
						panicked, firstPanic = true, v
						return
					}
					Logger().Warn("reactivity: subscriber panicked", "key", key, "panic", v)
				}
			}()

			d.notify()
		}()
	}

	if panicked {
		panic(firstPanic)
	}
}

func mustTrackable[T any](target *T) {
	if target == nil {
		panic("reactivity: cannot track a nil target")
	}

	if unsafe.Sizeof(*target) == 0 {
		panic(fmt.Sprintf("reactivity: cannot track zero-sized target %T", target))
	}
}
