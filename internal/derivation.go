package internal

import (
	"sync/atomic"
	"time"
)

// Job is a unit of work the scheduler can queue. Jobs are deduplicated by
// identity, so implementations should be pointers.
type Job interface {
	Run()
}

type PolicyKind int

const (
	// PolicyDefault re-runs the derivation synchronously when triggered.
	PolicyDefault PolicyKind = iota

	// PolicyScheduled hands the derivation to a scheduler function instead.
	PolicyScheduled
)

// Policy decides what happens when one of a derivation's dependencies is triggered.
type Policy struct {
	Kind      PolicyKind
	Scheduler func(Job)
}

func DefaultPolicy() Policy {
	return Policy{Kind: PolicyDefault}
}

func ScheduledPolicy(scheduler func(Job)) Policy {
	if scheduler == nil {
		return DefaultPolicy()
	}

	return Policy{Kind: PolicyScheduled, Scheduler: scheduler}
}

var derivationIDs atomic.Uint64

// Derivation is a re-runnable body whose reads are tracked.
type Derivation struct {
	id uint64
	rt *Runtime

	fn     func() any
	policy Policy

	// dependency sets this derivation currently belongs to
	deps []depID

	// called before the next run and on stop
	cleanups []func()

	// scope the derivation was created in, if any
	scope *Scope

	stopped bool
}

// NewDerivation registers fn. Unless lazy, it runs once immediately.
func (r *Runtime) NewDerivation(fn func() any, lazy bool, policy Policy) *Derivation {
	d := &Derivation{
		id:     derivationIDs.Add(1),
		rt:     r,
		fn:     fn,
		policy: policy,
	}

	if s := r.tracker.Scope(); s != nil && !s.stopped {
		d.scope = s
		s.add(d)
	}

	if !lazy {
		d.Evaluate()
	}

	return d
}

func (d *Derivation) Stopped() bool { return d.stopped }

// Run re-runs the body, discarding its result. It implements Job.
// A derivation stopped while queued does not run.
func (d *Derivation) Run() {
	if d.stopped {
		return
	}

	d.Evaluate()
}

// Evaluate runs the body with a fresh set of dependencies and returns its result.
// A panic is handed to the error handlers of the derivation's scope, if any.
func (d *Derivation) Evaluate() (result any) {
	if d.stopped {
		d.rt.tracker.RunUntracked(func() { result = d.fn() })
		return result
	}

	d.clean()

	if d.scope != nil {
		defer d.scope.catch()
	}

	if !observing() {
		d.rt.tracker.RunWithDerivation(d, func() { result = d.fn() })
		return result
	}

	stats := RunStats{Derivation: d.id, Start: time.Now(), Scheduled: d.policy.Kind == PolicyScheduled}
	defer func() {
		stats.Duration = time.Since(stats.Start)
		if r := recover(); r != nil {
			stats.Panic = r
			notifyRun(stats)
			panic(r)
		}
		notifyRun(stats)
	}()

	d.rt.tracker.RunWithDerivation(d, func() { result = d.fn() })
	return result
}

// Stop detaches the derivation from every dependency. Later triggers are ignored.
func (d *Derivation) Stop() {
	if d.stopped {
		return
	}

	d.clean()
	d.stopped = true

	if d.scope != nil {
		d.scope.remove(d)
	}
}

// OnCleanup registers fn to run before the next run, or on stop.
func (d *Derivation) OnCleanup(fn func()) {
	d.cleanups = append(d.cleanups, fn)
}

func (d *Derivation) clean() {
	cleanups := d.cleanups
	d.cleanups = nil

	for _, id := range d.deps {
		d.rt.store.unsubscribe(id, d)
	}
	d.deps = d.deps[:0]

	for _, cleanup := range cleanups {
		d.rt.tracker.RunUntracked(cleanup)
	}
}

func (d *Derivation) addDep(id depID) {
	d.deps = append(d.deps, id)
}

// notify applies the derivation's policy after one of its dependencies changed.
func (d *Derivation) notify() {
	switch d.policy.Kind {
	case PolicyScheduled:
		d.policy.Scheduler(d)
	default:
		d.Evaluate()
	}
}
