package reactivity

import "github.com/AnatoleLucet/reactivity/internal"

// As converts v to T, returning T's zero value for nil.
func As[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Job is a unit of work handed to QueueJob. Jobs are deduplicated by
// identity, so use pointer implementations (see NewJob).
type Job = internal.Job

// Tick settles once a flush completes. See NextTick.
type Tick = internal.Tick

// PanicError carries a value recovered from a job that panicked during a flush.
type PanicError = internal.PanicError

// ErrUnsettled is returned by Tick.Wait when called from inside the flush it waits for.
var ErrUnsettled = internal.ErrUnsettled

type funcJob struct {
	fn func()
}

func (j *funcJob) Run() { j.fn() }

// NewJob wraps fn into a Job. Each call returns a distinct job.
func NewJob(fn func()) Job {
	return &funcJob{fn}
}

// Effect is a side effect re-run whenever the state it read last time changes.
type Effect struct {
	derivation *internal.Derivation
}

// NewEffect runs fn and re-runs it each time one of its dependencies changes.
//
// A live effect keeps the state it reads reachable, through its subscriptions,
// until it is stopped with Stop or with the Scope it belongs to.
func NewEffect(fn func(), opts ...EffectOption) *Effect {
	cfg := newEffectConfig(opts)

	return &Effect{
		internal.GetRuntime().NewDerivation(func() any {
			fn()
			return nil
		}, cfg.lazy, cfg.policy()),
	}
}

// NewRenderEffect creates an effect whose re-runs are batched into the next
// flush. This is how a renderer should register its update function.
func NewRenderEffect(fn func()) *Effect {
	return NewEffect(fn, WithScheduler(QueueJob))
}

// Run re-runs the effect synchronously. A stopped effect does not run.
func (e *Effect) Run() { e.derivation.Run() }

// Stop detaches the effect from its dependencies and runs its cleanups.
func (e *Effect) Stop() { e.derivation.Stop() }

// Stopped reports whether Stop was called.
func (e *Effect) Stopped() bool { return e.derivation.Stopped() }

// Runner is an effect whose body returns a value.
type Runner[T any] struct {
	derivation *internal.Derivation
}

// NewRunner is NewEffect for a body returning a value.
func NewRunner[T any](fn func() T, opts ...EffectOption) *Runner[T] {
	cfg := newEffectConfig(opts)

	return &Runner[T]{
		internal.GetRuntime().NewDerivation(func() any {
			return fn()
		}, cfg.lazy, cfg.policy()),
	}
}

// Run re-runs the body and returns its result.
// A stopped runner still runs its body, without tracking anything.
func (r *Runner[T]) Run() T {
	return As[T](r.derivation.Evaluate())
}

func (r *Runner[T]) Stop() { r.derivation.Stop() }

func (r *Runner[T]) Stopped() bool { return r.derivation.Stopped() }

// Track subscribes the running effect, if any, to key of target.
func Track[T any](target *T, key any) {
	internal.Track(target, key)
}

// Trigger notifies the effects subscribed to key of target.
func Trigger[T any](target *T, key any) {
	internal.Trigger(target, key)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers fn on the running effect. It is called before the
// effect's next run and when the effect is stopped.
// Outside of an effect, fn is registered on the running scope, if any.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}

// Batch runs fn and defers the synchronous effect re-runs it causes until it
// returns, so each affected effect re-runs once. Batches can be nested.
// If fn panics out of the outermost batch, the deferred re-runs are dropped.
func Batch(fn func()) {
	internal.GetRuntime().Batch(fn)
}

// QueueJob schedules job for the next flush. A job already pending is not queued twice.
func QueueJob(job Job) {
	internal.GetRuntime().Scheduler().QueueJob(job)
}

// NextTick returns a tick settled after the pending flush, if any.
// When fn is not nil, fn runs after the flush and the returned tick
// settles after fn.
func NextTick(fn func()) *Tick {
	return internal.GetRuntime().Scheduler().NextTick(fn)
}

// Settle runs pending flushes and their continuations until nothing is left.
func Settle() error {
	return internal.GetRuntime().Settle()
}
