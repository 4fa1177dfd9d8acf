package internal

// Microtasks is a FIFO of continuations run after the current synchronous
// burst of work, whenever the owning goroutine waits on a Tick.
type Microtasks struct {
	tasks []func()
}

func NewMicrotasks() *Microtasks {
	return &Microtasks{
		tasks: make([]func(), 0),
	}
}

func (m *Microtasks) Enqueue(fn func()) {
	m.tasks = append(m.tasks, fn)
}

// RunOne runs the oldest pending continuation, reporting whether there was one.
func (m *Microtasks) RunOne() bool {
	if len(m.tasks) == 0 {
		return false
	}

	task := m.tasks[0]
	m.tasks[0] = nil
	m.tasks = m.tasks[1:]

	task()
	return true
}

// Drain runs continuations until none are left, including the ones queued
// while draining.
func (m *Microtasks) Drain() {
	for m.RunOne() {
	}
}

func (m *Microtasks) Len() int {
	return len(m.tasks)
}

// Tick is a completion handle settled once, either resolved or rejected with
// an error. Continuations attached with Then run as microtasks.
type Tick struct {
	microtasks *Microtasks

	done    chan struct{}
	settled bool
	err     error

	callbacks []func()
}

func newTick(m *Microtasks) *Tick {
	return &Tick{
		microtasks: m,
		done:       make(chan struct{}),
	}
}

func resolvedTick(m *Microtasks) *Tick {
	t := newTick(m)
	t.settle(nil)
	return t
}

func (t *Tick) settle(err error) {
	if t.settled {
		return
	}

	t.settled = true
	t.err = err
	close(t.done)

	callbacks := t.callbacks
	t.callbacks = nil

	for _, cb := range callbacks {
		t.microtasks.Enqueue(cb)
	}
}

func (t *Tick) whenSettled(cb func()) {
	if t.settled {
		t.microtasks.Enqueue(cb)
		return
	}

	t.callbacks = append(t.callbacks, cb)
}

// Then returns a tick settled after fn ran following t's resolution.
// When t is rejected fn is skipped and the returned tick carries the same error.
// A panic in fn rejects the returned tick.
func (t *Tick) Then(fn func()) *Tick {
	next := newTick(t.microtasks)

	t.whenSettled(func() {
		if t.err != nil {
			next.settle(t.err)
			return
		}

		defer func() {
			if r := recover(); r != nil {
				next.settle(NewPanicError(r))
			}
		}()

		fn()
		next.settle(nil)
	})

	return next
}

// Wait runs pending microtasks until t settles and returns its error.
// It must be called from the goroutine owning the tick's runtime, use Done
// from anywhere else.
func (t *Tick) Wait() error {
	for !t.settled {
		if !t.microtasks.RunOne() {
			return ErrUnsettled
		}
	}

	return t.err
}

// Done is closed once the tick settles.
func (t *Tick) Done() <-chan struct{} {
	return t.done
}

// Err returns the rejection error, nil while pending or when resolved.
func (t *Tick) Err() error {
	return t.err
}

func (t *Tick) Settled() bool {
	return t.settled
}
