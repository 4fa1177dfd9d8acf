package internal

// Batcher defers synchronous re-runs until the outermost batch completes.
type Batcher struct {
	// each nested batch increases the depth by 1
	// if depth > 0, re-runs are deferred until the outermost batch is complete
	depth int

	pending []*Derivation
	queued  map[*Derivation]struct{}
}

func NewBatcher() *Batcher {
	return &Batcher{
		queued: make(map[*Derivation]struct{}),
	}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Defer records d for a re-run once the batch completes. It is recorded once.
func (b *Batcher) Defer(d *Derivation) {
	if _, ok := b.queued[d]; ok {
		return
	}

	b.queued[d] = struct{}{}
	b.pending = append(b.pending, d)
}

// Batch runs fn, then onComplete once the outermost batch returns.
// When the outermost batch panics, the deferred derivations are dropped
// and the panic propagates.
func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		b.depth--

		if v := recover(); v != nil {
			if b.depth == 0 {
				b.take()
			}
			panic(v)
		}

		if b.depth == 0 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
}

func (b *Batcher) take() []*Derivation {
	pending := b.pending
	b.pending = nil
	clear(b.queued)

	return pending
}

// Batch runs fn, deferring the synchronous re-runs it causes until it returns.
// Each affected derivation then re-runs once.
func (r *Runtime) Batch(fn func()) {
	r.batcher.Batch(fn, func() {
		notifyAll(r, r.batcher.take(), nil)
	})
}
