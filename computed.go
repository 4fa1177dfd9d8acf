package reactivity

import "github.com/AnatoleLucet/reactivity/internal"

// ComputedOptions describes a writable computed value.
type ComputedOptions[T any] struct {
	Get func() T
	Set func(T)
}

// Computed is a cached value derived from other reactive state.
// It recomputes lazily, on the first read after one of its dependencies changed.
type Computed[T any] struct {
	derivation *internal.Derivation

	value T
	dirty bool

	setter func(T)
}

// NewComputed creates a read-only computed value.
func NewComputed[T any](get func() T) *Computed[T] {
	return newComputed(get, nil)
}

// NewWritableComputed creates a computed value whose Set calls opts.Set.
func NewWritableComputed[T any](opts ComputedOptions[T]) *Computed[T] {
	return newComputed(opts.Get, opts.Set)
}

func newComputed[T any](get func() T, set func(T)) *Computed[T] {
	c := &Computed[T]{
		dirty:  true,
		setter: set,
	}

	c.derivation = internal.GetRuntime().NewDerivation(func() any {
		return get()
	}, true, internal.ScheduledPolicy(func(internal.Job) {
		if !c.dirty {
			c.dirty = true
			Trigger(c, "value")
		}
	}))

	return c
}

// Value returns the cached value, recomputing it first when stale.
func (c *Computed[T]) Value() T {
	Track(c, "value")

	if c.dirty || c.derivation.Stopped() {
		c.value = As[T](c.derivation.Evaluate())
		c.dirty = false
	}

	return c.value
}

// Set calls the setter of a writable computed. On a read-only one the write
// is discarded with a warning.
func (c *Computed[T]) Set(value T) {
	if c.setter == nil {
		internal.Logger().Warn("reactivity: computed value is readonly", "value", value)
		return
	}

	c.setter(value)
}

// Stop detaches the computed from its dependencies. A stopped computed recomputes on every read.
func (c *Computed[T]) Stop() {
	c.derivation.Stop()
}
