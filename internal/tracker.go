package internal

// Tracker holds the stack of running derivations.
// The top of the stack is the derivation that collects dependencies.
type Tracker struct {
	tracking bool

	stack []*Derivation

	// scope owning the derivations created now
	scope *Scope
}

func NewTracker() *Tracker {
	return &Tracker{
		tracking: true,
	}
}

// RunWithDerivation runs fn with d as the active derivation.
// The previous derivation is restored even if fn panics.
func (t *Tracker) RunWithDerivation(d *Derivation, fn func()) {
	prevTracking, prevScope := t.tracking, t.scope
	t.tracking = true
	t.scope = d.scope
	t.stack = append(t.stack, d)

	defer func() {
		t.stack[len(t.stack)-1] = nil
		t.stack = t.stack[:len(t.stack)-1]
		t.tracking = prevTracking
		t.scope = prevScope
	}()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

// RunWithScope runs fn with s owning the derivations created meanwhile.
func (t *Tracker) RunWithScope(s *Scope, fn func()) {
	prev := t.scope
	t.scope = s
	defer func() { t.scope = prev }()

	fn()
}

func (t *Tracker) Scope() *Scope {
	return t.scope
}

// Active returns the derivation currently collecting dependencies, if any.
func (t *Tracker) Active() *Derivation {
	if !t.tracking || len(t.stack) == 0 {
		return nil
	}

	return t.stack[len(t.stack)-1]
}

// Current returns the innermost running derivation, tracked or not.
func (t *Tracker) Current() *Derivation {
	if len(t.stack) == 0 {
		return nil
	}

	return t.stack[len(t.stack)-1]
}

// Running reports whether d is anywhere on the stack.
func (t *Tracker) Running(d *Derivation) bool {
	for _, running := range t.stack {
		if running == d {
			return true
		}
	}

	return false
}

func (t *Tracker) Depth() int {
	return len(t.stack)
}
