package internal

import "slices"

// Scope owns the derivations and child scopes created while it runs, so they
// can be stopped together.
type Scope struct {
	rt *Runtime

	parent   *Scope
	children []*Scope

	derivations []*Derivation

	// cleanup functions called when the scope is stopped
	cleanups []func()

	// panic handlers for the derivations of this scope and its children
	catchers []func(any)

	stopped bool
}

// NewScope creates a scope, child of the scope currently running, if any.
func (r *Runtime) NewScope() *Scope {
	s := &Scope{rt: r}

	if parent := r.tracker.Scope(); parent != nil && !parent.stopped {
		s.parent = parent
		parent.children = append(parent.children, s)
	}

	return s
}

// Run calls fn with s as the current scope. A panic is handed to the error
// handlers of s or its closest parent that has some, or propagates when there
// are none.
func (s *Scope) Run(fn func()) {
	if s.stopped {
		Logger().Warn("reactivity: cannot run a stopped scope")
		return
	}

	defer s.catch()

	s.rt.tracker.RunWithScope(s, fn)
}

func (s *Scope) Stopped() bool { return s.stopped }

// Stop stops the scope's children and derivations, most recent first, then
// calls its cleanups.
func (s *Scope) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true

	for i := len(s.children) - 1; i >= 0; i-- {
		s.children[i].Stop()
	}
	s.children = nil

	derivations := s.derivations
	s.derivations = nil
	for i := len(derivations) - 1; i >= 0; i-- {
		derivations[i].Stop()
	}

	cleanups := s.cleanups
	s.cleanups = nil
	for _, cleanup := range cleanups {
		s.rt.tracker.RunUntracked(cleanup)
	}

	if s.parent != nil {
		s.parent.removeChild(s)
		s.parent = nil
	}
}

func (s *Scope) OnCleanup(fn func()) {
	s.cleanups = append(s.cleanups, fn)
}

func (s *Scope) OnError(fn func(any)) {
	s.catchers = append(s.catchers, fn)
}

func (s *Scope) add(d *Derivation) {
	s.derivations = append(s.derivations, d)
}

func (s *Scope) remove(d *Derivation) {
	if i := slices.Index(s.derivations, d); i != -1 {
		s.derivations = slices.Delete(s.derivations, i, i+1)
	}
}

func (s *Scope) removeChild(child *Scope) {
	if i := slices.Index(s.children, child); i != -1 {
		s.children = slices.Delete(s.children, i, i+1)
	}
}

// handle passes v to the closest error handlers, reporting whether there were any.
func (s *Scope) handle(v any) bool {
	for scope := s; scope != nil; scope = scope.parent {
		if len(scope.catchers) == 0 {
			continue
		}

		for _, catcher := range scope.catchers {
			catcher(v)
		}
		return true
	}

	return false
}

// catch must be deferred.
func (s *Scope) catch() {
	if v := recover(); v != nil {
		if !s.handle(v) {
			panic(v)
		}
	}
}
