package reactivity

import "github.com/AnatoleLucet/reactivity/internal"

// Scope collects the effects, computed values and child scopes created while
// it runs, including the ones created later by re-runs of its effects.
type Scope struct {
	scope *internal.Scope
}

// NewScope creates a scope. Created within another scope's Run, it is stopped
// along with it.
func NewScope() *Scope {
	return &Scope{
		internal.GetRuntime().NewScope(),
	}
}

// Run calls fn within the scope.
// Panics in fn, or in the effects of this scope, are passed to the handlers
// registered with OnError, here or in a parent scope. Without any, they propagate.
func (s *Scope) Run(fn func()) { s.scope.Run(fn) }

// Stop stops every child scope and effect of this scope, most recent first,
// then calls its cleanup functions.
func (s *Scope) Stop() { s.scope.Stop() }

func (s *Scope) Stopped() bool { return s.scope.Stopped() }

// OnCleanup adds a function called when the scope is stopped.
func (s *Scope) OnCleanup(fn func()) { s.scope.OnCleanup(fn) }

// OnError adds a handler for panics raised within the scope.
func (s *Scope) OnError(fn func(any)) { s.scope.OnError(fn) }
