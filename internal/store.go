package internal

import (
	"slices"
	"sync"
)

// depID addresses a dependency set in the store's arena.
// A handle whose generation no longer matches its slot is stale and ignored.
type depID struct {
	index int
	gen   uint32
}

type depSet struct {
	gen  uint32
	live bool

	// subscribers in subscription order
	subs []*Derivation
}

// Store maps a tracked target (held weakly) and a property key to the set of
// derivations subscribed to it.
type Store struct {
	// weak pointer cleanups run on their own goroutine
	mu sync.Mutex

	targets map[any]map[any]depID

	sets []depSet
	free []int
}

func NewStore() *Store {
	return &Store{
		targets: make(map[any]map[any]depID),
	}
}

// ensure returns the set for (target, key), creating it if needed.
// isNew reports whether the target had no entry before.
func (s *Store) ensure(target, key any) (id depID, isNew bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, ok := s.targets[target]
	if !ok {
		keys = make(map[any]depID)
		s.targets[target] = keys
		isNew = true
	}

	if id, ok := keys[key]; ok {
		return id, isNew
	}

	id = s.alloc()
	keys[key] = id
	return id, isNew
}

func (s *Store) alloc() depID {
	if n := len(s.free); n > 0 {
		index := s.free[n-1]
		s.free = s.free[:n-1]

		set := &s.sets[index]
		set.live = true
		return depID{index, set.gen}
	}

	s.sets = append(s.sets, depSet{live: true})
	return depID{len(s.sets) - 1, 0}
}

func (s *Store) get(id depID) *depSet {
	if id.index < 0 || id.index >= len(s.sets) {
		return nil
	}

	set := &s.sets[id.index]
	if !set.live || set.gen != id.gen {
		return nil
	}

	return set
}

// subscribe adds d to the set, reporting whether it was not already there.
func (s *Store) subscribe(id depID, d *Derivation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.get(id)
	if set == nil || slices.Contains(set.subs, d) {
		return false
	}

	set.subs = append(set.subs, d)
	return true
}

func (s *Store) unsubscribe(id depID, d *Derivation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.get(id)
	if set == nil {
		return
	}

	if i := slices.Index(set.subs, d); i != -1 {
		set.subs = slices.Delete(set.subs, i, i+1)
	}
}

// subscribers returns a copy of the set for (target, key), or nil.
func (s *Store) subscribers(target, key any) []*Derivation {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, ok := s.targets[target]
	if !ok {
		return nil
	}

	id, ok := keys[key]
	if !ok {
		return nil
	}

	if set := s.get(id); set != nil {
		// clonning to avoid mutation during iteration
		return slices.Clone(set.subs)
	}

	return nil
}

// forget releases every set of a target once the target has been collected.
func (s *Store) forget(target any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.targets[target] {
		if set := s.get(id); set != nil {
			set.gen++
			set.live = false
			set.subs = nil
			s.free = append(s.free, id.index)
		}
	}

	delete(s.targets, target)
}

// Len returns the number of targets currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.targets)
}
