package reactivity

import (
	"fmt"
	"runtime"
	"sync"
	"weak"
)

// Object is a compound value keyed by any comparable value.
// Only *Object is tracked: the pointer is its identity.
type Object map[any]any

// Array is an ordered compound value. Only *Array is tracked.
type Array []any

// Symbol is a unique property key, distinct from every other key.
type Symbol struct {
	description string
}

func NewSymbol(description string) *Symbol {
	return &Symbol{description}
}

func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

// LengthKey is the key tracking an array's length.
const LengthKey = "length"

// IterateKey is the key tracked when enumerating an object.
// It is triggered when a key is added or removed.
var IterateKey = NewSymbol("iterate")

// Reactive wraps an *Object or an *Array. Reads through it are tracked by the
// running effect, writes trigger the effects that read the same key.
type Reactive struct {
	object *Object
	array  *Array
}

// one wrapper per live target, shared by every goroutine
var wrappers = struct {
	sync.Mutex
	m map[any]weak.Pointer[Reactive]
}{m: make(map[any]weak.Pointer[Reactive])}

// NewReactive returns the wrapper of an *Object or *Array, creating it on
// first use. Wrappers are returned unchanged, other values pass through.
func NewReactive(value any) any {
	switch v := value.(type) {
	case *Reactive:
		return v
	case *Object:
		if v == nil {
			return value
		}
		return wrapperOf(v, func() *Reactive { return &Reactive{object: v} })
	case *Array:
		if v == nil {
			return value
		}
		return wrapperOf(v, func() *Reactive { return &Reactive{array: v} })
	}

	return value
}

func wrapperOf[T any](target *T, create func() *Reactive) *Reactive {
	key := any(weak.Make(target))

	wrappers.Lock()
	defer wrappers.Unlock()

	wp, known := wrappers.m[key]
	if r := wp.Value(); r != nil {
		return r
	}

	r := create()
	wrappers.m[key] = weak.Make(r)

	if !known {
		runtime.AddCleanup(target, forgetWrapper, key)
	}

	return r
}

func forgetWrapper(key any) {
	wrappers.Lock()
	defer wrappers.Unlock()

	delete(wrappers.m, key)
}

// IsReactive reports whether v is a wrapper returned by NewReactive.
func IsReactive(v any) bool {
	_, ok := v.(*Reactive)
	return ok
}

// ToRaw returns the *Object or *Array behind a wrapper, or v itself.
func ToRaw(v any) any {
	r, ok := v.(*Reactive)
	if !ok {
		return v
	}

	if r.object != nil {
		return r.object
	}

	return r.array
}

// IsArray reports whether r wraps an *Array.
func (r *Reactive) IsArray() bool {
	return r.array != nil
}

// Get returns the value stored at key. Compound values come back wrapped.
// A *Ref stored in an object is unwrapped to its value.
func (r *Reactive) Get(key any) any {
	if r.array != nil {
		if key == LengthKey {
			return r.Len()
		}

		i := mustIndex(key)
		Track(r.array, i)

		if i >= len(*r.array) {
			return nil
		}

		return NewReactive((*r.array)[i])
	}

	Track(r.object, key)

	v := (*r.object)[key]
	if ref, ok := v.(*Ref); ok {
		return ref.Value()
	}

	return NewReactive(v)
}

// Set stores value at key and triggers the effects that read it, if it changed.
// Setting a plain value on an object key holding a *Ref sets the ref instead.
func (r *Reactive) Set(key, value any) {
	value = ToRaw(value)

	if r.array != nil {
		r.setIndex(key, value)
		return
	}

	obj := *r.object
	old, had := obj[key]

	if ref, ok := old.(*Ref); ok && !IsRef(value) {
		ref.Set(value)
		return
	}

	obj[key] = value

	if !had {
		Trigger(r.object, key)
		Trigger(r.object, IterateKey)
		return
	}

	if HasChanged(value, old) {
		Trigger(r.object, key)
	}
}

func (r *Reactive) setIndex(key, value any) {
	if key == LengthKey {
		r.setLength(mustLength(value))
		return
	}

	i := mustIndex(key)
	arr := r.array

	oldLen := len(*arr)

	var old any
	if i < oldLen {
		old = (*arr)[i]
	} else {
		*arr = append(*arr, make([]any, i-oldLen+1)...)
	}
	(*arr)[i] = value

	if HasChanged(value, old) || i >= oldLen {
		Trigger(arr, i)
	}

	if len(*arr) != oldLen {
		Trigger(arr, LengthKey)
	}
}

func (r *Reactive) setLength(n int) {
	arr := r.array

	oldLen := len(*arr)
	if n == oldLen {
		return
	}

	if n > oldLen {
		*arr = append(*arr, make([]any, n-oldLen)...)
	} else {
		clear((*arr)[n:])
		*arr = (*arr)[:n]
	}

	Trigger(arr, LengthKey)
	for i := n; i < oldLen; i++ {
		Trigger(arr, i)
	}
}

// Has reports whether key is set. For arrays, whether key is a valid index.
func (r *Reactive) Has(key any) bool {
	if r.array != nil {
		i := mustIndex(key)
		Track(r.array, i)
		return i < len(*r.array)
	}

	Track(r.object, key)

	_, ok := (*r.object)[key]
	return ok
}

// Delete removes key from an object, or clears an array element.
func (r *Reactive) Delete(key any) {
	if r.array != nil {
		i := mustIndex(key)
		if i < len(*r.array) {
			r.setIndex(i, nil)
		}
		return
	}

	if _, ok := (*r.object)[key]; !ok {
		return
	}

	delete(*r.object, key)
	Trigger(r.object, key)
	Trigger(r.object, IterateKey)
}

// Len returns the number of keys or elements.
func (r *Reactive) Len() int {
	if r.array != nil {
		Track(r.array, LengthKey)
		return len(*r.array)
	}

	Track(r.object, IterateKey)
	return len(*r.object)
}

// Keys returns the object's keys in no particular order, or the array's indices.
func (r *Reactive) Keys() []any {
	n := r.Len()
	keys := make([]any, 0, n)

	if r.array != nil {
		for i := range n {
			keys = append(keys, i)
		}
		return keys
	}

	for k := range *r.object {
		keys = append(keys, k)
	}

	return keys
}

// Values returns the values in the order of Keys, each read with Get.
func (r *Reactive) Values() []any {
	keys := r.Keys()

	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = r.Get(k)
	}

	return values
}

// Push appends values to an array.
// The array's length is not tracked by the running effect.
func (r *Reactive) Push(values ...any) {
	arr := mustArray(r, "Push")

	Untrack(func() any {
		for _, v := range values {
			r.Set(len(*arr), v)
		}
		return nil
	})
}

// Pop removes and returns the last element of an array, or nil when empty.
func (r *Reactive) Pop() any {
	arr := mustArray(r, "Pop")

	return Untrack(func() any {
		n := len(*arr)
		if n == 0 {
			return nil
		}

		last := NewReactive((*arr)[n-1])
		r.setLength(n - 1)
		return last
	})
}

func (r *Reactive) String() string {
	if r.array != nil {
		return fmt.Sprintf("Reactive(%v)", *r.array)
	}

	return fmt.Sprintf("Reactive(%v)", *r.object)
}

func mustArray(r *Reactive, op string) *Array {
	if r.array == nil {
		panic("reactivity: " + op + " called on a non-array")
	}

	return r.array
}

func mustIndex(key any) int {
	i, ok := key.(int)
	if !ok || i < 0 {
		panic(fmt.Sprintf("reactivity: invalid array index %v (%T)", key, key))
	}

	return i
}

func mustLength(value any) int {
	n, ok := value.(int)
	if !ok || n < 0 {
		panic(fmt.Sprintf("reactivity: invalid array length %v (%T)", value, value))
	}

	return n
}
