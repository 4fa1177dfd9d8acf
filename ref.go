package reactivity

// Ref is a reactive box holding a single value.
type Ref struct {
	value any
}

// NewRef boxes value. A *Ref is returned unchanged, compound values are
// stored wrapped.
func NewRef(value any) *Ref {
	if ref, ok := value.(*Ref); ok {
		return ref
	}

	return &Ref{NewReactive(value)}
}

// Value returns the boxed value, tracking the dependency if within an effect.
func (r *Ref) Value() any {
	Track(r, "value")
	return r.value
}

// Set replaces the boxed value, triggering dependents if it changed.
func (r *Ref) Set(value any) {
	if !HasChanged(ToRaw(value), ToRaw(r.value)) {
		return
	}

	r.value = NewReactive(value)
	Trigger(r, "value")
}

func IsRef(v any) bool {
	_, ok := v.(*Ref)
	return ok
}

// Unref returns the value of a *Ref, or v itself.
func Unref(v any) any {
	if ref, ok := v.(*Ref); ok {
		return ref.Value()
	}

	return v
}
