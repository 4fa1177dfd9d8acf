package internal

import (
	"math"
	"reflect"
)

// HasChanged reports whether value differs from old.
//
// NaN is treated as unchanged relative to NaN, and values of non-comparable
// types (maps, slices) are compared by identity. Funcs always differ unless
// both are nil.
func HasChanged(value, old any) bool {
	if value == nil || old == nil {
		return value != nil || old != nil
	}

	if isNaN(value) && isNaN(old) {
		return false
	}

	return !identical(value, old)
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}

	return false
}

func identical(a, b any) (same bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	if ta.Comparable() {
		// structs and arrays can still hold non-comparable values behind interfaces
		defer func() {
			if recover() != nil {
				same = false
			}
		}()

		return a == b
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Map:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.UnsafePointer() == vb.UnsafePointer() && va.Len() == vb.Len() && va.Cap() == vb.Cap()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	}

	return false
}
