package internal

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrUnsettled is returned when waiting on a tick that cannot settle from
// where it is awaited, typically from inside the flush it belongs to.
var ErrUnsettled = errors.New("reactivity: tick cannot settle from inside its own flush")

// PanicError wraps a value recovered from a panicking job or callback.
type PanicError struct {
	Value any
	Stack []byte
}

func NewPanicError(v any) *PanicError {
	if err, ok := v.(*PanicError); ok {
		return err
	}

	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("reactivity: panic: %v", e.Value)
}

// Unwrap returns the recovered value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}
