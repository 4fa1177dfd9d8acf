package internal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasChanged(t *testing.T) {
	t.Run("comparable values", func(t *testing.T) {
		assert.False(t, HasChanged(1, 1))
		assert.True(t, HasChanged(1, 2))
		assert.False(t, HasChanged("a", "a"))
		assert.True(t, HasChanged(1, int64(1)))
		assert.False(t, HasChanged(nil, nil))
		assert.True(t, HasChanged(nil, 0))
		assert.True(t, HasChanged(0, nil))
	})

	t.Run("nan", func(t *testing.T) {
		assert.False(t, HasChanged(math.NaN(), math.NaN()))
		assert.False(t, HasChanged(float32(math.NaN()), float32(math.NaN())))
		assert.True(t, HasChanged(math.NaN(), 1.0))
		assert.True(t, HasChanged(1.0, math.NaN()))
	})

	t.Run("signed zeros", func(t *testing.T) {
		assert.False(t, HasChanged(math.Copysign(0, -1), 0.0))
	})

	t.Run("pointers", func(t *testing.T) {
		a, b := &struct{ n int }{}, &struct{ n int }{}

		assert.False(t, HasChanged(a, a))
		assert.True(t, HasChanged(a, b))
	})

	t.Run("maps and slices by identity", func(t *testing.T) {
		m := map[string]int{"a": 1}
		s := []int{1, 2}

		assert.False(t, HasChanged(m, m))
		assert.True(t, HasChanged(m, map[string]int{"a": 1}))
		assert.False(t, HasChanged(s, s))
		assert.True(t, HasChanged(s, s[:1]))
		assert.True(t, HasChanged(s, []int{1, 2}))
	})

	t.Run("funcs", func(t *testing.T) {
		fn := func() {}

		assert.True(t, HasChanged(fn, fn))
		assert.False(t, HasChanged((func())(nil), (func())(nil)))
	})

	t.Run("structs holding non-comparable values", func(t *testing.T) {
		type box struct{ v any }

		s := []int{1}

		assert.NotPanics(t, func() {
			assert.True(t, HasChanged(box{s}, box{s}))
		})
		assert.False(t, HasChanged(box{1}, box{1}))
	})
}
