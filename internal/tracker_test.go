package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	t.Run("nested derivations", func(t *testing.T) {
		tr := NewTracker()
		outer, inner := &Derivation{}, &Derivation{}

		tr.RunWithDerivation(outer, func() {
			assert.Same(t, outer, tr.Active())

			tr.RunWithDerivation(inner, func() {
				assert.Same(t, inner, tr.Active())
				assert.True(t, tr.Running(outer))
				assert.Equal(t, 2, tr.Depth())
			})

			assert.Same(t, outer, tr.Active())
			assert.False(t, tr.Running(inner))
		})

		assert.Nil(t, tr.Active())
		assert.Equal(t, 0, tr.Depth())
	})

	t.Run("restores the stack on panic", func(t *testing.T) {
		tr := NewTracker()
		outer, inner := &Derivation{}, &Derivation{}

		tr.RunWithDerivation(outer, func() {
			assert.Panics(t, func() {
				tr.RunWithDerivation(inner, func() { panic("boom") })
			})

			assert.Same(t, outer, tr.Active())
		})

		assert.Equal(t, 0, tr.Depth())
	})

	t.Run("untracked", func(t *testing.T) {
		tr := NewTracker()
		d, nested := &Derivation{}, &Derivation{}

		tr.RunWithDerivation(d, func() {
			tr.RunUntracked(func() {
				assert.Nil(t, tr.Active())
				assert.Same(t, d, tr.Current())

				// derivations always track
				tr.RunWithDerivation(nested, func() {
					assert.Same(t, nested, tr.Active())
				})

				assert.Nil(t, tr.Active())
			})

			assert.Same(t, d, tr.Active())
		})
	})
}
