package reactivity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	t.Run("batches multiple writes", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Value()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		Batch(func() {
			count.Set(10)
			count.Set(20)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("batches multiple refs", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)
		double := NewRef(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("count %d", count.Value()))

			OnCleanup(func() {
				log = append(log, "count cleanup")
			})
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("double %d", double.Value()))

			OnCleanup(func() {
				log = append(log, "double cleanup")
			})
		})

		Batch(func() {
			count.Set(10)
			double.Set(As[int](count.Value()) * 2)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"count 0",
			"double 0",
			"updated",
			"count cleanup",
			"count 10",
			"double cleanup",
			"double 20",
		}, log)
	})

	t.Run("nested batches", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Value()))
		})

		Batch(func() {
			count.Set(10)
			Batch(func() {
				count.Set(20)
			})
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"changed 20",
		}, log)
	})

	t.Run("diamond dependency", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)
		double := NewComputed(func() int { return As[int](count.Value()) * 2 })
		quad := NewComputed(func() int { return As[int](count.Value()) * 4 })

		NewEffect(func() {
			log = append(log, fmt.Sprintf("running %d %d", double.Value(), quad.Value()))
		})

		Batch(func() {
			count.Set(10)
		})

		assert.Equal(t, []string{
			"running 0 0",
			"running 20 40",
		}, log)
	})

	t.Run("panicking batch drops deferred re-runs", func(t *testing.T) {
		log := []int{}

		count := NewRef(0)
		NewEffect(func() {
			log = append(log, As[int](count.Value()))
		})

		assert.PanicsWithValue(t, "boom", func() {
			Batch(func() {
				count.Set(1)
				panic("boom")
			})
		})

		// the batcher is usable again
		Batch(func() {
			count.Set(2)
		})

		assert.Equal(t, []int{0, 2}, log)
	})

	t.Run("scheduled effects are not deferred", func(t *testing.T) {
		jobs := 0

		count := NewRef(0)
		NewEffect(func() { count.Value() }, WithScheduler(func(Job) { jobs++ }))

		Batch(func() {
			count.Set(1)
			assert.Equal(t, 1, jobs)
		})
	})
}
