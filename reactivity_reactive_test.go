package reactivity

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactive(t *testing.T) {
	t.Run("wraps once", func(t *testing.T) {
		raw := &Object{"count": 0}

		state := NewReactive(raw)

		assert.True(t, IsReactive(state))
		assert.Same(t, state, NewReactive(raw))
		assert.Same(t, state, NewReactive(state))
		assert.Same(t, raw, ToRaw(state))
	})

	t.Run("passes plain values through", func(t *testing.T) {
		assert.Equal(t, 1, NewReactive(1))
		assert.Equal(t, "a", NewReactive("a"))
		assert.Nil(t, NewReactive(nil))
		assert.False(t, IsReactive(&Object{}))
		assert.Equal(t, 1, ToRaw(1))
	})

	t.Run("wraps nested values lazily", func(t *testing.T) {
		nested := &Object{"a": 1}
		state := NewReactive(&Object{"nested": nested}).(*Reactive)

		got := state.Get("nested")

		require.True(t, IsReactive(got))
		assert.Same(t, NewReactive(nested), got)
		assert.Equal(t, 1, got.(*Reactive).Get("a"))
	})

	t.Run("tracks keys", func(t *testing.T) {
		log := []string{}

		state := NewReactive(&Object{"a": 1, "b": 1}).(*Reactive)
		NewEffect(func() {
			log = append(log, fmt.Sprintf("a %d", state.Get("a")))
		})

		state.Set("b", 2)
		state.Set("a", 1)
		state.Set("a", 2)

		assert.Equal(t, []string{"a 1", "a 2"}, log)
	})

	t.Run("tracks nested keys", func(t *testing.T) {
		log := []string{}

		state := NewReactive(&Object{"user": &Object{"name": "ada"}}).(*Reactive)
		NewEffect(func() {
			user := state.Get("user").(*Reactive)
			log = append(log, fmt.Sprint(user.Get("name")))
		})

		state.Get("user").(*Reactive).Set("name", "grace")

		assert.Equal(t, []string{"ada", "grace"}, log)
	})

	t.Run("stores raw values", func(t *testing.T) {
		raw := &Object{}
		nested := &Object{}

		state := NewReactive(raw).(*Reactive)
		state.Set("nested", NewReactive(nested))

		assert.Same(t, nested, (*raw)["nested"])
	})

	t.Run("enumeration tracks added and deleted keys", func(t *testing.T) {
		log := []int{}

		state := NewReactive(&Object{"a": 1}).(*Reactive)
		NewEffect(func() {
			log = append(log, len(state.Keys()))
		})

		state.Set("a", 2) // existing key
		state.Set("b", 1)
		state.Delete("b")
		state.Delete("b")

		assert.Equal(t, []int{1, 2, 1}, log)
	})

	t.Run("has", func(t *testing.T) {
		log := []bool{}

		state := NewReactive(&Object{}).(*Reactive)
		NewEffect(func() {
			log = append(log, state.Has("a"))
		})

		state.Set("a", nil)
		state.Delete("a")

		assert.Equal(t, []bool{false, true, false}, log)
	})

	t.Run("symbol keys", func(t *testing.T) {
		key := NewSymbol("key")
		other := NewSymbol("key")

		state := NewReactive(&Object{}).(*Reactive)
		state.Set(key, 1)

		assert.Equal(t, 1, state.Get(key))
		assert.Nil(t, state.Get(other))
		assert.Equal(t, "Symbol(key)", key.String())
	})

	t.Run("values", func(t *testing.T) {
		state := NewReactive(&Array{1, &Object{}}).(*Reactive)

		values := state.Values()

		require.Len(t, values, 2)
		assert.Equal(t, 1, values[0])
		assert.True(t, IsReactive(values[1]))
	})
}

func TestReactiveArray(t *testing.T) {
	t.Run("tracks indices", func(t *testing.T) {
		log := []string{}

		list := NewReactive(&Array{"a", "b"}).(*Reactive)
		NewEffect(func() {
			log = append(log, fmt.Sprint(list.Get(0)))
		})

		list.Set(1, "c")
		list.Push("d")
		list.Set(0, "z")

		assert.Equal(t, []string{"a", "z"}, log)
	})

	t.Run("tracks length", func(t *testing.T) {
		log := []int{}

		list := NewReactive(&Array{}).(*Reactive)
		NewEffect(func() {
			log = append(log, list.Len())
		})

		list.Push(1, 2)
		list.Set(0, 3) // same length
		list.Set(4, 5)

		assert.Equal(t, []int{0, 1, 2, 5}, log)
	})

	t.Run("push does not track length", func(t *testing.T) {
		runs := 0

		list := NewReactive(&Array{}).(*Reactive)
		other := NewReactive(&Array{}).(*Reactive)

		NewEffect(func() {
			runs++
			list.Push(len(other.Values()))
		})

		list.Push(1)
		other.Push(1)

		assert.Equal(t, 2, runs)
		assert.Equal(t, []any{0, 1, 1}, list.Values())
	})

	t.Run("pop", func(t *testing.T) {
		log := []int{}

		raw := &Array{1, 2}
		list := NewReactive(raw).(*Reactive)
		NewEffect(func() {
			log = append(log, list.Len())
		})

		assert.Equal(t, 2, list.Pop())
		assert.Equal(t, 1, list.Pop())
		assert.Nil(t, list.Pop())

		assert.Equal(t, []int{2, 1, 0}, log)
		assert.Empty(t, *raw)
	})

	t.Run("set length", func(t *testing.T) {
		log := []string{}

		list := NewReactive(&Array{1, 2, 3}).(*Reactive)
		NewEffect(func() {
			log = append(log, fmt.Sprint(list.Get(2)))
		})

		list.Set(LengthKey, 1)

		assert.Equal(t, []string{"3", "<nil>"}, log)
		assert.Equal(t, 1, list.Get(LengthKey))
	})

	t.Run("does not unwrap refs", func(t *testing.T) {
		count := NewRef(1)
		list := NewReactive(&Array{count}).(*Reactive)

		assert.Same(t, count, list.Get(0))
	})

	t.Run("invalid keys", func(t *testing.T) {
		list := NewReactive(&Array{}).(*Reactive)
		state := NewReactive(&Object{}).(*Reactive)

		assert.Panics(t, func() { list.Get("a") })
		assert.Panics(t, func() { list.Set(-1, 1) })
		assert.Panics(t, func() { list.Set(LengthKey, "a") })
		assert.Panics(t, func() { state.Push(1) })
		assert.Panics(t, func() { state.Pop() })
	})

	t.Run("keys", func(t *testing.T) {
		list := NewReactive(&Array{"a", "b"}).(*Reactive)

		assert.True(t, list.IsArray())
		assert.Equal(t, []any{0, 1}, list.Keys())
		assert.True(t, slices.Contains(list.Values(), "b"))
	})
}

func TestReactiveRefUnwrap(t *testing.T) {
	t.Run("unwraps refs in objects", func(t *testing.T) {
		log := []string{}

		count := NewRef(1)
		state := NewReactive(&Object{"count": count}).(*Reactive)

		NewEffect(func() {
			log = append(log, fmt.Sprint(state.Get("count")))
		})

		count.Set(2)

		assert.Equal(t, []string{"1", "2"}, log)
	})

	t.Run("writes through to refs", func(t *testing.T) {
		count := NewRef(1)
		raw := &Object{"count": count}
		state := NewReactive(raw).(*Reactive)

		state.Set("count", 3)

		assert.Equal(t, 3, count.Value())
		assert.Same(t, count, (*raw)["count"])
	})

	t.Run("replaces refs with refs", func(t *testing.T) {
		log := []string{}

		a := NewRef("a")
		b := NewRef("b")
		state := NewReactive(&Object{"ref": a}).(*Reactive)

		NewEffect(func() {
			log = append(log, fmt.Sprint(state.Get("ref")))
		})

		state.Set("ref", b)
		a.Set("a2")

		assert.Equal(t, []string{"a", "b"}, log)
	})
}
