package reactive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwner(t *testing.T) {
	t.Run("runs function and disposes", func(t *testing.T) {
		log := []string{}

		o := NewOwner()

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, "effect")

				OnCleanup(func() { log = append(log, "cleanup") })
			})

			return nil
		})

		log = append(log, "ran")
		o.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"effect",
			"ran",
			"cleanup",
			"disposed",
		}, log)
		assert.True(t, o.Disposed())
	})

	t.Run("nested owners", func(t *testing.T) {
		log := []string{}

		o := NewOwner()
		o.OnCleanup(func() {
			log = append(log, "parent disposed")
		})

		o.Run(func() error {
			NewOwner().OnCleanup(func() {
				log = append(log, "child disposed")
			})

			return nil
		})

		o.Dispose()

		assert.Equal(t, []string{
			"child disposed",
			"parent disposed",
		}, log)
	})

	t.Run("sibling effects disposal order", func(t *testing.T) {
		log := []string{}

		o := NewOwner()

		o.Run(func() error {
			OnCleanup(func() {
				log = append(log, "cleanup")
			})

			NewEffect(func() {
				log = append(log, "running first")

				NewEffect(func() {
					log = append(log, "running nested")
					OnCleanup(func() { log = append(log, "cleanup nested") })
				})

				OnCleanup(func() { log = append(log, "cleanup first") })
			})

			NewEffect(func() {
				log = append(log, "running second")
				OnCleanup(func() { log = append(log, "cleanup second") })
			})

			return nil
		})

		log = append(log, "ran")
		o.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"running first",
			"running nested",
			"running second",
			"ran",
			"cleanup second",
			"cleanup nested",
			"cleanup first",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("catches watcher panics with OnError", func(t *testing.T) {
		caught := []error{}

		o := NewOwner()
		o.OnError(func(err error) {
			caught = append(caught, err)
		})

		var state *Object

		o.Run(func() error {
			// handled by the closest owner with a handler
			NewOwner().Run(func() error {
				state = Reactive(map[string]any{"err": nil})

				NewEffect(func() {
					if err, _ := state.Get("err").(error); err != nil {
						panic(err)
					}
				})

				return nil
			})

			return nil
		})

		oops := errors.New("oops")
		Run(func() { state.Set("err", oops) })

		require.Len(t, caught, 1)
		assert.ErrorIs(t, caught[0], oops)
	})

	t.Run("catches panics raised in Run", func(t *testing.T) {
		caught := []error{}

		o := NewOwner()
		o.OnError(func(err error) {
			caught = append(caught, err)
		})

		err := o.Run(func() error {
			panic("boom")
		})

		assert.NoError(t, err)
		require.Len(t, caught, 1)

		var perr *PanicError
		require.ErrorAs(t, caught[0], &perr)
		assert.Equal(t, "boom", perr.Value)
	})

	t.Run("disposal prevents effect re-runs", func(t *testing.T) {
		log := []int{}

		o := NewOwner()

		state := Reactive(map[string]any{"count": 0})

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, state.Get("count").(int))
			})

			return nil
		})

		Run(func() { state.Set("count", 1) })
		o.Dispose()

		// this should not trigger the effect
		Run(func() { state.Set("count", 2) })

		assert.Equal(t, []int{0, 1}, log)
		assert.Empty(t, o.Watchers())
	})

	t.Run("disposal during a flush", func(t *testing.T) {
		log := []int{}

		o := NewOwner()

		state := Reactive(map[string]any{"count": 0})

		NewEffect(func() {
			if state.Get("count").(int) > 0 {
				o.Dispose()
			}
		})

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, state.Get("count").(int))
			})

			return nil
		})

		Run(func() { state.Set("count", 1) })

		assert.Equal(t, []int{0}, log)
	})

	t.Run("run after dispose", func(t *testing.T) {
		o := NewOwner()
		o.Dispose()

		err := o.Run(func() error { return nil })
		assert.ErrorIs(t, err, ErrDisposed)
	})

	t.Run("returns the function's error", func(t *testing.T) {
		failure := errors.New("failure")

		err := NewOwner().Run(func() error { return failure })
		assert.ErrorIs(t, err, failure)
	})
}
