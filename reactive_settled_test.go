package reactive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnSettled(t *testing.T) {
	t.Run("runs when flush finishes", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"count": 0})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %v", state.Get("count")))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		Run(func() { state.Set("count", 10) })

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 10",
			"settled",
		}, log)
	})

	t.Run("waits for chained effects", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"a": 0, "b": 0})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("A changed %v", state.Get("a")))

			state.Set("b", state.Get("a").(int)*2)

			OnCleanup(func() {
				log = append(log, "A cleanup")
			})
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("B changed %v", state.Get("b")))

			OnCleanup(func() {
				log = append(log, "B cleanup")
			})
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		Run(func() { state.Set("a", 10) })

		assert.Equal(t, []string{
			"A changed 0",
			"B changed 0",
			"A cleanup",
			"A changed 10",
			"B cleanup",
			"B changed 20",
			"settled",
		}, log)
	})

	t.Run("runs once", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"count": 0})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %v", state.Get("count")))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		Run(func() { state.Set("count", 10) })
		Run(func() { state.Set("count", 20) })

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 10",
			"settled",
			"cleanup",
			"changed 20",
		}, log)
	})
}

func TestNextTick(t *testing.T) {
	t.Run("runs after the flush it was queued behind", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"count": 0})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %v", state.Get("count")))
		})

		Run(func() {
			state.Set("count", 1)
			NextTick(func() {
				log = append(log, "tick")
			})
			log = append(log, "sync")
		})

		assert.Equal(t, []string{
			"changed 0",
			"sync",
			"changed 1",
			"tick",
		}, log)
	})

	t.Run("keeps submission order", func(t *testing.T) {
		log := []string{}

		Run(func() {
			NextTick(func() { log = append(log, "x") })
			NextTick(func() { log = append(log, "y") })
		})

		assert.Equal(t, []string{"x", "y"}, log)
	})

	t.Run("channel closes after the flush", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"count": 0})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %v", state.Get("count")))
		})

		state.Set("count", 1)
		done := NextTickC()

		select {
		case <-done:
			t.Fatal("closed before the flush")
		default:
		}

		Tick()

		select {
		case <-done:
		default:
			t.Fatal("not closed after the flush")
		}
		assert.Equal(t, []string{"changed 0", "changed 1"}, log)
	})

	t.Run("isolates panics", func(t *testing.T) {
		log := []string{}
		errs := []error{}

		rt := New(WithErrorHandler(func(err error) { errs = append(errs, err) }))

		rt.Run(func() {
			rt.NextTick(func() { panic("boom") })
			rt.NextTick(func() { log = append(log, "after") })
		})

		assert.Equal(t, []string{"after"}, log)
		assert.Len(t, errs, 1)

		var werr *WatcherError
		if assert.ErrorAs(t, errs[0], &werr) {
			assert.Equal(t, PhaseNextTick, werr.Phase)
		}
	})
}

func TestUntrack(t *testing.T) {
	t.Run("does not track reads", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"count": 0})

		NewEffect(func() {
			c := Untrack(func() any { return state.Get("count") })
			log = append(log, fmt.Sprintf("effect %v", c))
		})

		Run(func() { state.Set("count", 10) })

		assert.Equal(t, []string{
			"effect 0",
		}, log)
		assert.Empty(t, state.PropertyDep("count").Subs())
	})
}
