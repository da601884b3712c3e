package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flushCounter struct {
	NopHooks
	flushes int
}

func (c *flushCounter) FlushStarted(int) {
	c.flushes++
}

func TestWithHooks(t *testing.T) {
	t.Run("combines several hooks", func(t *testing.T) {
		first, second := &flushCounter{}, &flushCounter{}

		rt := New(WithHooks(first), WithHooks(second))
		state := rt.Reactive(map[string]any{"count": 0})
		rt.NewEffect(func() { state.Get("count") })

		rt.Run(func() { state.Set("count", 1) })

		assert.Equal(t, 1, first.flushes)
		assert.Equal(t, 1, second.flushes)
	})

	t.Run("options can be reused", func(t *testing.T) {
		counter := &flushCounter{}
		opts := []Option{WithHooks(counter), WithHooks(NopHooks{})}

		New(opts...)
		rt := New(opts...)

		state := rt.Reactive(map[string]any{"count": 0})
		rt.NewEffect(func() { state.Get("count") })

		rt.Run(func() { state.Set("count", 1) })

		assert.Equal(t, 1, counter.flushes)
	})
}
