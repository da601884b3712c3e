package reactive

import "github.com/AnatoleLucet/reactive/internal"

type Computed[T any] struct {
	computed *internal.Computed
}

// NewComputed creates a cached value derived from reactive state. It is only
// recomputed when read after one of its dependencies changed.
func NewComputed[T any](compute func() T) *Computed[T] {
	return NewComputedIn(internal.GetRuntime(), compute)
}

func NewComputedIn[T any](rt *Runtime, compute func() T) *Computed[T] {
	return NewComputedErrIn(rt, func() (T, error) {
		return compute(), nil
	})
}

// NewComputedErr is NewComputed for computations that can fail. A failed
// computation keeps its previous value, the error is available from Err.
func NewComputedErr[T any](compute func() (T, error)) *Computed[T] {
	return NewComputedErrIn(internal.GetRuntime(), compute)
}

func NewComputedErrIn[T any](rt *Runtime, compute func() (T, error)) *Computed[T] {
	return &Computed[T]{
		rt.NewComputed(func() (any, error) {
			return compute()
		}),
	}
}

// Read the current value, tracking the dependency if within a reactive context.
func (c *Computed[T]) Read() T {
	value, _ := c.computed.Get()
	return as[T](value)
}

// Err returns the error of the last computation, if any.
func (c *Computed[T]) Err() error {
	_, err := c.computed.Get()
	return err
}

func (c *Computed[T]) Watcher() *Watcher { return c.computed.Watcher }

// Dispose stops tracking. The last value stays readable.
func (c *Computed[T]) Dispose() { c.computed.Dispose() }
