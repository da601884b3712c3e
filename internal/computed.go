package internal

// Computed is a lazy watcher: it only recomputes when read after one of its
// dependencies changed, and readers depend on what it depends on.
type Computed struct {
	*Watcher
}

func (r *Runtime) NewComputed(getter Getter) *Computed {
	return &Computed{
		Watcher: r.NewWatcher(getter, WatcherOptions{
			Kind: KindComputed,
			Lazy: true,
		}),
	}
}

// Get returns the cached value, recomputing it first when dirty. The error is
// the one returned by the last evaluation; on error the previous value is
// kept.
func (c *Computed) Get() (any, error) {
	if c.dirty {
		c.Evaluate()
	}

	if c.rt.tracker.Target() != nil {
		c.Depend()
	}

	return c.value, c.err
}

// Dispose tears the computed down. Reads keep returning the last value.
func (c *Computed) Dispose() {
	c.Teardown()
}
