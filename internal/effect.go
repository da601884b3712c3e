package internal

// NewEffect runs fn now and again whenever something it read changes.
// Cleanups registered with OnCleanup while fn runs are called before the next
// run and when the effect is torn down.
func (r *Runtime) NewEffect(fn func()) *Watcher {
	return r.NewWatcher(func() (any, error) {
		fn()
		return nil, nil
	}, WatcherOptions{Kind: KindEffect})
}

type WatchOptions struct {
	// Deep also triggers on mutations nested anywhere in the value.
	Deep bool

	// Sync calls the callback as soon as a dependency changes instead of at
	// the next flush.
	Sync bool

	// Immediate calls the callback once right away, with a nil old value.
	Immediate bool

	// Before runs right before the scheduler re-evaluates the watcher.
	Before func()
}

// NewWatch calls cb with the new and old value each time the value returned
// by getter changes.
func (r *Runtime) NewWatch(getter Getter, cb Callback, opts WatchOptions) *Watcher {
	w := r.NewWatcher(getter, WatcherOptions{
		Kind:     KindWatch,
		Deep:     opts.Deep,
		Sync:     opts.Sync,
		Before:   opts.Before,
		Callback: cb,
	})

	if opts.Immediate && w.err == nil {
		w.call(w.value, nil)
	}

	return w
}
