package internal

// WatcherKind labels what a watcher is used for. It does not change how the
// scheduler orders watchers.
type WatcherKind int

const (
	KindEffect WatcherKind = iota
	KindWatch
	KindComputed
)

func (k WatcherKind) String() string {
	switch k {
	case KindEffect:
		return "effect"
	case KindWatch:
		return "watch"
	case KindComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// Getter is the computation wrapped by a watcher. Reactive reads performed
// while it runs are recorded as the watcher's dependencies.
type Getter func() (any, error)

// Callback is called by user watchers when the getter's value changed.
type Callback func(value, old any) error

type WatcherOptions struct {
	Kind WatcherKind

	// Deep traverses the getter's result so nested mutations also trigger.
	Deep bool

	// Lazy watchers only mark themselves dirty on update and evaluate on demand.
	Lazy bool

	// Sync watchers run as soon as they are notified, bypassing the scheduler.
	Sync bool

	// Before is called by the scheduler right before the watcher runs.
	Before func()

	Callback Callback
}

// Watcher is a registered computation that re-evaluates when any Dep it read
// during its last evaluation notifies.
type Watcher struct {
	id uint64
	rt *Runtime

	kind   WatcherKind
	getter Getter
	cb     Callback
	before func()

	deep bool
	lazy bool
	sync bool

	dirty  bool
	active bool

	// deps read during the last evaluation, and during the current one
	deps      []*Dep
	newDeps   []*Dep
	depIDs    map[uint64]struct{}
	newDepIDs map[uint64]struct{}

	value any
	err   error

	// run before the next evaluation and on teardown
	cleanups []func()

	// owner holding the watcher, or the watcher it was created in
	owner  *Owner
	parent *Watcher
}

func (r *Runtime) NewWatcher(getter Getter, opts WatcherOptions) *Watcher {
	r.watcherID++

	w := &Watcher{
		id: r.watcherID,
		rt: r,

		kind:   opts.Kind,
		getter: getter,
		cb:     opts.Callback,
		before: opts.Before,

		deep: opts.Deep,
		lazy: opts.Lazy,
		sync: opts.Sync,

		dirty:  opts.Lazy,
		active: true,

		depIDs:    make(map[uint64]struct{}),
		newDepIDs: make(map[uint64]struct{}),
	}

	// watchers created during another watcher's evaluation belong to it,
	// and are torn down before it re-evaluates
	if parent := r.tracker.Target(); parent != nil {
		w.parent = parent
		parent.cleanups = append(parent.cleanups, w.Teardown)
	} else if r.owner != nil {
		r.owner.addWatcher(w)
	}

	if !w.lazy {
		w.value, w.err = w.Get()
	}

	return w
}

func (w *Watcher) ID() uint64        { return w.id }
func (w *Watcher) Kind() WatcherKind { return w.kind }
func (w *Watcher) Active() bool      { return w.active }
func (w *Watcher) Dirty() bool       { return w.dirty }
func (w *Watcher) Lazy() bool        { return w.lazy }

// Value returns the result of the last successful evaluation.
func (w *Watcher) Value() any { return w.value }

// Err returns the error of the last evaluation, if it failed.
func (w *Watcher) Err() error { return w.err }

// Deps returns the deps the watcher is currently subscribed to.
func (w *Watcher) Deps() []*Dep {
	return append([]*Dep(nil), w.deps...)
}

// Get evaluates the getter, re-collecting the watcher's dependencies.
// Errors are reported to the runtime's error handler and returned.
func (w *Watcher) Get() (any, error) {
	value, err := w.collect()
	if err != nil {
		w.report(PhaseGetter, err)
	}

	return value, err
}

func (w *Watcher) collect() (value any, err error) {
	w.runCleanups()

	w.rt.tracker.Push(w)
	defer func() {
		w.rt.tracker.Pop()
		w.cleanupDeps()
	}()

	err = protect(func() error {
		var err error
		value, err = w.getter()
		return err
	})
	if err == nil && w.deep {
		traverse(value)
	}

	return value, err
}

func (w *Watcher) addDep(d *Dep) {
	if !w.active {
		return
	}

	if _, ok := w.newDepIDs[d.id]; ok {
		return
	}

	w.newDepIDs[d.id] = struct{}{}
	w.newDeps = append(w.newDeps, d)

	if _, ok := w.depIDs[d.id]; !ok {
		d.AddSub(w)
	}
}

// cleanupDeps unsubscribes from deps that were not read during the last
// evaluation, then makes the new dep set the current one.
func (w *Watcher) cleanupDeps() {
	if !w.active {
		// torn down mid-evaluation
		w.dropDeps()
		return
	}

	for _, d := range w.deps {
		if _, ok := w.newDepIDs[d.id]; !ok {
			d.RemoveSub(w)
		}
	}

	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	clear(w.newDepIDs)

	w.deps, w.newDeps = w.newDeps, w.deps[:0]
	clear(w.newDeps[:cap(w.newDeps)])
}

func (w *Watcher) dropDeps() {
	for _, d := range w.deps {
		d.RemoveSub(w)
	}
	for _, d := range w.newDeps {
		d.RemoveSub(w)
	}

	w.deps = nil
	w.newDeps = nil
	clear(w.depIDs)
	clear(w.newDepIDs)
}

// Update is called by a Dep when one of the watcher's dependencies changed.
func (w *Watcher) Update() {
	w.dirty = true

	switch {
	case w.lazy:
		// evaluated on next read
	case w.sync:
		w.Run()
	default:
		w.rt.scheduler.Queue(w)
	}
}

// Run re-evaluates the watcher and calls its callback when the value changed.
func (w *Watcher) Run() {
	if !w.active {
		return
	}

	w.dirty = false

	value, err := w.Get()
	w.err = err
	if err != nil {
		return
	}

	if w.cb == nil {
		w.value = value
		return
	}

	if !w.rt.equal(value, w.value) || isContainer(value) || w.deep {
		old := w.value
		w.value = value
		w.call(value, old)
	}
}

func (w *Watcher) call(value, old any) {
	var err error
	w.rt.tracker.RunUntracked(func() {
		err = protect(func() error { return w.cb(value, old) })
	})

	if err != nil {
		w.report(PhaseCallback, err)
	}
}

func (w *Watcher) runBefore() {
	if w.before == nil {
		return
	}

	if err := protect(func() error { w.before(); return nil }); err != nil {
		w.report(PhaseBefore, err)
	}
}

// Evaluate recomputes a lazy watcher's value and clears its dirty flag.
func (w *Watcher) Evaluate() {
	value, err := w.Get()
	w.err = err
	if err == nil {
		w.value = value
	}

	w.dirty = false
}

// Depend makes the active watcher depend on everything this watcher depends on.
func (w *Watcher) Depend() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// OnCleanup registers fn to run before the next evaluation and on teardown.
func (w *Watcher) OnCleanup(fn func()) {
	w.cleanups = append(w.cleanups, fn)
}

func (w *Watcher) runCleanups() {
	if len(w.cleanups) == 0 {
		return
	}

	cleanups := w.cleanups
	w.cleanups = nil

	w.rt.tracker.RunUntracked(func() {
		for _, cleanup := range cleanups {
			if err := protect(func() error { cleanup(); return nil }); err != nil {
				w.report(PhaseCleanup, err)
			}
		}
	})
}

// report hands err to the closest owner with error handlers, falling back
// to the runtime's error sink.
func (w *Watcher) report(phase Phase, err error) {
	werr := &WatcherError{WatcherID: w.id, Phase: phase, Err: err}

	for p := w; p != nil; p = p.parent {
		if p.owner != nil {
			if p.owner.catch(werr) {
				return
			}
			break
		}
	}

	w.rt.onError(werr)
}

// Teardown unsubscribes the watcher from every dep, removes it from the
// scheduler and runs its cleanups. A torn down watcher never runs again.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	w.active = false

	w.rt.scheduler.Remove(w)
	w.dropDeps()
	w.runCleanups()

	if w.owner != nil {
		w.owner.removeWatcher(w)
		w.owner = nil
	}
}
