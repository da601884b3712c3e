package internal

import (
	"iter"
	"slices"
)

// Owner collects the watchers created while it is current, so they can all be
// torn down at once. Owners form a tree: disposing one disposes its children
// first.
type Owner struct {
	rt *Runtime

	// watchers created while this owner was current, in creation order
	watchers []*Watcher

	// cleanup functions to be called when the owner is disposed
	cleanups []func()

	// panic handlers for Run
	catchers []func(error)

	disposed bool

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

// NewOwner creates an owner, child of the current one if any.
func (r *Runtime) NewOwner() *Owner {
	o := &Owner{rt: r}

	if r.owner != nil {
		r.owner.AddChild(o)
	}

	return o
}

// Owner returns the current owner, or nil.
func (r *Runtime) Owner() *Owner {
	return r.owner
}

// Run makes o the current owner while fn runs. Panics raised by fn are
// handed to the closest OnError handlers when there are some, and re-raised
// otherwise.
func (o *Owner) Run(fn func()) (err error) {
	if o.disposed {
		return ErrDisposed
	}

	r := o.rt
	prev := r.owner
	r.owner = o
	defer func() { r.owner = prev }()

	if !o.catches() {
		fn()
		return nil
	}

	if perr := protect(func() error { fn(); return nil }); perr != nil {
		o.catch(perr)
	}

	return nil
}

func (o *Owner) Disposed() bool {
	return o.disposed
}

func (o *Owner) Parent() *Owner {
	return o.parent
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (parent *Owner) removeChild(child *Owner) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else if parent.childrenHead == child {
		parent.childrenHead = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}

	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

func (o *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := o.childrenHead

		for child != nil {
			// read ahead, yield may dispose the child
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

// Watchers returns the live watchers owned by o.
func (o *Owner) Watchers() []*Watcher {
	return slices.Clone(o.watchers)
}

// Dispose tears down every child owner, then every owned watcher (newest
// first), then runs the cleanups. Disposing twice is a no-op.
func (o *Owner) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true

	o.DisposeChildren()

	watchers := o.watchers
	o.watchers = nil
	for _, w := range slices.Backward(watchers) {
		w.owner = nil
		w.Teardown()
	}

	cleanups := o.cleanups
	o.cleanups = nil
	for _, cleanup := range cleanups {
		if err := protect(func() error { cleanup(); return nil }); err != nil {
			o.rt.reportError(0, PhaseCleanup, err)
		}
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}
}

func (o *Owner) DisposeChildren() {
	for child := range o.Children() {
		child.Dispose()
	}
	o.childrenHead = nil
}

// OnCleanup registers fn to run when o is disposed.
func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

// OnError registers a handler for panics raised inside Run, and for errors
// of the watchers owned by o or its children.
func (o *Owner) OnError(fn func(error)) {
	o.catchers = append(o.catchers, fn)
}

func (o *Owner) catches() bool {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) > 0 {
			return true
		}
	}

	return false
}

// catch hands err to the closest owner with handlers, starting from o.
func (o *Owner) catch(err error) bool {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catcher := range owner.catchers {
			catcher(err)
		}
		return true
	}

	return false
}

func (o *Owner) addWatcher(w *Watcher) {
	if o.disposed {
		return
	}

	w.owner = o
	o.watchers = append(o.watchers, w)
}

func (o *Owner) removeWatcher(w *Watcher) {
	if index := slices.Index(o.watchers, w); index != -1 {
		o.watchers = slices.Delete(o.watchers, index, index+1)
	}
}
