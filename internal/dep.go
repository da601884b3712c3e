package internal

import (
	"cmp"
	"slices"
)

// Dep is a notification point bound to one reactive property or one reactive
// container. It holds the watchers subscribed to it, each at most once.
type Dep struct {
	id uint64
	rt *Runtime

	// the Object or Array this dep belongs to, if any
	// keeps the container alive for as long as someone is subscribed
	owner any

	subs []*Watcher
}

func (r *Runtime) NewDep() *Dep {
	r.depID++

	return &Dep{
		id: r.depID,
		rt: r,
	}
}

func (d *Dep) ID() uint64 {
	return d.id
}

func (d *Dep) Owner() any {
	return d.owner
}

func (d *Dep) AddSub(w *Watcher) {
	if !slices.Contains(d.subs, w) {
		d.subs = append(d.subs, w)
	}
}

func (d *Dep) RemoveSub(w *Watcher) {
	if index := slices.Index(d.subs, w); index != -1 {
		d.subs = slices.Delete(d.subs, index, index+1)
	}
}

// Subs returns a copy of the current subscribers.
func (d *Dep) Subs() []*Watcher {
	return slices.Clone(d.subs)
}

// Depend subscribes the runtime's active watcher to this dep.
// It is a no-op outside of an evaluation.
func (d *Dep) Depend() {
	if target := d.rt.tracker.Target(); target != nil {
		target.addDep(d)
	}
}

// Notify asks every current subscriber to update, exactly once each.
func (d *Dep) Notify() {
	// clonning so that subscriptions changed by the notification itself
	// don't affect this pass
	subs := slices.Clone(d.subs)

	if !d.rt.async {
		// without the scheduler sorting the queue, keep creation order here
		slices.SortFunc(subs, func(a, b *Watcher) int {
			return cmp.Compare(a.id, b.id)
		})
	}

	for _, sub := range subs {
		sub.Update()
	}
}
