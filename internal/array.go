package internal

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// Array is a reactive sequence. All reads and mutations go through a single
// container Dep; every mutating method notifies exactly once.
//
// Making the same slice reactive twice yields the same Array, as long as the
// slice header is the same: a reslice of it (s[1:], s[:n]) gets an Array of
// its own, and writes through one are not seen by readers of the other.
//
// Writing an index through Raw is not observed, use Set or Splice instead.
type Array struct {
	rt    *Runtime
	items []any
	dep   *Dep

	// slice the array was made from, identifies it in the registry
	source []any
}

// NewArray makes items reactive. Container items are observed eagerly.
func (r *Runtime) NewArray(items []any) *Array {
	if a := r.registry.lookupArray(items); a != nil {
		return a
	}

	a := &Array{
		rt:     r,
		items:  items,
		dep:    r.NewDep(),
		source: items,
	}
	a.dep.owner = a

	r.registry.storeArray(items, a)

	for i, item := range a.items {
		a.items[i] = r.Observe(item)
	}

	return a
}

func (a *Array) observe(items []any) []any {
	observed := make([]any, len(items))
	for i, item := range items {
		observed[i] = a.rt.Observe(item)
	}
	return observed
}

// dependItems subscribes to the container dep of nested containers, since
// arrays have no per-index deps to reach them through.
func (a *Array) dependItems() {
	for _, item := range a.items {
		switch c := item.(type) {
		case *Object:
			c.dep.Depend()
		case *Array:
			c.dep.Depend()
			c.dependItems()
		}
	}
}

func (a *Array) depend() {
	a.dep.Depend()
	if a.rt.tracker.ShouldTrack() {
		a.dependItems()
	}
}

func (a *Array) Len() int {
	a.depend()
	return len(a.items)
}

// At returns the item at i, or nil when out of range.
func (a *Array) At(i int) any {
	a.depend()

	if i < 0 || i >= len(a.items) {
		return nil
	}

	return a.items[i]
}

func (a *Array) Values() iter.Seq2[int, any] {
	a.depend()

	return func(yield func(int, any) bool) {
		for i, item := range a.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Slice returns a copy of the items.
func (a *Array) Slice() []any {
	a.depend()
	return slices.Clone(a.items)
}

// IndexOf returns the first index holding v, or -1.
func (a *Array) IndexOf(v any) int {
	a.depend()

	return slices.IndexFunc(a.items, func(item any) bool {
		return a.rt.equal(item, v)
	})
}

// Raw returns the backing slice. Writes made through it are not observed.
func (a *Array) Raw() []any {
	return a.items
}

func (a *Array) Dep() *Dep {
	return a.dep
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...any) int {
	a.items = append(a.items, a.observe(items)...)
	a.dep.Notify()
	return len(a.items)
}

// Pop removes and returns the last item, nil when empty.
func (a *Array) Pop() any {
	var item any
	if n := len(a.items); n > 0 {
		item = a.items[n-1]
		a.items[n-1] = nil
		a.items = a.items[:n-1]
	}

	a.dep.Notify()
	return item
}

// Shift removes and returns the first item, nil when empty.
func (a *Array) Shift() any {
	var item any
	if len(a.items) > 0 {
		item = a.items[0]
		a.items = slices.Delete(a.items, 0, 1)
	}

	a.dep.Notify()
	return item
}

// Unshift prepends items and returns the new length.
func (a *Array) Unshift(items ...any) int {
	a.items = slices.Insert(a.items, 0, a.observe(items)...)
	a.dep.Notify()
	return len(a.items)
}

// Splice removes deleteCount items at start, inserts items in their place and
// returns the removed items. A negative start counts from the end; both
// arguments are clamped to the array bounds.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	n := len(a.items)

	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := slices.Clone(a.items[start : start+deleteCount])
	a.items = slices.Replace(a.items, start, start+deleteCount, a.observe(items)...)

	a.dep.Notify()
	return removed
}

// Sort sorts the items in place, stably. A nil cmp orders items by their
// default string form.
func (a *Array) Sort(fn func(x, y any) int) {
	if fn == nil {
		fn = func(x, y any) int {
			return cmp.Compare(fmt.Sprint(x), fmt.Sprint(y))
		}
	}

	slices.SortStableFunc(a.items, fn)
	a.dep.Notify()
}

func (a *Array) Reverse() {
	slices.Reverse(a.items)
	a.dep.Notify()
}

// Set writes index i, growing the array with nil items when i is past the
// end. A negative i counts from the end, like Splice; Set does nothing when
// it still falls before the first item.
func (a *Array) Set(i int, v any) {
	if i < 0 {
		i += len(a.items)
		if i < 0 {
			return
		}
	}

	if i >= len(a.items) {
		a.items = append(a.items, make([]any, i-len(a.items)+1)...)
	}

	a.items[i] = a.rt.Observe(v)
	a.dep.Notify()
}
