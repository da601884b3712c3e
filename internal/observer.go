package internal

import (
	"iter"
	"maps"
	"slices"
)

// Object is a reactive keyed container. Each property is backed by its own
// Dep: reading a property subscribes the active watcher, writing it notifies.
// The container itself has a Dep too, notified when keys are added or removed.
//
// Nested map[string]any and []any values are made reactive the first time
// they are read, and stored back in place as *Object and *Array.
type Object struct {
	rt *Runtime

	raw  map[string]any
	keys []string
	deps map[string]*Dep
	dep  *Dep

	equal func(a, b any) bool
}

// Reactive makes m reactive. Calling it again with the same map returns the
// same Object as long as that Object is alive.
func (r *Runtime) Reactive(m map[string]any) *Object {
	if m == nil {
		m = make(map[string]any)
	} else if o := r.registry.lookupObject(m); o != nil {
		return o
	}

	o := &Object{
		rt:   r,
		raw:  m,
		keys: slices.Sorted(maps.Keys(m)),
		deps: make(map[string]*Dep, len(m)),
		dep:  r.NewDep(),
	}
	o.dep.owner = o

	for _, key := range o.keys {
		o.deps[key] = o.newDep()
	}

	r.registry.storeObject(m, o)
	return o
}

// Observe returns the reactive version of v when v is a container, and v
// itself otherwise. Already reactive values are returned unchanged.
func (r *Runtime) Observe(v any) any {
	switch c := v.(type) {
	case *Object, *Array:
		return c
	case map[string]any:
		return r.Reactive(c)
	case []any:
		return r.NewArray(c)
	default:
		return v
	}
}

func isContainer(v any) bool {
	switch v.(type) {
	case *Object, *Array, map[string]any, []any:
		return true
	}

	return false
}

func isPlainContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}

	return false
}

// dependChild subscribes the active watcher to a nested container's own dep,
// so that adding keys or splicing items also reaches readers of the parent.
func dependChild(v any) {
	switch c := v.(type) {
	case *Object:
		c.dep.Depend()
	case *Array:
		c.dep.Depend()
		c.dependItems()
	}
}

func (o *Object) newDep() *Dep {
	d := o.rt.NewDep()
	d.owner = o
	return d
}

// WithEqual overrides the runtime's change-detection predicate for this object.
func (o *Object) WithEqual(fn func(a, b any) bool) *Object {
	o.equal = fn
	return o
}

func (o *Object) equals(a, b any) bool {
	if o.equal != nil {
		return o.equal(a, b)
	}

	return o.rt.equal(a, b)
}

// Get returns the value of key and subscribes the active watcher to it.
// Reading a missing key subscribes to the container, so a later Set of that
// key is seen.
func (o *Object) Get(key string) any {
	dep, ok := o.deps[key]
	if !ok {
		o.dep.Depend()
		return nil
	}

	value := o.child(key)

	dep.Depend()
	if o.rt.tracker.ShouldTrack() {
		dependChild(value)
	}

	return value
}

// Peek returns the value of key without tracking it.
func (o *Object) Peek(key string) any {
	if _, ok := o.deps[key]; !ok {
		return nil
	}

	return o.child(key)
}

func (o *Object) child(key string) any {
	value := o.raw[key]

	if isPlainContainer(value) {
		value = o.rt.Observe(value)
		o.raw[key] = value
	}

	return value
}

// Set writes key and notifies its readers when the value changed. Setting a
// new key also notifies the container's readers.
func (o *Object) Set(key string, value any) {
	dep, ok := o.deps[key]
	if !ok {
		o.raw[key] = o.rt.Observe(value)
		o.keys = append(o.keys, key)
		o.deps[key] = o.newDep()

		o.dep.Notify()
		return
	}

	// compare reactive forms, a raw container equals its wrapper
	value = o.rt.Observe(value)
	if o.equals(o.child(key), value) {
		return
	}

	o.raw[key] = value
	dep.Notify()
}

// Delete removes key, notifying its readers and the container's readers.
func (o *Object) Delete(key string) {
	dep, ok := o.deps[key]
	if !ok {
		return
	}

	delete(o.raw, key)
	delete(o.deps, key)
	if index := slices.Index(o.keys, key); index != -1 {
		o.keys = slices.Delete(o.keys, index, index+1)
	}

	dep.Notify()
	o.dep.Notify()
}

// Has reports whether key is set, subscribing to the container.
func (o *Object) Has(key string) bool {
	o.dep.Depend()

	_, ok := o.deps[key]
	return ok
}

// Keys returns the keys in insertion order (initial keys sorted), subscribing
// to the container.
func (o *Object) Keys() []string {
	o.dep.Depend()
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	o.dep.Depend()
	return len(o.keys)
}

// Range iterates over every property, tracking each one read.
func (o *Object) Range() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range o.Keys() {
			if !yield(key, o.Get(key)) {
				return
			}
		}
	}
}

// Raw returns the backing map. Writes made through it are not observed.
func (o *Object) Raw() map[string]any {
	return o.raw
}

// Dep returns the container-level dep.
func (o *Object) Dep() *Dep {
	return o.dep
}

// PropertyDep returns the dep backing key, or nil.
func (o *Object) PropertyDep(key string) *Dep {
	return o.deps[key]
}

// ToRaw converts reactive values back into plain maps and slices, recursively.
// It does not track.
func ToRaw(v any) any {
	switch c := v.(type) {
	case *Object:
		m := make(map[string]any, len(c.keys))
		for _, key := range c.keys {
			m[key] = ToRaw(c.raw[key])
		}
		return m
	case *Array:
		s := make([]any, len(c.items))
		for i, item := range c.items {
			s[i] = ToRaw(item)
		}
		return s
	case map[string]any:
		m := make(map[string]any, len(c))
		for key, value := range c {
			m[key] = ToRaw(value)
		}
		return m
	case []any:
		s := make([]any, len(c))
		for i, item := range c {
			s[i] = ToRaw(item)
		}
		return s
	default:
		return v
	}
}
