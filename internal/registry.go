package internal

import (
	"reflect"
	"runtime"
	"sync"
	"unsafe"
	"weak"
)

// registry remembers which raw container backs which reactive wrapper, so
// that making the same map or slice reactive twice yields the same wrapper.
// Entries are weak: a wrapper nobody references anymore can be collected, its
// entry is then dropped.
type registry struct {
	objects weakMap[uintptr, Object]
	arrays  weakMap[sliceKey, Array]
}

func newRegistry() *registry {
	return &registry{
		objects: weakMap[uintptr, Object]{entries: make(map[uintptr]weak.Pointer[Object])},
		arrays:  weakMap[sliceKey, Array]{entries: make(map[sliceKey]weak.Pointer[Array])},
	}
}

func mapKey(m map[string]any) uintptr {
	return reflect.ValueOf(m).Pointer()
}

// sliceKey identifies a slice header. Reslicing gives a different key.
type sliceKey struct {
	data     uintptr
	len, cap int
}

func keyOf(s []any) (sliceKey, bool) {
	// zero capacity slices may all share the same address
	if cap(s) == 0 {
		return sliceKey{}, false
	}

	return sliceKey{
		data: uintptr(unsafe.Pointer(unsafe.SliceData(s))),
		len:  len(s),
		cap:  cap(s),
	}, true
}

func (g *registry) lookupObject(m map[string]any) *Object {
	return g.objects.lookup(mapKey(m))
}

// storeObject registers o for m. The object references m, so the address
// can't be reused while it lives.
func (g *registry) storeObject(m map[string]any, o *Object) {
	g.objects.store(mapKey(m), o)
}

func (g *registry) lookupArray(s []any) *Array {
	key, ok := keyOf(s)
	if !ok {
		return nil
	}

	return g.arrays.lookup(key)
}

// storeArray registers a for s. The array keeps s as its source, so the
// backing array outlives appends that move the items elsewhere.
func (g *registry) storeArray(s []any, a *Array) {
	if key, ok := keyOf(s); ok {
		g.arrays.store(key, a)
	}
}

type weakMap[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]weak.Pointer[V]
}

func (m *weakMap[K, V]) lookup(key K) *V {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.entries[key]; ok {
		return p.Value()
	}

	return nil
}

func (m *weakMap[K, V]) store(key K, v *V) {
	m.mu.Lock()
	m.entries[key] = weak.Make(v)
	m.mu.Unlock()

	runtime.AddCleanup(v, m.forget, key)
}

func (m *weakMap[K, V]) forget(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.entries[key]; ok && p.Value() == nil {
		delete(m.entries, key)
	}
}

func (m *weakMap[K, V]) has(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	return ok
}
