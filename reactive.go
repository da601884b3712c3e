// Package reactive tracks which computations read which pieces of state and
// re-runs them, once per update cycle, when that state changes.
//
// State is made observable with Reactive (keyed objects) and NewArray
// (sequences). Computations are registered with NewEffect, NewComputed and
// Watch. Writes never re-run computations directly: affected watchers are
// queued and flushed together, in creation order, at the end of the current
// execution window (see Run and Tick).
//
// Each goroutine gets its own default Runtime; use New for an explicit one.
package reactive

import (
	"github.com/AnatoleLucet/reactive/internal"
)

type (
	Runtime = internal.Runtime
	Object  = internal.Object
	Array   = internal.Array
	Dep     = internal.Dep
	Watcher = internal.Watcher
	Loop    = internal.Loop

	Hooks      = internal.Hooks
	NopHooks   = internal.NopHooks
	MultiHooks = internal.MultiHooks

	WatcherOptions = internal.WatcherOptions
	WatchOptions   = internal.WatchOptions
	WatcherKind    = internal.WatcherKind
	Getter         = internal.Getter
	Callback       = internal.Callback
	Phase          = internal.Phase

	WatcherError        = internal.WatcherError
	CircularUpdateError = internal.CircularUpdateError
	PanicError          = internal.PanicError
)

const (
	KindEffect   = internal.KindEffect
	KindWatch    = internal.KindWatch
	KindComputed = internal.KindComputed

	PhaseGetter   = internal.PhaseGetter
	PhaseCallback = internal.PhaseCallback
	PhaseCleanup  = internal.PhaseCleanup
	PhaseBefore   = internal.PhaseBefore
	PhaseNextTick = internal.PhaseNextTick
	PhaseSettled  = internal.PhaseSettled
	PhaseTask     = internal.PhaseTask

	DefaultMaxUpdateCount = internal.DefaultMaxUpdateCount
)

var (
	ErrCircularUpdate = internal.ErrCircularUpdate
	ErrDisposed       = internal.ErrDisposed
	ErrLoopClosed     = internal.ErrLoopClosed
	ErrInvalidPath    = internal.ErrInvalidPath
)

// SameValue is the default change-detection predicate.
func SameValue(a, b any) bool { return internal.SameValue(a, b) }

// ToRaw converts reactive values back into plain maps and slices.
func ToRaw(v any) any { return internal.ToRaw(v) }

// New creates an independent runtime.
func New(opts ...Option) *Runtime {
	o := internal.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return internal.NewRuntime(o)
}

// Default returns the calling goroutine's default runtime, used by the
// package level functions.
func Default() *Runtime {
	return internal.GetRuntime()
}

// NewLoop creates a loop driving rt. Start it with Run on its own goroutine.
func NewLoop(rt *Runtime) *Loop {
	return internal.NewLoop(rt)
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Reactive makes m observable. The same map always yields the same Object.
func Reactive(m map[string]any) *Object {
	return internal.GetRuntime().Reactive(m)
}

// NewArray makes items an observable sequence.
func NewArray(items ...any) *Array {
	return internal.GetRuntime().NewArray(items)
}

// NewEffect runs fn now, then again each time something it read changed.
func NewEffect(fn func()) *Watcher {
	return internal.GetRuntime().NewEffect(fn)
}

// Run executes fn as one execution window: the flush of everything it
// changed happens once fn returned.
func Run(fn func()) {
	internal.GetRuntime().Run(fn)
}

// Batch is an alias of Run.
func Batch(fn func()) {
	internal.GetRuntime().Batch(fn)
}

// Tick flushes pending updates made outside of Run.
func Tick() {
	internal.GetRuntime().Tick()
}

// NextTick runs cb after the pending flush, if any.
func NextTick(cb func()) {
	internal.GetRuntime().NextTick(cb)
}

// NextTickC returns a channel closed after the pending flush, if any.
func NextTickC() <-chan struct{} {
	return internal.GetRuntime().NextTickC()
}

// OnSettled runs fn once, after the next flush completed.
func OnSettled(fn func()) {
	internal.GetRuntime().OnSettled(fn)
}

// OnCleanup registers a function to be called before the current watcher
// re-runs or is torn down, or when the current owner is disposed.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	return UntrackIn(internal.GetRuntime(), fn)
}

func UntrackIn[T any](rt *Runtime, fn func() T) T {
	var result T
	rt.Untrack(func() { result = fn() })
	return result
}

// Release forgets the calling goroutine's default runtime. Goroutines that
// used the package level functions call it before exiting.
func Release() {
	internal.ReleaseRuntime()
}
