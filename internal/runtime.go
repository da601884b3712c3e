package internal

import (
	"errors"
	"log/slog"
)

// Options configure a Runtime. Build them from DefaultOptions; nil fields
// and a zero MaxUpdateCount fall back to defaults.
type Options struct {
	// Async defers flushes to the tick queue. When false every notified
	// watcher is flushed immediately.
	Async bool

	// MaxUpdateCount is how many times a single watcher may be re-queued
	// within one flush before further updates are dropped.
	MaxUpdateCount int

	Logger *slog.Logger
	Hooks  Hooks

	// OnError receives errors raised by watchers, callbacks and tick callbacks.
	OnError func(error)

	// OnWarning receives non fatal issues such as circular updates.
	OnWarning func(error)

	// Equal decides whether a write changed a value.
	Equal func(a, b any) bool
}

const DefaultMaxUpdateCount = 100

func DefaultOptions() Options {
	return Options{
		Async:          true,
		MaxUpdateCount: DefaultMaxUpdateCount,
	}
}

// Runtime is one independent reactive engine: its own active-evaluation
// context, scheduler and tick queue. A runtime is meant to be used from a
// single goroutine at a time (see Loop to feed it from several).
type Runtime struct {
	tracker    *Tracker
	batcher    *Batcher
	scheduler  *Scheduler
	ticks      *TickQueue
	microtasks *MicrotaskQueue
	registry   *registry

	// owner that collects watchers created outside of any evaluation
	owner *Owner

	async          bool
	maxUpdateCount int

	logger    *slog.Logger
	hooks     Hooks
	onError   func(error)
	onWarning func(error)
	equal     func(a, b any) bool

	depID     uint64
	watcherID uint64
}

func NewRuntime(opts Options) *Runtime {
	r := &Runtime{
		tracker:    NewTracker(),
		batcher:    NewBatcher(),
		microtasks: NewMicrotaskQueue(),
		registry:   newRegistry(),

		async:          opts.Async,
		maxUpdateCount: opts.MaxUpdateCount,

		logger:    opts.Logger,
		hooks:     opts.Hooks,
		onError:   opts.OnError,
		onWarning: opts.OnWarning,
		equal:     opts.Equal,
	}
	r.scheduler = NewScheduler(r)
	r.ticks = NewTickQueue(r)

	if r.maxUpdateCount <= 0 {
		r.maxUpdateCount = DefaultMaxUpdateCount
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.hooks == nil {
		r.hooks = NopHooks{}
	}
	if r.equal == nil {
		r.equal = SameValue
	}
	if r.onError == nil {
		r.onError = r.logError
	}
	if r.onWarning == nil {
		r.onWarning = r.logWarning
	}

	return r
}

func (r *Runtime) Tracker() *Tracker     { return r.tracker }
func (r *Runtime) Scheduler() *Scheduler { return r.scheduler }
func (r *Runtime) Ticks() *TickQueue     { return r.ticks }
func (r *Runtime) Logger() *slog.Logger  { return r.logger }

// NextTick runs cb after the current synchronous execution window, after
// the callbacks submitted before it.
func (r *Runtime) NextTick(cb func()) {
	r.ticks.Submit(cb)
}

// NextTickC returns a channel closed once the pending flush, if any, ran.
// Other goroutines can wait on it for the updates of a Loop task to settle.
func (r *Runtime) NextTickC() <-chan struct{} {
	done := make(chan struct{})
	r.ticks.Submit(func() { close(done) })
	return done
}

// OnSettled runs fn once, after the next flush completes.
func (r *Runtime) OnSettled(fn func()) {
	r.scheduler.OnSettled(fn)
}

// OnCleanup registers fn on the watcher currently evaluating, or on the
// current owner outside of any evaluation.
func (r *Runtime) OnCleanup(fn func()) {
	if target := r.tracker.Target(); target != nil {
		target.OnCleanup(fn)
		return
	}

	if r.owner != nil {
		r.owner.OnCleanup(fn)
	}
}

// Untrack runs fn without recording any dependency.
func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

func (r *Runtime) reportError(watcherID uint64, phase Phase, err error) {
	r.onError(&WatcherError{WatcherID: watcherID, Phase: phase, Err: err})
}

func (r *Runtime) reportCircular(w *Watcher, count int) {
	r.hooks.CircularUpdate(w, count)
	r.onWarning(&CircularUpdateError{WatcherID: w.id, Count: count})
}

func (r *Runtime) logError(err error) {
	attrs := []any{"error", err}

	var werr *WatcherError
	if errors.As(err, &werr) {
		attrs = append(attrs, "watcher_id", werr.WatcherID, "phase", string(werr.Phase))
	}

	r.logger.Error("reactive: unhandled error", attrs...)
}

func (r *Runtime) logWarning(err error) {
	attrs := []any{"error", err}

	var cerr *CircularUpdateError
	if errors.As(err, &cerr) {
		attrs = append(attrs, "watcher_id", cerr.WatcherID, "count", cerr.Count)
	}

	r.logger.Warn("reactive: possible infinite update loop", attrs...)
}
