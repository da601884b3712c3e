package internal

import "time"

// Hooks observe the runtime's update cycle. They are called synchronously on
// the runtime's goroutine and must not mutate reactive state.
type Hooks interface {
	FlushStarted(pending int)
	WatcherRan(w *Watcher, elapsed time.Duration, err error)
	FlushFinished(ran int, elapsed time.Duration)
	CircularUpdate(w *Watcher, count int)
	TickDrained(callbacks int, elapsed time.Duration)
}

type NopHooks struct{}

func (NopHooks) FlushStarted(int)                          {}
func (NopHooks) WatcherRan(*Watcher, time.Duration, error) {}
func (NopHooks) FlushFinished(int, time.Duration)          {}
func (NopHooks) CircularUpdate(*Watcher, int)              {}
func (NopHooks) TickDrained(int, time.Duration)            {}

// MultiHooks fans every call out to each of its hooks, in order.
type MultiHooks []Hooks

func (m MultiHooks) FlushStarted(pending int) {
	for _, h := range m {
		h.FlushStarted(pending)
	}
}

func (m MultiHooks) WatcherRan(w *Watcher, elapsed time.Duration, err error) {
	for _, h := range m {
		h.WatcherRan(w, elapsed, err)
	}
}

func (m MultiHooks) FlushFinished(ran int, elapsed time.Duration) {
	for _, h := range m {
		h.FlushFinished(ran, elapsed)
	}
}

func (m MultiHooks) CircularUpdate(w *Watcher, count int) {
	for _, h := range m {
		h.CircularUpdate(w, count)
	}
}

func (m MultiHooks) TickDrained(callbacks int, elapsed time.Duration) {
	for _, h := range m {
		h.TickDrained(callbacks, elapsed)
	}
}
