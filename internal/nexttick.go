package internal

import "time"

// TickQueue is the process-wide pending callback queue of a runtime. A whole
// burst of submissions is drained by a single deferred task.
type TickQueue struct {
	rt *Runtime

	callbacks []func()
	pending   bool
}

func NewTickQueue(rt *Runtime) *TickQueue {
	return &TickQueue{
		rt:        rt,
		callbacks: make([]func(), 0),
	}
}

// Submit appends cb and schedules a drain if none is pending.
func (q *TickQueue) Submit(cb func()) {
	q.callbacks = append(q.callbacks, cb)

	if !q.pending {
		q.pending = true
		q.rt.microtasks.Defer(q.drain)
	}
}

// Pending reports whether a drain is scheduled.
func (q *TickQueue) Pending() bool {
	return q.pending
}

func (q *TickQueue) drain() {
	start := time.Now()

	// callbacks submitted from here on go to the next drain
	q.pending = false
	callbacks := q.callbacks
	q.callbacks = make([]func(), 0, len(callbacks))

	for _, cb := range callbacks {
		if err := protect(func() error { cb(); return nil }); err != nil {
			q.rt.reportError(0, PhaseNextTick, err)
		}
	}

	q.rt.hooks.TickDrained(len(callbacks), time.Since(start))
}
