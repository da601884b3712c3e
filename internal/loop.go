package internal

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

type task struct {
	fn   func()
	done chan struct{}
}

// Loop owns a runtime and runs every task posted to it on a single
// goroutine, each task as one execution window. It is the way to drive a
// runtime from several goroutines.
type Loop struct {
	rt *Runtime

	mu     sync.Mutex
	tasks  []task
	closed bool
	wake   chan struct{}

	// closed once the loop stopped
	stopped chan struct{}

	// goroutine running the loop, 0 when not running
	gid atomic.Int64
}

func NewLoop(rt *Runtime) *Loop {
	return &Loop{
		rt:      rt,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

func (l *Loop) Runtime() *Runtime {
	return l.rt
}

// Post queues fn to run on the loop and returns immediately.
func (l *Loop) Post(fn func()) error {
	return l.post(task{fn: fn})
}

func (l *Loop) post(t task) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.tasks = append(l.tasks, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return nil
}

// Do runs fn on the loop and waits for it, including the flush it caused.
// Called from the loop itself, fn runs inline.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if l.InLoop() {
		fn()
		return nil
	}

	done := make(chan struct{})
	if err := l.post(task{fn: fn, done: done}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InLoop reports whether the caller is the goroutine running the loop.
func (l *Loop) InLoop() bool {
	gid := l.gid.Load()
	return gid != 0 && gid == goid.Get()
}

// Run processes tasks until ctx is done. Once it returns the loop is closed:
// pending tasks are dropped and Post fails with ErrLoopClosed.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrLoopClosed
	}

	l.gid.Store(goid.Get())
	defer l.gid.Store(0)

	for {
		for _, t := range l.take() {
			l.run(t.fn)
			if t.done != nil {
				close(t.done)
			}
		}

		select {
		case <-ctx.Done():
			l.close()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) run(fn func()) {
	l.rt.Run(func() {
		if err := protect(func() error { fn(); return nil }); err != nil {
			l.rt.reportError(0, PhaseTask, err)
		}
	})
}

func (l *Loop) take() []task {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks := l.tasks
	l.tasks = nil
	return tasks
}

func (l *Loop) close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	l.tasks = nil
	close(l.stopped)
}
