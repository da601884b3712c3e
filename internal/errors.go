package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrCircularUpdate is reported when a watcher keeps re-queueing itself
	// within a single flush.
	ErrCircularUpdate = errors.New("reactive: circular update")

	// ErrDisposed is returned when running code in a disposed owner.
	ErrDisposed = errors.New("reactive: owner disposed")

	// ErrLoopClosed is returned when posting to a loop that stopped running.
	ErrLoopClosed = errors.New("reactive: loop closed")

	// ErrInvalidPath is returned for watch paths that are not simple dotted paths.
	ErrInvalidPath = errors.New("reactive: invalid watch path")
)

// Phase tells where a reported error was raised.
type Phase string

const (
	PhaseGetter   Phase = "getter"
	PhaseCallback Phase = "callback"
	PhaseCleanup  Phase = "cleanup"
	PhaseBefore   Phase = "before"
	PhaseNextTick Phase = "nextTick"
	PhaseSettled  Phase = "settled"
	PhaseTask     Phase = "task"
)

// WatcherError wraps an error raised while running user code on behalf of
// the runtime. WatcherID is zero for errors not tied to a watcher.
type WatcherError struct {
	WatcherID uint64
	Phase     Phase
	Err       error
}

func (e *WatcherError) Error() string {
	if e.WatcherID == 0 {
		return fmt.Sprintf("reactive: %s: %v", e.Phase, e.Err)
	}

	return fmt.Sprintf("reactive: watcher %d %s: %v", e.WatcherID, e.Phase, e.Err)
}

func (e *WatcherError) Unwrap() error {
	return e.Err
}

// CircularUpdateError is the warning raised when a watcher is re-queued more
// than the configured number of times in one flush.
type CircularUpdateError struct {
	WatcherID uint64
	Count     int
}

func (e *CircularUpdateError) Error() string {
	return fmt.Sprintf("reactive: watcher %d re-queued %d times in one flush, dropping further updates", e.WatcherID, e.Count)
}

func (e *CircularUpdateError) Unwrap() error {
	return ErrCircularUpdate
}

// PanicError carries a value recovered from a panic.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// protect runs fn and turns a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	return fn()
}
