package internal

// Tracker holds the active-evaluation context of a runtime: the stack of
// watchers currently collecting dependencies. The top of the stack is the
// target every Dep.Depend call subscribes. A nil entry marks an untracked
// section.
type Tracker struct {
	stack []*Watcher
}

func NewTracker() *Tracker {
	return &Tracker{
		stack: make([]*Watcher, 0, 8),
	}
}

// Target returns the watcher collecting dependencies, or nil when reads
// should not be tracked.
func (t *Tracker) Target() *Watcher {
	if len(t.stack) == 0 {
		return nil
	}

	return t.stack[len(t.stack)-1]
}

func (t *Tracker) Push(w *Watcher) {
	t.stack = append(t.stack, w)
}

func (t *Tracker) Pop() {
	t.stack[len(t.stack)-1] = nil
	t.stack = t.stack[:len(t.stack)-1]
}

// Depth returns the number of nested evaluations (untracked sections included).
func (t *Tracker) Depth() int {
	return len(t.stack)
}

func (t *Tracker) RunWithWatcher(w *Watcher, fn func()) {
	t.Push(w)
	defer t.Pop()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	t.RunWithWatcher(nil, fn)
}

func (t *Tracker) ShouldTrack() bool {
	return t.Target() != nil
}
