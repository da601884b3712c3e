package internal

// MicrotaskQueue is the runtime's finest-grained deferral facility. Tasks
// deferred during a synchronous execution window run at the window's
// checkpoint, once the outermost window returned.
type MicrotaskQueue struct {
	tasks    []func()
	draining bool
}

func NewMicrotaskQueue() *MicrotaskQueue {
	return &MicrotaskQueue{
		tasks: make([]func(), 0),
	}
}

func (q *MicrotaskQueue) Defer(task func()) {
	q.tasks = append(q.tasks, task)
}

func (q *MicrotaskQueue) Len() int {
	return len(q.tasks)
}

// Checkpoint runs deferred tasks in order until none is left, including the
// ones deferred while it runs. Reentrant calls are no-ops.
func (q *MicrotaskQueue) Checkpoint() {
	if q.draining {
		return
	}

	q.draining = true
	defer func() { q.draining = false }()

	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]

		task()
	}
}
