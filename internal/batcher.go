package internal

// Batcher delimits synchronous execution windows. Windows nest; the
// completion callback only fires when the outermost one returns.
type Batcher struct {
	// each nested window increases the depth by 1
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{
		depth: 0,
	}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
}

// Run executes fn as one synchronous execution window. Everything deferred
// while it runs (flushes, NextTick callbacks) runs right after the outermost
// window returns.
func (r *Runtime) Run(fn func()) {
	r.batcher.Batch(fn, r.microtasks.Checkpoint)
}

// Batch is an alias of Run.
func (r *Runtime) Batch(fn func()) {
	r.Run(fn)
}

// Tick runs the deferred work left by mutations made outside of any window.
// Inside a window it does nothing, the window's end takes care of it.
func (r *Runtime) Tick() {
	if r.batcher.IsBatching() {
		return
	}

	r.microtasks.Checkpoint()
}
