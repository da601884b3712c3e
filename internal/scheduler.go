package internal

import (
	"cmp"
	"slices"
	"time"
)

// Scheduler collects watchers notified during a synchronous burst and runs
// each of them once in a single flush.
//
// Watchers run in ascending id order. Ids follow creation order, so a watcher
// created before another usually runs first; this is a best-effort
// parent-before-child ordering, not a topological sort of the dependency graph.
type Scheduler struct {
	rt *Runtime

	queue []*Watcher
	has   map[uint64]struct{}

	// per-flush bookkeeping for the circular update guard
	ran      map[uint64]struct{}
	circular map[uint64]int
	capped   map[uint64]struct{}

	// waiting is true once a flush has been requested, until it completes
	waiting  bool
	flushing bool

	// position of the watcher currently running in the queue
	index int

	settled []func()
}

func NewScheduler(rt *Runtime) *Scheduler {
	return &Scheduler{
		rt: rt,

		queue: make([]*Watcher, 0),
		has:   make(map[uint64]struct{}),

		ran:      make(map[uint64]struct{}),
		circular: make(map[uint64]int),
		capped:   make(map[uint64]struct{}),
	}
}

// Queue adds w to the pending watchers unless it is already there.
func (s *Scheduler) Queue(w *Watcher) {
	id := w.id
	if _, ok := s.has[id]; ok {
		return
	}

	if s.flushing && !s.allowRequeue(w) {
		return
	}

	s.has[id] = struct{}{}

	if !s.flushing {
		s.queue = append(s.queue, w)
	} else {
		// keep the part of the queue that didn't run yet sorted by id
		i := len(s.queue) - 1
		for i > s.index && s.queue[i].id > id {
			i--
		}
		s.queue = slices.Insert(s.queue, i+1, w)
	}

	if s.waiting {
		return
	}
	s.waiting = true

	if !s.rt.async {
		s.flush()
		return
	}

	s.rt.ticks.Submit(s.flush)
}

// allowRequeue counts how many times a watcher that already ran in the
// current flush gets queued again, and refuses once it went past the limit.
func (s *Scheduler) allowRequeue(w *Watcher) bool {
	if _, ok := s.ran[w.id]; !ok {
		return true
	}

	if _, ok := s.capped[w.id]; ok {
		return false
	}

	s.circular[w.id]++
	if count := s.circular[w.id]; count > s.rt.maxUpdateCount {
		s.capped[w.id] = struct{}{}
		s.rt.reportCircular(w, count)
		return false
	}

	return true
}

// Remove drops a pending watcher that didn't run yet.
func (s *Scheduler) Remove(w *Watcher) {
	if _, ok := s.has[w.id]; !ok {
		return
	}
	delete(s.has, w.id)

	start := 0
	if s.flushing {
		start = s.index + 1
	}
	if start > len(s.queue) {
		return
	}

	if i := slices.Index(s.queue[start:], w); i != -1 {
		s.queue = slices.Delete(s.queue, start+i, start+i+1)
	}
}

// Pending returns the watchers waiting to run.
func (s *Scheduler) Pending() []*Watcher {
	start := 0
	if s.flushing {
		start = min(s.index+1, len(s.queue))
	}

	return slices.Clone(s.queue[start:])
}

func (s *Scheduler) Flushing() bool { return s.flushing }
func (s *Scheduler) Waiting() bool  { return s.waiting }

// OnSettled registers fn to run once, after the next flush completes.
func (s *Scheduler) OnSettled(fn func()) {
	s.settled = append(s.settled, fn)
}

func (s *Scheduler) flush() {
	start := time.Now()
	s.flushing = true
	defer s.reset()

	// watchers created first run first, see the type doc
	slices.SortStableFunc(s.queue, func(a, b *Watcher) int {
		return cmp.Compare(a.id, b.id)
	})

	s.rt.hooks.FlushStarted(len(s.queue))

	ran := 0
	for s.index = 0; s.index < len(s.queue); s.index++ {
		w := s.queue[s.index]
		w.runBefore()

		delete(s.has, w.id)
		s.ran[w.id] = struct{}{}

		runStart := time.Now()
		w.Run()
		ran++

		s.rt.hooks.WatcherRan(w, time.Since(runStart), w.err)
	}

	s.rt.hooks.FlushFinished(ran, time.Since(start))
	s.rt.logger.Debug("flush done", "ran", ran, "elapsed", time.Since(start))
}

func (s *Scheduler) reset() {
	clear(s.queue)
	s.queue = s.queue[:0]
	s.index = 0

	clear(s.has)
	clear(s.ran)
	clear(s.circular)
	clear(s.capped)

	s.waiting = false
	s.flushing = false

	s.runSettled()
}

func (s *Scheduler) runSettled() {
	if len(s.settled) == 0 {
		return
	}

	settled := s.settled
	s.settled = nil

	for _, fn := range settled {
		if err := protect(func() error { fn(); return nil }); err != nil {
			s.rt.reportError(0, PhaseSettled, err)
		}
	}
}
