package clipboard

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task is a scheduled callback.
type Task interface {
	// Cancel prevents the callback from running. It reports whether the
	// callback was still pending.
	Cancel() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
}

// TimerScheduler schedules callbacks with time.AfterFunc.
//
// If Post is set, the timer goroutine hands the callback to Post instead of
// running it, so hosts with a single UI goroutine can run it there. A task
// cancelled after it was posted but before it ran is still skipped.
type TimerScheduler struct {
	Post func(fn func())
}

// After implements Scheduler.
func (s TimerScheduler) After(d time.Duration, fn func()) Task {
	t := &timerTask{}
	run := func() {
		if t.done.CompareAndSwap(false, true) {
			fn()
		}
	}

	t.timer = time.AfterFunc(d, func() {
		if s.Post != nil {
			s.Post(run)
			return
		}
		run()
	})
	return t
}

type timerTask struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *timerTask) Cancel() bool {
	t.timer.Stop()
	return t.done.CompareAndSwap(false, true)
}

// ManualScheduler collects callbacks and runs them only when Advance moves
// its clock past their deadline. Hosts without real timers and tests use it.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	fn       func()
	deadline time.Duration
	done     bool
}

// After implements Scheduler.
func (s *ManualScheduler) After(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTask{deadline: s.now + d, fn: fn}
	s.tasks = append(s.tasks, t)
	return &manualHandle{s: s, t: t}
}

// Advance moves the clock forward by d and runs every due callback in
// deadline order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	now := s.now
	s.mu.Unlock()

	for {
		fn := s.popDue(now)
		if fn == nil {
			return
		}
		fn()
	}
}

// Pending returns the number of callbacks that have not run or been cancelled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) popDue(now time.Duration) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next *manualTask
	for _, t := range s.tasks {
		if t.done || t.deadline > now {
			continue
		}
		if next == nil || t.deadline < next.deadline {
			next = t
		}
	}
	if next == nil {
		s.compact()
		return nil
	}
	next.done = true
	return next.fn
}

// compact drops finished tasks. Must be called with the lock held.
func (s *ManualScheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.done {
			live = append(live, t)
		}
	}
	s.tasks = live
}

type manualHandle struct {
	s *ManualScheduler
	t *manualTask
}

func (h *manualHandle) Cancel() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	if h.t.done {
		return false
	}
	h.t.done = true
	return true
}
