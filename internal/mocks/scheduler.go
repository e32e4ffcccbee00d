package mocks

import (
	"sync"
	"time"

	"github.com/benmeehan/nav-handoff/internal/utils"
)

// FakeTimer is a timer handed out by FakeScheduler.
type FakeTimer struct {
	Delay   time.Duration
	task    func()
	stopped bool
	fired   bool
}

// Stop cancels the timer unless it already fired.
func (t *FakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Stopped reports whether Stop cancelled the timer.
func (t *FakeTimer) Stopped() bool { return t.stopped }

// FakeScheduler records scheduled tasks and runs them only when fired by the test.
type FakeScheduler struct {
	mu     sync.Mutex
	timers []*FakeTimer
}

// Schedule records task.
func (s *FakeScheduler) Schedule(delay time.Duration, task func()) utils.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &FakeTimer{Delay: delay, task: task}
	s.timers = append(s.timers, t)
	return t
}

// Timers returns every timer scheduled so far.
func (s *FakeScheduler) Timers() []*FakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*FakeTimer(nil), s.timers...)
}

// Fire runs the task of t as if its delay elapsed, unless it was stopped.
func (s *FakeScheduler) Fire(t *FakeTimer) {
	if t.stopped || t.fired {
		return
	}
	t.fired = true
	t.task()
}

// FireExpired runs t's task even if it was stopped, simulating a timer that fired just
// before being cancelled.
func (s *FakeScheduler) FireExpired(t *FakeTimer) {
	t.fired = true
	t.task()
}

// SyncDispatcher runs submitted tasks immediately on the caller's goroutine.
type SyncDispatcher struct {
	Closed bool
}

func (d *SyncDispatcher) Submit(task func()) bool {
	if d.Closed {
		return false
	}
	task()
	return true
}

func (d *SyncDispatcher) SubmitAndWait(task func()) bool {
	return d.Submit(task)
}
