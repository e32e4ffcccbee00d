package utils

import (
	"sync"
	"time"
)

// Job represents a task to be executed on the main loop.
type Job struct {
	Task func()
}

// Timer is a scheduled task that can be cancelled before it fires.
type Timer interface {
	// Stop prevents the task from being queued. It reports false if the timer had
	// already fired.
	Stop() bool
}

// Scheduler runs a task once after a delay.
type Scheduler interface {
	Schedule(delay time.Duration, task func()) Timer
}

// MainLoop executes every submitted task on a single goroutine, in submission order.
// UI state and the navigation pipeline are only touched from this goroutine.
type MainLoop struct {
	jobQueue  chan Job
	waitGroup sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewMainLoop starts a main loop whose queue holds up to queueSize pending jobs.
func NewMainLoop(queueSize int) *MainLoop {
	if queueSize < 1 {
		queueSize = 1
	}

	loop := &MainLoop{
		jobQueue: make(chan Job, queueSize),
	}

	loop.waitGroup.Add(1)
	go loop.run()

	return loop
}

// run processes jobs from the jobQueue.
func (l *MainLoop) run() {
	defer l.waitGroup.Done()
	for job := range l.jobQueue {
		job.Task()
	}
}

// Submit queues task. It reports false when the loop has been shut down.
func (l *MainLoop) Submit(task func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return false
	}
	l.jobQueue <- Job{Task: task}
	return true
}

// SubmitAndWait queues task and blocks until it has run. It must not be called from
// a task running on the loop.
func (l *MainLoop) SubmitAndWait(task func()) bool {
	done := make(chan struct{})
	if !l.Submit(func() {
		defer close(done)
		task()
	}) {
		return false
	}
	<-done
	return true
}

// Schedule queues task on the loop after delay.
func (l *MainLoop) Schedule(delay time.Duration, task func()) Timer {
	return time.AfterFunc(delay, func() {
		l.Submit(task)
	})
}

// Shutdown stops accepting jobs, runs the ones already queued and waits for the
// loop goroutine to exit.
func (l *MainLoop) Shutdown() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.jobQueue)
	l.mu.Unlock()

	l.waitGroup.Wait()
}
