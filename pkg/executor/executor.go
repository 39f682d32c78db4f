// Package executor defines the scheduling collaborator the shard map's
// refresh engine uses for backed-off retries, and provides its default
// implementation: a scheduler for a single delayed, cancellable,
// reschedulable callback, built on time.AfterFunc.
package executor

import (
	"sync"
	"time"
)

// ScheduledCallback is a handle to a task scheduled through an Executor.
type ScheduledCallback interface {
	// Cancel prevents the task from running, if it hasn't already started.
	Cancel()
	// Reschedule changes the remaining delay before the task runs. It is a
	// no-op if the task has already run or been cancelled.
	Reschedule(newDelay time.Duration)
}

// Executor schedules delayed, cancellable, reschedulable callbacks. It is
// used exclusively by the refresh engine's backoff policy; the engine never
// awaits a suspension point of its own, so a minimal
// schedule/cancel/reschedule primitive is all it needs.
type Executor interface {
	Schedule(task func(), delay time.Duration) ScheduledCallback
}

// TimerExecutor implements Executor using time.AfterFunc. It is the default
// Executor when none is configured.
type TimerExecutor struct{}

// NewTimerExecutor returns a TimerExecutor.
func NewTimerExecutor() *TimerExecutor {
	return &TimerExecutor{}
}

// Schedule runs task after delay on its own goroutine (time.AfterFunc's
// usual semantics), returning a handle that can cancel or reschedule it.
func (TimerExecutor) Schedule(task func(), delay time.Duration) ScheduledCallback {
	cb := &scheduledCallback{task: task}

	cb.mu.Lock()
	cb.timer = time.AfterFunc(delay, cb.run)
	cb.mu.Unlock()

	return cb
}

// scheduledCallback wraps a *time.Timer so Reschedule can stop and restart
// it without racing the timer's own fired-callback goroutine.
type scheduledCallback struct {
	mu    sync.Mutex
	timer *time.Timer
	task  func()
	done  bool // set once the task has run or been cancelled
}

func (cb *scheduledCallback) run() {
	cb.mu.Lock()
	if cb.done {
		cb.mu.Unlock()

		return
	}

	cb.done = true
	task := cb.task
	cb.mu.Unlock()

	if task != nil {
		task()
	}
}

// Cancel stops the timer if it hasn't fired yet.
func (cb *scheduledCallback) Cancel() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.timer != nil {
		cb.timer.Stop()
	}

	cb.done = true
}

// Reschedule stops the existing timer, if any, and starts a new one with
// newDelay.
func (cb *scheduledCallback) Reschedule(newDelay time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.done {
		return
	}

	if cb.timer != nil {
		cb.timer.Stop()
	}

	cb.timer = time.AfterFunc(newDelay, cb.run)
}
