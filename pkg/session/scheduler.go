package session

import "time"

// Task is a handle to a scheduled callback.
type Task interface {
	// Stop prevents the callback from running if it has not started. It
	// reports whether the call stopped the task.
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Task
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func()) Task

// Schedule calls f.
func (f SchedulerFunc) Schedule(d time.Duration, fn func()) Task {
	return f(d, fn)
}

type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}
