package dispatch

import (
	"sync"
	"time"
)

// Task is a unit of deferred work carrying its absolute fire time, so
// pending work is inspectable and cancellable as a unit instead of being
// buried in timer-callback closures.
type Task struct {
	FireAt time.Time

	once  sync.Once
	timer *time.Timer
}

// Schedule runs fn at the given absolute time. Times in the past run
// immediately (still asynchronously).
func Schedule(at time.Time, fn func()) *Task {
	t := &Task{FireAt: at}
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	t.timer = time.AfterFunc(delay, func() {
		t.once.Do(fn)
	})
	return t
}

// Cancel stops the task if it has not run yet.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.timer.Stop()
	t.once.Do(func() {}) // burn the once so a racing timer does nothing
}
