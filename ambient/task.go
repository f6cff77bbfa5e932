package ambient

import (
	"sync"
	"time"
)

// Task runs a function repeatedly on a Clock. Each run is scheduled from the
// end of the previous one, after a delay returned by next, so runs never
// overlap.
type Task struct {
	clock Clock
	next  func() time.Duration
	fn    func()

	mu        sync.Mutex
	timer     Timer
	cancelled bool
	runs      int
}

// Repeat runs fn once immediately and then keeps rescheduling it until the
// task is cancelled. fn must not call Cancel on its own task.
func Repeat(clock Clock, next func() time.Duration, fn func()) *Task {
	t := &Task{clock: clock, next: next, fn: fn}
	t.run()
	return t
}

func (t *Task) run() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.fn()
	t.runs++
	t.timer = t.clock.AfterFunc(t.next(), t.run)
}

// Cancel stops the task. It waits for a run in progress to finish; once it
// returns fn will not be called again. Cancelling twice is a no-op.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Runs returns how many times fn has run.
func (t *Task) Runs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs
}
