package loop

import "sync/atomic"

// Task is a handle to a deferred callback.
type Task interface {
	// Cancel prevents the callback from running.
	// Returns true if the call stopped a pending run, false if the task
	// already ran or was already cancelled.
	Cancel() bool

	// Done returns true once the task has run or been cancelled.
	Done() bool
}

// Scheduler defers callbacks to a later turn.
// Loop is the production implementation.
type Scheduler interface {
	Defer(fn func()) Task
}

// task states.
const (
	taskPending int32 = iota
	taskRunning
	taskFinished
	taskCancelled
)

// task is a queued unit of work.
type task struct {
	fn    func()
	state atomic.Int32
	loop  *Loop
}

func newTask(l *Loop, fn func()) *task {
	return &task{fn: fn, loop: l}
}

// Cancel implements Task.
func (t *task) Cancel() bool {
	if !t.state.CompareAndSwap(taskPending, taskCancelled) {
		return false
	}
	if t.loop != nil {
		t.loop.cancelled.Add(1)
	}
	return true
}

// Done implements Task.
func (t *task) Done() bool {
	s := t.state.Load()
	return s == taskFinished || s == taskCancelled
}

// claim marks the task as running. Returns false if it was cancelled.
func (t *task) claim() bool {
	return t.state.CompareAndSwap(taskPending, taskRunning)
}

func (t *task) finish() {
	t.state.Store(taskFinished)
}
