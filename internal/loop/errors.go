package loop

import "errors"

var (
	// ErrLoopStopped is returned when work is posted to a stopped loop.
	ErrLoopStopped = errors.New("loop is stopped")

	// ErrLoopRunning is returned when Run is called while the loop is already running.
	ErrLoopRunning = errors.New("loop is already running")

	// ErrQueueFull is returned when the queue limit has been reached.
	ErrQueueFull = errors.New("loop queue is full")
)
