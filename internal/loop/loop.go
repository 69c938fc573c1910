package loop

import (
	"context"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Loop is a FIFO task queue drained by a single goroutine.
// Post, Defer, Stop, Len and Stats are safe to call from any goroutine.
// RunPending and Run must not be used at the same time.
type Loop struct {
	mu    sync.Mutex
	queue []*task
	limit int

	wake     chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
	running  atomic.Bool

	logger *slog.Logger

	// Stats
	posted    atomic.Uint64
	executed  atomic.Uint64
	cancelled atomic.Uint64
	panicked  atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used to report task panics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithQueueLimit bounds the number of tasks Post will accept.
// Deferred tasks are never rejected. A limit of zero means unbounded.
func WithQueueLimit(n int) Option {
	return func(l *Loop) {
		if n >= 0 {
			l.limit = n
		}
	}
}

// New creates a loop. The loop does not start a goroutine until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn to run on a later turn.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}
	if l.stopped.Load() {
		return ErrLoopStopped
	}

	l.mu.Lock()
	if l.limit > 0 && len(l.queue) >= l.limit {
		l.mu.Unlock()
		return ErrQueueFull
	}
	l.queue = append(l.queue, newTask(l, fn))
	l.mu.Unlock()

	l.posted.Add(1)
	l.signal()
	return nil
}

// Defer queues fn to run once the current turn has finished and returns a
// handle that can cancel it. On a stopped loop the returned task is already
// cancelled.
func (l *Loop) Defer(fn func()) Task {
	t := newTask(l, fn)
	if fn == nil || l.stopped.Load() {
		t.state.Store(taskCancelled)
		return t
	}

	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	l.posted.Add(1)
	l.signal()
	return t
}

// RunPending runs one turn on the calling goroutine: the tasks queued when
// the call began, in order. Cancelled tasks are skipped. Returns the number
// of tasks that ran.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	ran := 0
	for _, t := range batch {
		if l.stopped.Load() {
			break
		}
		if l.execute(t) {
			ran++
		}
	}
	return ran
}

// Run drives turns until Stop is called or ctx is cancelled.
// Returns nil after Stop and ctx.Err() on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopCh:
			return nil
		default:
		}

		l.RunPending()

		if l.Len() > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopCh:
			return nil
		case <-l.wake:
		}
	}
}

// Stop stops the loop. Queued tasks are dropped and later Post calls fail.
// Stop is idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.stopCh)

		l.mu.Lock()
		l.queue = nil
		l.mu.Unlock()
	})
}

// Stopped returns a channel closed by Stop.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopCh
}

// IsRunning returns true while Run is driving the loop.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Len returns the number of queued tasks, including cancelled ones not yet skipped.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Stats contains loop counters.
type Stats struct {
	Posted    uint64
	Executed  uint64
	Cancelled uint64
	Panicked  uint64
	Pending   int
}

// Stats returns a snapshot of the loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Posted:    l.posted.Load(),
		Executed:  l.executed.Load(),
		Cancelled: l.cancelled.Load(),
		Panicked:  l.panicked.Load(),
		Pending:   l.Len(),
	}
}

// execute runs a single task with panic recovery.
func (l *Loop) execute(t *task) (ran bool) {
	if !t.claim() {
		return false
	}
	l.executed.Add(1)
	ran = true

	defer func() {
		t.finish()
		if r := recover(); r != nil {
			l.panicked.Add(1)
			l.logger.Error("loop task panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	t.fn()
	return ran
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

var _ Scheduler = (*Loop)(nil)
