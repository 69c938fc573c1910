package navline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dshills/vnav/internal/loop"
)

// ErrNilScheduler is returned by New when no scheduler is given.
var ErrNilScheduler = errors.New("navline: scheduler cannot be nil")

// SelectionSignal reports selection changes made by any means.
type SelectionSignal interface {
	// Listen registers fn to be called on every selection change.
	// The returned stop function unregisters it.
	Listen(fn func()) (stop func(), err error)
}

// State is the goal-column cell for one editing surface.
type State struct {
	mu sync.Mutex

	x    int
	hasX bool

	locked  bool
	pending loop.Task
	gen     uint64

	sched  loop.Scheduler
	stop   func()
	logger *slog.Logger
}

// Option configures a State.
type Option func(*options)

type options struct {
	signal SelectionSignal
	logger *slog.Logger
}

// WithSelectionSignal makes the State forget its goal x whenever the signal
// fires outside a guarded call.
func WithSelectionSignal(sig SelectionSignal) Option {
	return func(o *options) {
		o.signal = sig
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a State with no goal x, unlocked.
// Unlock tasks are deferred through sched.
func New(sched loop.Scheduler, opts ...Option) (*State, error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}

	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &State{
		sched:  sched,
		logger: o.logger,
	}

	if o.signal != nil {
		stop, err := o.signal.Listen(s.onSelectionChange)
		if err != nil {
			return nil, fmt.Errorf("listening for selection changes: %w", err)
		}
		s.stop = stop
	}

	return s, nil
}

// Close stops listening for selection changes. A pending unlock still fires.
func (s *State) Close() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// X returns the goal x and whether one is remembered.
func (s *State) X() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.hasX
}

// SetX remembers x as the goal. Any value is accepted.
func (s *State) SetX(x int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x = x
	s.hasX = true
}

// ResetX forgets the goal x.
func (s *State) ResetX() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x = 0
	s.hasX = false
}

// IsLocked reports whether a guarded call's unlock is still pending.
func (s *State) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// onSelectionChange is the SelectionSignal listener.
func (s *State) onSelectionChange() {
	s.mu.Lock()
	if s.locked {
		s.mu.Unlock()
		return
	}
	had := s.hasX
	s.x = 0
	s.hasX = false
	s.mu.Unlock()

	if had {
		s.logger.Debug("goal column cleared by selection change")
	}
}

func (s *State) acquire() {
	s.mu.Lock()
	s.locked = true
	s.mu.Unlock()
}

// release replaces any scheduled unlock with a new one on the next turn.
// The scheduler must not run the callback before Defer returns.
func (s *State) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}

	s.gen++
	gen := s.gen
	s.pending = s.sched.Defer(func() { s.unlock(gen) })
}

func (s *State) unlock(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Superseded by a later release.
	if gen != s.gen {
		return
	}
	s.locked = false
	s.pending = nil
}
