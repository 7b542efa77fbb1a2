// Package timer implements the per-recipe countdown shown in the details view.
package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the countdown lifecycle position.
type State int

const (
	// StateIdle is both the initial state and the state reached when the
	// countdown hits zero or is reset.
	StateIdle State = iota
	// StateRunning means a decrement loop is active.
	StateRunning
	// StatePaused means a countdown was stopped before reaching zero.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Option configures a Timer.
type Option func(*Timer)

// WithTick sets the decrement interval. Defaults to one second.
func WithTick(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.tick = d
		}
	}
}

// WithLogger sets the logger used for lifecycle debug output.
func WithLogger(log *slog.Logger) Option {
	return func(t *Timer) {
		if log != nil {
			t.log = log
		}
	}
}

// WithObserver registers a callback invoked from the countdown goroutine
// after every decrement with the new remaining value. The callback must not
// call Pause, Reset or Close on the same timer.
func WithObserver(fn func(remaining int)) Option {
	return func(t *Timer) {
		t.observer = fn
	}
}

// Snapshot is a point-in-time view of the timer for rendering.
type Snapshot struct {
	Remaining   int
	State       State
	Initialized bool
}

// Timer is a single countdown. At most one decrement loop is alive at a time;
// every loop carries a generation number and only the current generation may
// mutate the remaining value.
type Timer struct {
	parent   context.Context
	tick     time.Duration
	log      *slog.Logger
	observer func(int)

	mu          sync.Mutex
	remaining   int
	initialized bool
	state       State
	closed      bool
	gen         uint64
	cancel      context.CancelFunc
	done        chan struct{}
}

// New creates an idle timer whose countdown goroutines are scoped to ctx.
func New(ctx context.Context, opts ...Option) *Timer {
	if ctx == nil {
		ctx = context.Background()
	}
	t := &Timer{
		parent: ctx,
		tick:   time.Second,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init seeds the remaining time the first time it is called. Later calls are
// no-ops, so re-entering a view does not re-seed a countdown in progress.
func (t *Timer) Init(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return
	}
	t.remaining = clamp(seconds)
	t.initialized = true
}

// Start begins counting down when the timer is not already running and has
// time left.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.state == StateRunning || t.remaining <= 0 {
		return
	}

	t.gen++
	ctx, cancel := context.WithCancel(t.parent)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.state = StateRunning

	t.log.Debug("timer started", "remaining", t.remaining, "generation", t.gen)
	go t.run(ctx, t.gen, done)
}

// Resume continues a paused countdown. It only proceeds while time remains.
func (t *Timer) Resume() {
	t.Start()
}

// Pause halts the countdown. Calling it on a timer that is not running only
// clears the running flag.
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.state == StateRunning {
		t.state = StatePaused
	}
	cancel, done := t.detachLocked()
	t.mu.Unlock()

	wait(cancel, done)
}

// Reset cancels any active countdown, waits for its goroutine to exit and
// only then sets the remaining time to value.
func (t *Timer) Reset(value int) {
	for {
		t.mu.Lock()
		cancel, done := t.detachLocked()
		if cancel == nil {
			t.remaining = clamp(value)
			t.initialized = true
			t.state = StateIdle
			t.mu.Unlock()
			t.log.Debug("timer reset", "remaining", value)
			return
		}
		t.mu.Unlock()
		wait(cancel, done)
	}
}

// Close stops the countdown for good. Used when the owning view goes away.
func (t *Timer) Close() {
	t.mu.Lock()
	t.closed = true
	if t.state == StateRunning {
		t.state = StatePaused
	}
	cancel, done := t.detachLocked()
	t.mu.Unlock()

	wait(cancel, done)
}

// Remaining returns the seconds left.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether a countdown loop is active.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateRunning
}

// State returns the current lifecycle state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Snapshot returns the current values in one read.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{Remaining: t.remaining, State: t.state, Initialized: t.initialized}
}

func (t *Timer) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.abandon(gen)
			return
		case <-ticker.C:
			remaining, ok := t.decrement(gen)
			if !ok {
				return
			}
			if t.observer != nil {
				t.observer(remaining)
			}
			if remaining == 0 {
				t.log.Debug("timer finished", "generation", gen)
				return
			}
		}
	}
}

// decrement removes one second if gen is still the live loop. The bool is
// false when the loop has been superseded and must exit without touching state.
func (t *Timer) decrement(gen uint64) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.state != StateRunning {
		return t.remaining, false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.state = StateIdle
		if t.cancel != nil {
			t.cancel()
		}
		t.cancel = nil
		t.done = nil
	}
	return t.remaining, true
}

// abandon handles the parent context going away underneath a live loop.
func (t *Timer) abandon(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.state != StateRunning {
		return
	}
	t.state = StatePaused
	t.cancel = nil
	t.done = nil
}

// detachLocked invalidates the live loop (if any) and hands back what the
// caller needs to cancel and await it outside the lock.
func (t *Timer) detachLocked() (context.CancelFunc, chan struct{}) {
	t.gen++
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.done = nil
	if t.state == StateRunning {
		t.state = StatePaused
	}
	return cancel, done
}

func wait(cancel context.CancelFunc, done chan struct{}) {
	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}

func clamp(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return seconds
}
