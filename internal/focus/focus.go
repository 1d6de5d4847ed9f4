// Package focus implements the focus timer: blocking while it runs and
// recording a study session when it completes.
package focus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/runnerr0/focusguard/internal/storage"
)

// State is the timer state.
type State int

const (
	Idle State = iota
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when an operation does not apply to
// the current state.
var ErrInvalidTransition = errors.New("invalid timer transition")

// Blocker is the part of the hosts-file manager the timer drives.
type Blocker interface {
	Apply(ctx context.Context, sites []string) error
	Remove(ctx context.Context) error
}

// Recorder stores finished sessions.
type Recorder interface {
	RecordStudySession(ctx context.Context, in storage.SessionInput) (int64, error)
}

// Config describes one focus run.
type Config struct {
	UserID   int64
	Sites    []string
	Duration time.Duration
	Subject  string
	Notes    string

	Blocker  Blocker  // nil disables blocking
	Recorder Recorder // nil disables recording
	Logger   *slog.Logger
	Now      func() time.Time

	// OnBlockChange is called after blocking is applied (true) or
	// removed (false).
	OnBlockChange func(active bool)
}

// Result describes a finished run.
type Result struct {
	Minutes   int
	SessionID int64
	Recorded  bool
}

// Controller is the timer state machine. It is safe for concurrent use.
type Controller struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	// ioMu serialises hosts-file changes and guards blocking. It is
	// never acquired while mu is held.
	ioMu     sync.Mutex
	blocking bool

	mu           sync.Mutex
	state        State
	startedAt    time.Time
	segmentStart time.Time
	elapsed      time.Duration
	rating       *int
	distractions int
	result       *Result
}

// New creates an idle controller.
func New(cfg Config) *Controller {
	c := &Controller{cfg: cfg, logger: cfg.Logger, now: cfg.Now}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Elapsed returns the focused time so far, pauses excluded.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedAt(c.now())
}

// Remaining returns the time left, never negative.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.cfg.Duration - c.elapsedAt(c.now()); r > 0 {
		return r
	}
	return 0
}

// Result returns the outcome once the timer has finished.
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// SetRating sets the focus rating recorded with the session.
func (c *Controller) SetRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("focus rating must be between 1 and 5, got %d", rating)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rating = &rating
	return nil
}

// AddDistraction counts one distraction against the session.
func (c *Controller) AddDistraction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distractions++
}

func (c *Controller) elapsedAt(now time.Time) time.Duration {
	if c.state == Running {
		return c.elapsed + now.Sub(c.segmentStart)
	}
	return c.elapsed
}

// Start begins the run and applies blocking.
func (c *Controller) Start(ctx context.Context) error {
	err := c.transition(func() error {
		if c.state != Idle && c.state != Finished {
			return fmt.Errorf("%w: start while %s", ErrInvalidTransition, c.state)
		}
		if c.cfg.Duration <= 0 {
			return fmt.Errorf("duration must be positive")
		}

		now := c.now()
		c.state = Running
		c.startedAt = now
		c.segmentStart = now
		c.elapsed = 0
		c.distractions = 0
		c.result = nil
		c.logger.Info("focus started", "duration", c.cfg.Duration, "sites", len(c.cfg.Sites))
		return nil
	})
	if err != nil {
		return err
	}
	c.syncBlocking(ctx)
	return nil
}

// Pause stops the clock and lifts blocking.
func (c *Controller) Pause(ctx context.Context) error {
	err := c.transition(func() error {
		if c.state != Running {
			return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, c.state)
		}
		c.elapsed = c.elapsedAt(c.now())
		c.state = Paused
		c.logger.Info("focus paused", "elapsed", c.elapsed)
		return nil
	})
	if err != nil {
		return err
	}
	c.syncBlocking(ctx)
	return nil
}

// Resume restarts the clock and re-applies blocking.
func (c *Controller) Resume(ctx context.Context) error {
	err := c.transition(func() error {
		if c.state != Paused {
			return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, c.state)
		}
		c.segmentStart = c.now()
		c.state = Running
		c.logger.Info("focus resumed", "remaining", c.cfg.Duration-c.elapsed)
		return nil
	})
	if err != nil {
		return err
	}
	c.syncBlocking(ctx)
	return nil
}

// Stop abandons the run without recording it.
func (c *Controller) Stop(ctx context.Context) error {
	err := c.transition(func() error {
		if c.state != Running && c.state != Paused {
			return fmt.Errorf("%w: stop while %s", ErrInvalidTransition, c.state)
		}
		c.state = Idle
		c.elapsed = 0
		c.logger.Info("focus stopped")
		return nil
	})
	if err != nil {
		return err
	}
	c.syncBlocking(ctx)
	return nil
}

// Tick advances the timer to now. When the planned duration has elapsed
// the run finishes: blocking is removed and the session recorded.
// Neither happens under the state lock.
func (c *Controller) Tick(ctx context.Context, now time.Time) (State, error) {
	c.mu.Lock()
	if c.state != Running || c.elapsedAt(now) < c.cfg.Duration {
		state := c.state
		c.mu.Unlock()
		return state, nil
	}

	c.elapsed = c.cfg.Duration
	c.state = Finished
	res := Result{Minutes: int(c.cfg.Duration / time.Minute)}
	finished := res
	c.result = &finished
	in := storage.SessionInput{
		UserID:            c.cfg.UserID,
		StartTime:         c.startedAt,
		DurationMinutes:   res.Minutes,
		FocusRating:       c.rating,
		SubjectTag:        c.cfg.Subject,
		DistractionsCount: c.distractions,
		Notes:             c.cfg.Notes,
	}
	c.logger.Info("focus finished", "minutes", res.Minutes)
	c.mu.Unlock()

	c.syncBlocking(ctx)

	if res.Minutes < 1 || c.cfg.Recorder == nil {
		return Finished, nil
	}

	id, err := c.cfg.Recorder.RecordStudySession(ctx, in)
	if err != nil {
		return Finished, fmt.Errorf("record session: %w", err)
	}
	res.SessionID = id
	res.Recorded = true

	c.mu.Lock()
	if c.state == Finished {
		c.result = &res
	}
	c.mu.Unlock()
	return Finished, nil
}

func (c *Controller) transition(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}

// Run starts the timer and ticks it every interval until it finishes. If
// ctx is cancelled first the run is stopped without recording and the
// context error returned.
func (c *Controller) Run(ctx context.Context, interval time.Duration) (*Result, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return c.Wait(ctx, interval)
}

// Wait ticks a started timer until it finishes; see Run.
func (c *Controller) Wait(ctx context.Context, interval time.Duration) (*Result, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Cleanup must run even though ctx is done.
			cleanup := context.WithoutCancel(ctx)
			if err := c.Stop(cleanup); err != nil && !errors.Is(err, ErrInvalidTransition) {
				return nil, err
			}
			return nil, ctx.Err()
		case <-ticker.C:
			state, err := c.Tick(ctx, c.now())
			if state == Finished {
				return c.Result(), err
			}
		}
	}
}

// syncBlocking makes the hosts file follow the current state: blocked
// while running, unblocked otherwise. Failures are logged and the timer
// keeps going.
func (c *Controller) syncBlocking(ctx context.Context) {
	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	c.mu.Lock()
	want := c.state == Running
	c.mu.Unlock()

	if want {
		c.block(ctx)
	} else {
		c.unblock(ctx)
	}
}

// block and unblock require ioMu.
func (c *Controller) block(ctx context.Context) {
	if c.cfg.Blocker == nil || len(c.cfg.Sites) == 0 || c.blocking {
		return
	}
	if err := c.cfg.Blocker.Apply(ctx, c.cfg.Sites); err != nil {
		c.logger.Warn("website blocking failed", "error", err)
		return
	}
	c.blocking = true
	if c.cfg.OnBlockChange != nil {
		c.cfg.OnBlockChange(true)
	}
}

func (c *Controller) unblock(ctx context.Context) {
	if c.cfg.Blocker == nil || !c.blocking {
		return
	}
	if err := c.cfg.Blocker.Remove(ctx); err != nil {
		c.logger.Warn("website unblocking failed", "error", err)
		return
	}
	c.blocking = false
	if c.cfg.OnBlockChange != nil {
		c.cfg.OnBlockChange(false)
	}
}
