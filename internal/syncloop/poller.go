package syncloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/roomcraft/roomcraft/internal/models"
)

const (
	DefaultCadence      = 3 * time.Second
	DefaultInitialDelay = 10 * time.Millisecond
)

// State of the poller
type State int

const (
	Idle State = iota
	Polling
)

func (s State) String() string {
	if s == Polling {
		return "polling"
	}
	return "idle"
}

// Fetcher reads the current layout from the store
type Fetcher interface {
	Fetch(ctx context.Context) (models.Layout, error)
}

// Timer is a pending scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Poller
type Option func(*Poller)

func WithCadence(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.cadence = d
		}
	}
}

func WithInitialDelay(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.initialDelay = d
		}
	}
}

func WithBackoff(base, maxDelay time.Duration) Option {
	return func(p *Poller) {
		p.backoff = Backoff{Base: base, Max: maxDelay}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(p *Poller) {
		p.sched = s
	}
}

// Poller periodically fetches the layout and reconciles the scene. It is
// Idle until Activate and returns to Idle on Deactivate.
type Poller struct {
	fetcher    Fetcher
	reconciler *Reconciler
	sched      Scheduler

	cadence      time.Duration
	initialDelay time.Duration

	mu      sync.Mutex
	state   State
	gen     uint64
	backoff Backoff
	timer   Timer
	ctx     context.Context
	cancel  context.CancelFunc

	// polls that succeeded after a failure streak
	recoveries int
}

func New(fetcher Fetcher, reconciler *Reconciler, opts ...Option) *Poller {
	p := &Poller{
		fetcher:      fetcher,
		reconciler:   reconciler,
		sched:        realScheduler{},
		cadence:      DefaultCadence,
		initialDelay: DefaultInitialDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Recoveries returns how many failure streaks ended in a successful poll
func (p *Poller) Recoveries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recoveries
}

// State returns the current state
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Activate starts polling. The first poll runs after the initial delay.
// Activating an already polling loop does nothing.
func (p *Poller) Activate(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Polling {
		return
	}
	p.state = Polling
	p.gen++
	p.backoff.Reset()
	p.ctx, p.cancel = context.WithCancel(ctx)

	slog.Info("Sync loop activated", "cadence", p.cadence)
	p.scheduleLocked(p.gen, p.initialDelay)
}

// Deactivate stops the pending poll and cancels any fetch in flight.
// Callbacks from the previous activation are ignored.
func (p *Poller) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Idle {
		return
	}
	p.state = Idle
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	slog.Info("Sync loop deactivated")
}

// Run polls until ctx is done
func (p *Poller) Run(ctx context.Context) {
	p.Activate(ctx)
	<-ctx.Done()
	p.Deactivate()
}

func (p *Poller) scheduleLocked(gen uint64, d time.Duration) {
	p.timer = p.sched.AfterFunc(d, func() {
		p.poll(gen)
	})
}

func (p *Poller) poll(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.state != Polling {
		p.mu.Unlock()
		return
	}
	ctx := p.ctx
	p.mu.Unlock()

	start := time.Now()
	layout, err := p.fetcher.Fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.state != Polling {
		slog.Debug("Discarding stale poll result", "generation", gen)
		return
	}

	if err != nil {
		delay := p.backoff.Next()
		slog.Warn("Layout poll failed", "err", err, "retry_in", delay)
		p.scheduleLocked(gen, delay)
		return
	}

	if p.backoff.Active() {
		slog.Info("Layout poll recovered", "generation", gen)
		p.recoveries++
	}
	p.backoff.Reset()
	if err := p.reconciler.Apply(layout); err != nil {
		if errors.Is(err, ErrUnknownReference) {
			slog.Warn("Sync cycle halted", "err", err)
		} else {
			slog.Error("Failed to reconcile scene", "err", err)
		}
	} else {
		slog.Debug("Layout reconciled", "entries", len(layout), "placed", p.reconciler.Placed(), "duration", time.Since(start))
	}
	p.scheduleLocked(gen, p.cadence)
}
