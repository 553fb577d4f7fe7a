package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wheelibin/homesync/internal/config"
)

type State int

const (
	StateActive State = iota
	StateIdle1Min
	StateIdle5Min
	StateIdle10Min
	StateSuspended
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateIdle1Min:
		return "idle-1min"
	case StateIdle5Min:
		return "idle-5min"
	case StateIdle10Min:
		return "idle-10min"
	case StateSuspended:
		return "suspended"
	}
	return "unknown"
}

type reconciler interface {
	Reconcile(isRetry bool, silent bool)
}

type sweeper interface {
	RunSatisfactionSweep()
}

// Scheduler drives background polling and adapts the interval to user
// activity and page visibility. There is no push channel from the gateway:
// naive fixed-interval polling either wastes bandwidth when idle or feels
// sluggish when active, so the interval relaxes with idle time and an
// activity event always forces an immediate fetch before tightening again.
type Scheduler struct {
	logger  *log.Logger
	cfg     config.PollConfig
	fetcher reconciler
	climate sweeper

	mu           sync.Mutex
	state        State
	interval     time.Duration
	lastActivity time.Time
	ticker       *time.Ticker

	activityCh   chan struct{}
	visibilityCh chan bool
}

func NewScheduler(logger *log.Logger, cfg config.PollConfig, fetcher reconciler, climate sweeper) *Scheduler {
	return &Scheduler{
		logger:       logger,
		cfg:          cfg,
		fetcher:      fetcher,
		climate:      climate,
		state:        StateActive,
		interval:     cfg.ActiveInterval,
		lastActivity: time.Now(),
		activityCh:   make(chan struct{}, 1),
		visibilityCh: make(chan bool, 1),
	}
}

// StateForIdle maps an idle duration onto a poll state.
func StateForIdle(cfg config.PollConfig, idle time.Duration) State {
	switch {
	case idle >= cfg.Idle10MinAfter:
		return StateIdle10Min
	case idle >= cfg.Idle5MinAfter:
		return StateIdle5Min
	case idle >= cfg.Idle1MinAfter:
		return StateIdle1Min
	}
	return StateActive
}

// IntervalForState returns the poll interval for a state. Suspended has no
// interval at all; callers must stop the timer instead.
func IntervalForState(cfg config.PollConfig, state State) time.Duration {
	switch state {
	case StateIdle1Min:
		return cfg.Idle1MinInterval
	case StateIdle5Min:
		return cfg.Idle5MinInterval
	case StateIdle10Min:
		return cfg.Idle10MinInterval
	}
	return cfg.ActiveInterval
}

// NotifyActivity records a user-interaction event. It never blocks the
// caller: when the run loop is busy the event is dropped, which is fine
// because activity events are only meaningful as edges.
func (s *Scheduler) NotifyActivity() {
	select {
	case s.activityCh <- struct{}{}:
	default:
	}
}

// SetVisible reports a page-visibility transition.
func (s *Scheduler) SetVisible(visible bool) {
	select {
	case s.visibilityCh <- visible:
	default:
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Run is the scheduler's event loop. Every main tick performs a silent
// reconciliation followed by the floor-heat satisfaction sweep; a secondary
// fixed-cadence check relaxes the interval as idle time accumulates.
func (s *Scheduler) Run(ctx context.Context) {

	s.mu.Lock()
	s.lastActivity = time.Now()
	s.ticker = time.NewTicker(s.interval)
	s.mu.Unlock()
	defer s.ticker.Stop()

	idleTicker := time.NewTicker(s.cfg.IdleCheckInterval)
	defer idleTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping")
			return

		case <-s.ticker.C:
			if s.State() == StateSuspended {
				continue
			}
			go func() {
				s.fetcher.Reconcile(false, true)
				s.climate.RunSatisfactionSweep()
			}()

		case <-idleTicker.C:
			s.CheckIdle(time.Now())

		case <-s.activityCh:
			s.HandleActivity(time.Now())

		case visible := <-s.visibilityCh:
			s.HandleVisibility(visible)
		}
	}
}

// HandleActivity processes a user-interaction event: if the user had been
// idle past the first threshold, fetch immediately so they never look at
// stale data, then tighten back to the active interval.
func (s *Scheduler) HandleActivity(now time.Time) {
	s.mu.Lock()
	if s.state == StateSuspended {
		// visibility governs resumption, not stray input events
		s.mu.Unlock()
		return
	}
	idle := now.Sub(s.lastActivity)
	s.lastActivity = now
	s.mu.Unlock()

	if idle >= s.cfg.Idle1MinAfter {
		s.logger.Debug("activity after idle period, fetching immediately", "idle", idle)
		s.fetcher.Reconcile(false, true)
	}

	s.setState(StateActive)
}

// CheckIdle recomputes the poll state from elapsed idle time, restarting the
// main timer only when the interval actually changed.
func (s *Scheduler) CheckIdle(now time.Time) {
	s.mu.Lock()
	if s.state == StateSuspended {
		s.mu.Unlock()
		return
	}
	idle := now.Sub(s.lastActivity)
	s.mu.Unlock()

	s.setState(StateForIdle(s.cfg, idle))
}

// HandleVisibility suspends polling entirely while the page is hidden and
// resumes with an immediate fetch when it becomes visible again.
func (s *Scheduler) HandleVisibility(visible bool) {

	if !visible {
		s.mu.Lock()
		s.state = StateSuspended
		if s.ticker != nil {
			s.ticker.Stop()
		}
		s.mu.Unlock()
		s.logger.Debug("page hidden, polling suspended")
		return
	}

	s.logger.Debug("page visible, resuming polling")
	s.fetcher.Reconcile(false, true)

	s.mu.Lock()
	s.state = StateActive
	s.interval = s.cfg.ActiveInterval
	s.lastActivity = time.Now()
	if s.ticker != nil {
		s.ticker.Reset(s.interval)
	}
	s.mu.Unlock()
}

func (s *Scheduler) setState(state State) {
	newInterval := IntervalForState(s.cfg, state)

	s.mu.Lock()
	defer s.mu.Unlock()

	if state == s.state && newInterval == s.interval {
		return
	}

	s.logger.Debug("poll state change", "from", s.state, "to", state, "interval", newInterval)
	s.state = state

	if newInterval != s.interval {
		s.interval = newInterval
		// the single reschedule point, avoids timer churn elsewhere
		if s.ticker != nil {
			s.ticker.Reset(newInterval)
		}
	}
}
