package poll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
	"github.com/marcusziade/compiledthoughts/internal/status/metrics"
)

// Mode is the scheduler's lifecycle state.
type Mode string

const (
	// ModeRetrying means the last attempt failed and a backoff timer is armed.
	ModeRetrying Mode = "retrying"
	// ModeSteady means the last attempt succeeded and the periodic refresh
	// timer is armed.
	ModeSteady Mode = "steady"
	// ModeGivenUp means the retry budget is exhausted. Terminal until the
	// scheduler is started again.
	ModeGivenUp Mode = "given_up"
)

// Fetcher performs one poll attempt and reports its outcome.
type Fetcher interface {
	Fetch(ctx context.Context) domain.Outcome
}

// Sink receives presence snapshots on successful polls. Implementations must
// tolerate repeated delivery of fresh snapshots (wholesale replace, no diffing).
type Sink interface {
	Render(ctx context.Context, p *domain.Presence) error
}

// Config holds scheduler tuning.
type Config struct {
	// SteadyInterval is the refresh period while polls keep succeeding.
	SteadyInterval time.Duration
	// MaxRetries is the consecutive-failure budget before giving up.
	MaxRetries int
}

// DefaultConfig is a two minute steady refresh with a budget of ten retries.
func DefaultConfig() Config {
	return Config{
		SteadyInterval: 120 * time.Second,
		MaxRetries:     10,
	}
}

// Status is a point-in-time view of the scheduler for health reporting.
type Status struct {
	Mode          Mode      `json:"mode"`
	RetryCount    int       `json:"retryCount"`
	Attempts      uint64    `json:"attempts"`
	LastSuccessAt time.Time `json:"lastSuccessAt,omitzero"`
	LastFailure   string    `json:"lastFailure,omitempty"`
}

// Scheduler drives the poll loop: fetch, hand successes to the sink, and
// decide the next delay. Attempts are strictly serialized; exactly one timer
// is pending between attempts, and it is the loop's own wait.
type Scheduler struct {
	cfg     Config
	fetcher Fetcher
	sink    Sink
	clock   Clock
	log     *slog.Logger

	running atomic.Bool
	stop    chan struct{}
	done    chan struct{}

	mu            sync.RWMutex
	mode          Mode
	retryCount    int
	attempts      uint64
	lastSuccessAt time.Time
	lastFailure   string
}

// NewScheduler creates a scheduler. A nil clock selects the real clock and a
// nil logger falls back to slog.Default.
func NewScheduler(cfg Config, fetcher Fetcher, sink Sink, clock Clock, log *slog.Logger) *Scheduler {
	if clock == nil {
		clock = NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.SteadyInterval <= 0 {
		cfg.SteadyInterval = DefaultConfig().SteadyInterval
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	return &Scheduler{
		cfg:     cfg,
		fetcher: fetcher,
		sink:    sink,
		clock:   clock,
		log:     log,
		mode:    ModeRetrying,
	}
}

// Start launches the poll loop. The first fetch happens immediately with no
// initial delay. Starting an already running scheduler is an error; starting
// a stopped or given-up one resets its state, which is the only way out of
// ModeGivenUp.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scheduler already running")
	}

	s.mu.Lock()
	s.mode = ModeRetrying
	s.retryCount = 0
	s.lastFailure = ""
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go s.run(ctx, stop, done)
	return nil
}

// Stop halts the loop. It does not cancel an in-flight fetch; the fetch
// timeout is the only bound on one.
func (s *Scheduler) Stop() {
	if s.running.CompareAndSwap(true, false) {
		s.mu.RLock()
		stop := s.stop
		s.mu.RUnlock()
		close(stop)
	}
}

// Done is closed when the poll loop exits, either by Stop, context
// cancellation, or giving up.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Mode:          s.mode,
		RetryCount:    s.retryCount,
		Attempts:      s.attempts,
		LastSuccessAt: s.lastSuccessAt,
		LastFailure:   s.lastFailure,
	}
}

func (s *Scheduler) run(ctx context.Context, stop chan struct{}, done chan struct{}) {
	defer close(done)
	defer s.running.Store(false)

	for {
		outcome := s.attempt(ctx)
		if ctx.Err() != nil {
			return
		}

		delay, ok := s.transition(outcome)
		if !ok {
			s.log.Warn("presence polling gave up",
				"maxRetries", s.cfg.MaxRetries,
				"lastFailure", outcome.Reason,
			)
			return
		}

		metrics.BackoffDelay.Observe(delay.Seconds())

		timer := s.clock.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-stop:
			timer.Stop()
			return
		case <-timer.C():
		}
	}
}

// attempt performs one fetch and delivers a success to the sink.
func (s *Scheduler) attempt(ctx context.Context) domain.Outcome {
	attemptID := uuid.NewString()

	outcome := s.fetcher.Fetch(ctx)
	metrics.PollAttempts.WithLabelValues(outcome.Kind.String()).Inc()

	switch outcome.Kind {
	case domain.OutcomeSuccess:
		if err := s.sink.Render(ctx, outcome.Presence); err != nil {
			s.log.Warn("render sink failed", "attempt", attemptID, "error", err)
		}
		s.log.Debug("presence updated",
			"attempt", attemptID,
			"state", outcome.Presence.OnlineState,
		)
	case domain.OutcomeSoftFailure:
		s.log.Info("presence not ready", "attempt", attemptID, "reason", outcome.Reason)
	case domain.OutcomeHardFailure:
		s.log.Warn("presence fetch failed", "attempt", attemptID, "reason", outcome.Reason)
	}

	return outcome
}

// transition applies the state machine to the latest outcome and returns the
// next delay. ok is false when the retry budget is exhausted.
//
// Success from any mode resets the failure count and arms the steady refresh.
// A failure during steady mode falls back to retry number one; steady mode is
// not sticky through failures. A failure arriving with the budget already
// spent is terminal.
func (s *Scheduler) transition(o domain.Outcome) (delay time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts++

	if o.Kind == domain.OutcomeSuccess {
		s.retryCount = 0
		s.mode = ModeSteady
		s.lastSuccessAt = o.Presence.FetchedAt
		s.lastFailure = ""
		metrics.RetryCount.Set(0)
		metrics.LastSuccessTimestamp.Set(float64(o.Presence.FetchedAt.Unix()))
		return s.cfg.SteadyInterval, true
	}

	s.lastFailure = o.Reason

	if s.retryCount >= s.cfg.MaxRetries {
		s.mode = ModeGivenUp
		return 0, false
	}

	s.retryCount++
	s.mode = ModeRetrying
	metrics.RetryCount.Set(float64(s.retryCount))
	return Delay(s.retryCount), true
}
