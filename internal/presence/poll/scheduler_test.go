package poll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
)

// scriptedFetcher replays a fixed sequence of outcomes; past the end it keeps
// returning the last one.
type scriptedFetcher struct {
	mu       sync.Mutex
	outcomes []domain.Outcome
	calls    int
}

func (f *scriptedFetcher) Fetch(ctx context.Context) domain.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.outcomes) {
		i = len(f.outcomes) - 1
	}
	f.calls++
	return f.outcomes[i]
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordSink struct {
	mu       sync.Mutex
	rendered []*domain.Presence
}

func (s *recordSink) Render(ctx context.Context, p *domain.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = append(s.rendered, p)
	return nil
}

func (s *recordSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rendered)
}

type fakeTimer struct {
	d time.Duration
	c chan time.Time
}

func (t *fakeTimer) C() <-chan time.Time { return t.c }
func (t *fakeTimer) Stop() bool          { return true }

// fakeClock hands armed timers to the test, which asserts the requested
// delay and fires them manually.
type fakeClock struct {
	timers chan *fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{timers: make(chan *fakeTimer, 32)}
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	t := &fakeTimer{d: d, c: make(chan time.Time, 1)}
	c.timers <- t
	return t
}

func nextTimer(t *testing.T, clock *fakeClock) *fakeTimer {
	t.Helper()
	select {
	case timer := <-clock.timers:
		return timer
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduler to arm a timer")
		return nil
	}
}

func fire(timer *fakeTimer) {
	timer.c <- time.Now()
}

func waitDone(t *testing.T, s *Scheduler) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduler to finish")
	}
}

func onlineSuccess() domain.Outcome {
	return domain.Success(&domain.Presence{
		OnlineState: domain.StateOnline,
		FetchedAt:   time.Now().UTC(),
	})
}

func TestScheduler_FastRetriesThenSuccess(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []domain.Outcome{
		domain.HardFailure("timeout"),
		domain.HardFailure("timeout"),
		domain.HardFailure("timeout"),
		domain.HardFailure("timeout"),
		domain.HardFailure("timeout"),
		onlineSuccess(),
	}}
	sink := &recordSink{}
	clock := newFakeClock()

	s := NewScheduler(DefaultConfig(), fetcher, sink, clock, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	// Five failed probes, one second apart.
	for i := 0; i < 5; i++ {
		timer := nextTimer(t, clock)
		if timer.d != time.Second {
			t.Errorf("retry %d delay = %v, want 1s", i+1, timer.d)
		}
		fire(timer)
	}

	// Sixth attempt succeeds and arms the steady refresh.
	steady := nextTimer(t, clock)
	if steady.d != 120*time.Second {
		t.Errorf("steady delay = %v, want 120s", steady.d)
	}

	if sink.Count() != 1 {
		t.Errorf("sink renders = %d, want 1", sink.Count())
	}

	st := s.Status()
	if st.Mode != ModeSteady {
		t.Errorf("mode = %s, want steady", st.Mode)
	}
	if st.RetryCount != 0 {
		t.Errorf("retryCount = %d, want 0", st.RetryCount)
	}
}

func TestScheduler_GivesUpAfterRetryBudget(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []domain.Outcome{
		domain.HardFailure("http 502"),
	}}
	sink := &recordSink{}
	clock := newFakeClock()

	s := NewScheduler(DefaultConfig(), fetcher, sink, clock, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	wantDelays := []time.Duration{
		time.Second, time.Second, time.Second, time.Second, time.Second,
		10 * time.Second, 20 * time.Second,
		30 * time.Second, 30 * time.Second, 30 * time.Second,
	}
	for i, want := range wantDelays {
		timer := nextTimer(t, clock)
		if timer.d != want {
			t.Errorf("retry %d delay = %v, want %v", i+1, timer.d, want)
		}
		fire(timer)
	}

	// The failure that arrives with the budget spent is terminal.
	waitDone(t, s)

	select {
	case timer := <-clock.timers:
		t.Errorf("scheduler armed a timer of %v after giving up", timer.d)
	default:
	}

	st := s.Status()
	if st.Mode != ModeGivenUp {
		t.Errorf("mode = %s, want given_up", st.Mode)
	}
	if st.RetryCount != 10 {
		t.Errorf("retryCount = %d, want 10", st.RetryCount)
	}
	if fetcher.Calls() != 11 {
		t.Errorf("fetch calls = %d, want 11 (initial + 10 retries)", fetcher.Calls())
	}
	if sink.Count() != 0 {
		t.Errorf("sink renders = %d, want 0", sink.Count())
	}
}

func TestScheduler_SteadyFailureFallsBackToRetrying(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []domain.Outcome{
		onlineSuccess(),
		domain.SoftFailure("upstream loading"),
		onlineSuccess(),
	}}
	sink := &recordSink{}
	clock := newFakeClock()

	s := NewScheduler(DefaultConfig(), fetcher, sink, clock, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	// First attempt succeeds straight away.
	steady := nextTimer(t, clock)
	if steady.d != 120*time.Second {
		t.Fatalf("steady delay = %v, want 120s", steady.d)
	}
	fire(steady)

	// The steady tick fails: back to retry number one, not another 120s wait.
	retry := nextTimer(t, clock)
	if retry.d != time.Second {
		t.Errorf("fallback delay = %v, want 1s", retry.d)
	}
	if st := s.Status(); st.Mode != ModeRetrying || st.RetryCount != 1 {
		t.Errorf("state = %s/%d, want retrying/1", st.Mode, st.RetryCount)
	}
	fire(retry)

	// Recovery re-arms the steady refresh and resets the count.
	steady = nextTimer(t, clock)
	if steady.d != 120*time.Second {
		t.Errorf("steady delay after recovery = %v, want 120s", steady.d)
	}
	if st := s.Status(); st.Mode != ModeSteady || st.RetryCount != 0 {
		t.Errorf("state = %s/%d, want steady/0", st.Mode, st.RetryCount)
	}
	if sink.Count() != 2 {
		t.Errorf("sink renders = %d, want 2", sink.Count())
	}
}

func TestScheduler_SuccessResetsRetryCount(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []domain.Outcome{
		domain.HardFailure("timeout"),
		domain.SoftFailure("no player data"),
		domain.HardFailure("invalid json"),
		onlineSuccess(),
	}}
	sink := &recordSink{}
	clock := newFakeClock()

	s := NewScheduler(DefaultConfig(), fetcher, sink, clock, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	// Soft and hard failures drive the same backoff table.
	for i := 0; i < 3; i++ {
		timer := nextTimer(t, clock)
		if timer.d != time.Second {
			t.Errorf("retry %d delay = %v, want 1s", i+1, timer.d)
		}
		fire(timer)
	}

	nextTimer(t, clock) // steady refresh

	st := s.Status()
	if st.RetryCount != 0 {
		t.Errorf("retryCount = %d, want 0 after success", st.RetryCount)
	}
	if st.Mode != ModeSteady {
		t.Errorf("mode = %s, want steady", st.Mode)
	}
	if st.LastFailure != "" {
		t.Errorf("lastFailure = %q, want empty after success", st.LastFailure)
	}
}

func TestScheduler_StopHaltsLoop(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []domain.Outcome{onlineSuccess()}}
	sink := &recordSink{}
	clock := newFakeClock()

	s := NewScheduler(DefaultConfig(), fetcher, sink, clock, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	nextTimer(t, clock) // steady timer armed after first success
	s.Stop()
	waitDone(t, s)

	if fetcher.Calls() != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.Calls())
	}
}

func TestScheduler_StartWhileRunningFails(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []domain.Outcome{onlineSuccess()}}
	clock := newFakeClock()

	s := NewScheduler(DefaultConfig(), fetcher, &recordSink{}, clock, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	nextTimer(t, clock)

	if err := s.Start(context.Background()); err == nil {
		t.Error("second Start succeeded, want error")
	}
}

func TestScheduler_RestartResetsGivenUp(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []domain.Outcome{
		domain.HardFailure("timeout"),
	}}
	clock := newFakeClock()

	cfg := Config{SteadyInterval: 120 * time.Second, MaxRetries: 2}
	s := NewScheduler(cfg, fetcher, &recordSink{}, clock, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	fire(nextTimer(t, clock))
	fire(nextTimer(t, clock))
	waitDone(t, s)

	if st := s.Status(); st.Mode != ModeGivenUp {
		t.Fatalf("mode = %s, want given_up", st.Mode)
	}

	// Restart is the external reset out of the terminal state.
	fetcher.mu.Lock()
	fetcher.outcomes = []domain.Outcome{onlineSuccess()}
	fetcher.calls = 0
	fetcher.mu.Unlock()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	defer s.Stop()

	nextTimer(t, clock)
	if st := s.Status(); st.Mode != ModeSteady {
		t.Errorf("mode after restart = %s, want steady", st.Mode)
	}
}
