package render

import (
	"context"
	"errors"
	"testing"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
)

type stubSink struct {
	calls int
	err   error
}

func (s *stubSink) Render(ctx context.Context, p *domain.Presence) error {
	s.calls++
	return s.err
}

func TestMulti_FanOut(t *testing.T) {
	a := &stubSink{}
	b := &stubSink{}

	m := NewMulti()
	m.Add("a", a)
	m.Add("b", b)

	if err := m.Render(context.Background(), &domain.Presence{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = (%d, %d), want (1, 1)", a.calls, b.calls)
	}
}

func TestMulti_FailingChildDoesNotBlockOthers(t *testing.T) {
	failing := &stubSink{err: errors.New("redis down")}
	ok := &stubSink{}

	m := NewMulti()
	m.Add("cache", failing)
	m.Add("log", ok)

	err := m.Render(context.Background(), &domain.Presence{})
	if err == nil {
		t.Fatal("Render succeeded, want joined error")
	}
	if ok.calls != 1 {
		t.Errorf("healthy sink calls = %d, want 1", ok.calls)
	}
}

func TestSnapshot_ReplacesWholesale(t *testing.T) {
	s := NewSnapshot()

	if latest, _ := s.Latest(); latest != nil {
		t.Fatalf("Latest before render = %+v, want nil", latest)
	}

	first := &domain.Presence{OnlineState: domain.StateOnline}
	second := &domain.Presence{OnlineState: domain.StateAway}

	_ = s.Render(context.Background(), first)
	_ = s.Render(context.Background(), second)

	latest, at := s.Latest()
	if latest != second {
		t.Errorf("Latest = %+v, want the second snapshot", latest)
	}
	if at.IsZero() {
		t.Error("updatedAt is zero, want set")
	}
}
