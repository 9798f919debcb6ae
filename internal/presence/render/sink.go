package render

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
	"github.com/marcusziade/compiledthoughts/internal/status/metrics"
)

// Sink receives presence snapshots. Each successful poll delivers one fresh
// snapshot; implementations replace prior state wholesale rather than diffing.
type Sink interface {
	Render(ctx context.Context, p *domain.Presence) error
}

// Multi fans a snapshot out to named child sinks. A failing child never
// blocks the others; failures are joined and reported to the caller.
type Multi struct {
	names []string
	sinks []Sink
}

// NewMulti creates an empty fan-out sink.
func NewMulti() *Multi {
	return &Multi{}
}

// Add registers a child sink under a name used for logs and metrics.
func (m *Multi) Add(name string, s Sink) {
	m.names = append(m.names, name)
	m.sinks = append(m.sinks, s)
}

// Render delivers the snapshot to every child.
func (m *Multi) Render(ctx context.Context, p *domain.Presence) error {
	var errs []error
	for i, s := range m.sinks {
		result := "ok"
		if err := s.Render(ctx, p); err != nil {
			result = "error"
			errs = append(errs, err)
		}
		metrics.SnapshotRenders.WithLabelValues(m.names[i], result).Inc()
	}
	return errors.Join(errs...)
}

// LogSink writes a one-line summary of each snapshot.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a logging sink. A nil logger falls back to slog.Default.
func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log}
}

// Render logs the snapshot.
func (s *LogSink) Render(ctx context.Context, p *domain.Presence) error {
	attrs := []any{
		"state", p.OnlineState,
		"recentItems", len(p.RecentItems),
	}
	if p.DisplayName != "" {
		attrs = append(attrs, "displayName", p.DisplayName)
	}
	if p.CurrentActivity != nil {
		attrs = append(attrs, "activity", p.CurrentActivity.Name)
	}
	s.log.Info("presence snapshot", attrs...)
	return nil
}

// Snapshot holds the latest delivered presence in memory for the status
// endpoint and the health monitor.
type Snapshot struct {
	mu        sync.RWMutex
	latest    *domain.Presence
	updatedAt time.Time
}

// NewSnapshot creates an empty snapshot holder.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Render replaces the held snapshot.
func (s *Snapshot) Render(ctx context.Context, p *domain.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = p
	s.updatedAt = time.Now()
	return nil
}

// Latest returns the held snapshot and when it was stored. The presence is
// nil before the first successful poll.
func (s *Snapshot) Latest() (*domain.Presence, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.updatedAt
}
