package health

import (
	"context"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/presence/poll"
	"github.com/marcusziade/compiledthoughts/internal/presence/render"
)

// SchedulerStatus exposes the poll scheduler's state to the monitor.
type SchedulerStatus interface {
	Status() poll.Status
}

// Monitor derives a health classification from the scheduler state and the
// age of the latest snapshot.
type Monitor struct {
	sched      SchedulerStatus
	snapshot   *render.Snapshot
	staleAfter time.Duration
	now        func() time.Time
}

// NewMonitor creates a health monitor. staleAfter is how old the latest
// snapshot may get in steady mode before the service reports degraded;
// two steady intervals is the usual choice.
func NewMonitor(sched SchedulerStatus, snapshot *render.Snapshot, staleAfter time.Duration) *Monitor {
	return &Monitor{
		sched:      sched,
		snapshot:   snapshot,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// CheckHealth builds the current report.
//
// Classification: given up is critical (the poller will not recover on its
// own); deep retrying (past the fast probe phase) or a stale steady snapshot
// is degraded; everything else is healthy.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	st := m.sched.Status()

	report := Report{
		Status:        StatusHealthy,
		Mode:          string(st.Mode),
		RetryCount:    st.RetryCount,
		Attempts:      st.Attempts,
		LastSuccessAt: st.LastSuccessAt,
		LastFailure:   st.LastFailure,
	}

	latest, updatedAt := m.snapshot.Latest()
	if latest != nil {
		age := m.now().Sub(updatedAt)
		report.SnapshotAge = age.Round(time.Second).String()

		if st.Mode == poll.ModeSteady && m.staleAfter > 0 && age > m.staleAfter {
			report.Status = StatusDegraded
		}
	}

	switch st.Mode {
	case poll.ModeGivenUp:
		report.Status = StatusCritical
	case poll.ModeRetrying:
		if st.RetryCount > 5 {
			report.Status = StatusDegraded
		}
	}

	return report
}
