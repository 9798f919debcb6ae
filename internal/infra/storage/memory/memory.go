package memory

import (
	"context"
	"sync"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
	"github.com/marcusziade/compiledthoughts/internal/infra/storage"
)

// HistoryRepo keeps presence history in memory. Used when no database URL is
// configured; history then lives only as long as the process.
type HistoryRepo struct {
	mu      sync.RWMutex
	entries []storage.HistoryEntry
	nextID  int64
}

// NewHistoryRepo creates an empty in-memory history repository.
func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{nextID: 1}
}

// Save records one snapshot.
func (r *HistoryRepo) Save(ctx context.Context, p *domain.Presence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity := ""
	if p.CurrentActivity != nil {
		activity = p.CurrentActivity.Name
	}

	r.entries = append(r.entries, storage.HistoryEntry{
		ID:          r.nextID,
		OnlineState: string(p.OnlineState),
		DisplayName: p.DisplayName,
		Activity:    activity,
		RecentCount: len(p.RecentItems),
		FetchedAt:   p.FetchedAt,
	})
	r.nextID++
	return nil
}

// Recent returns the newest entries, most recent first.
func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]storage.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit > n {
		limit = n
	}

	out := make([]storage.HistoryEntry, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// DeleteOlderThan removes entries fetched before the cutoff.
func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	var deleted int64
	for _, e := range r.entries {
		if e.FetchedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}
