package storage

import (
	"context"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
)

// HistoryEntry is one recorded presence snapshot row.
type HistoryEntry struct {
	ID          int64     `db:"id"`
	OnlineState string    `db:"online_state"`
	DisplayName string    `db:"display_name"`
	Activity    string    `db:"activity"`
	RecentCount int       `db:"recent_count"`
	FetchedAt   time.Time `db:"fetched_at"`
}

// HistoryRepository persists delivered presence snapshots.
type HistoryRepository interface {
	// Save records one snapshot.
	Save(ctx context.Context, p *domain.Presence) error

	// Recent returns the newest entries, most recent first.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)

	// DeleteOlderThan removes entries fetched before the cutoff and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
