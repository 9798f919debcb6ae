package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
	"github.com/marcusziade/compiledthoughts/internal/infra/storage"
)

// HistoryRepo stores presence snapshots in the presence_history table.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a PostgreSQL-backed history repository.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Save records one snapshot.
func (r *HistoryRepo) Save(ctx context.Context, p *domain.Presence) error {
	activity := ""
	if p.CurrentActivity != nil {
		activity = p.CurrentActivity.Name
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO presence_history (online_state, display_name, activity, recent_count, fetched_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(p.OnlineState), p.DisplayName, activity, len(p.RecentItems), p.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]storage.HistoryEntry, error) {
	var entries []storage.HistoryEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, online_state, display_name, activity, recent_count, fetched_at
		FROM presence_history
		ORDER BY fetched_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes entries fetched before the cutoff.
func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM presence_history WHERE fetched_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete history: %w", err)
	}
	return res.RowsAffected()
}
